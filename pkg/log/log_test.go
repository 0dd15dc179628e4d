/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		level   string
		written []string
		skipped []string
	}{
		{"error", []string{"[error] e"}, []string{"[warn] w", "[info] i", "[debug] d"}},
		{"warning", []string{"[error] e", "[warn] w"}, []string{"[info] i", "[debug] d"}},
		{"info", []string{"[error] e", "[warn] w", "[info] i"}, []string{"[debug] d"}},
		{"debug", []string{"[error] e", "[warn] w", "[info] i", "[debug] d"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(&buf, tt.level)
			require.NoError(t, err)

			l.Error("e")
			l.Warning("w")
			l.Info("i")
			l.Debug("d")

			for _, s := range tt.written {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.skipped {
				assert.NotContains(t, buf.String(), s)
			}
			assert.Contains(t, buf.String(), LogPrefix)
		})
	}
}

func TestWrongLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), HelpLevels)
}

func TestNilLoggerDiscards(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Error("nothing %d", 1)
		l.Debug("nothing")
	})
	assert.NotNil(t, l.Writer())
}
