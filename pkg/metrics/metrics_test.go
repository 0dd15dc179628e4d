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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecode(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordDecode("clean-end", 120, 0.01)
	m.RecordDecode("truncated", 3, 0.002)
	m.RecordDecodeError("unsupported_game")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("clean-end")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Decodes.WithLabelValues("truncated")))
	assert.Equal(t, 123.0, testutil.ToFloat64(m.FramesDecoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors.WithLabelValues("unsupported_game")))

	count, err := testutil.GatherAndCount(reg, "inp_decode_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
