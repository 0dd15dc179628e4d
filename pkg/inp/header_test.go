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

package inp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-inp/pkg/layers"
)

func TestReadHeaderVersions(t *testing.T) {
	tests := []struct {
		major, minor uint8
		supported    bool
	}{
		{3, 0, true},
		{3, 5, true},
		{3, 1, false},
		{2, 0, false},
		{4, 5, false},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		enc, err := NewEncoder(&buf, layers.Header{MajorVersion: tt.major, MinorVersion: tt.minor, Machine: "dkong"}, 0, 0, true)
		require.NoError(t, err)
		require.NoError(t, enc.Close())

		header, raw, err := ReadHeader(&buf)
		if tt.supported {
			require.NoError(t, err)
			assert.Equal(t, "dkong", header.Machine)
			assert.Len(t, raw, layers.HeaderSize)
			continue
		}
		var unsupported ErrUnsupportedVersion
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, tt.major, unsupported.Major)
		assert.Equal(t, tt.minor, unsupported.Minor)
	}
}

func TestReadHeaderConsumesExactlyHeader(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewEncoder(&buf, layers.Header{MajorVersion: 3, Machine: "pacman"}, 0, 0, true)
	require.NoError(t, err)
	buf.WriteString("payload")

	_, _, err = ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", buf.String())
}

func TestReadHeaderShort(t *testing.T) {
	for _, size := range []int{0, 1, 8, layers.HeaderSize - 1} {
		_, _, err := ReadHeader(bytes.NewReader(make([]byte, size)))
		var invalid ErrInvalidHeader
		require.ErrorAs(t, err, &invalid, "size %d", size)
	}
}

func TestParseHeaderSignature(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewEncoder(&buf, layers.Header{MajorVersion: 3, MinorVersion: 5, Machine: "pacman"}, 0, 0, true)
	require.NoError(t, err)
	valid := buf.Bytes()

	for i := 0; i < layers.SignatureSize; i++ {
		data := append([]byte(nil), valid...)
		data[i]++
		_, err := ParseHeader(data)
		var invalid ErrInvalidHeader
		assert.ErrorAs(t, err, &invalid, "byte %d", i)
	}
}
