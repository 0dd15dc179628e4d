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

package srv

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-inp/pkg/config"
	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/layers"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
	"jinr.ru/greenlab/go-inp/pkg/replay"
)

const testRefDB = `{"mame_build": "0.262", "mame_config": "10"}
pacman` + "\x00" + `{"IN0": {"fields": {"1": {"analog": false, "type": "COIN1", "defvalue": 0, "specific_name": null, "player": 0}}}, "IN1": {"fields": {"16": {"analog": false, "type": "START1", "defvalue": 0, "specific_name": null, "player": 0}}}}
`

func newTestServer(t *testing.T) (*ApiServer, *httptest.Server) {
	t.Helper()
	db, err := refdb.Load(strings.NewReader(testRefDB))
	require.NoError(t, err)

	cfg := config.NewConfig(filepath.Join(t.TempDir(), config.ConfigFile))
	cfg.MaxUploadSize = 4096
	logger, err := log.New(io.Discard, "debug")
	require.NoError(t, err)

	s, err := NewApiServer(context.Background(), cfg, db, logger)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func pacmanINP(t *testing.T, frames int, trailing []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := inp.NewEncoder(&buf, layers.Header{MajorVersion: 3, Machine: "pacman"}, 2, 0, false)
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		digital := []layers.DigitalPortState{{Digital: uint32(i % 2)}, {Digital: 0x10}}
		require.NoError(t, enc.WriteFrame(layers.FrameMeta{Seconds: 100, Speed: 100}, digital, nil))
	}
	require.NoError(t, enc.WriteRaw(trailing))
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func decodeError(t *testing.T, resp *http.Response) ErrorResp {
	t.Helper()
	var e ErrorResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Equal(t, resp.StatusCode, e.Code)
	return e
}

func TestMachines(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/machines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var machines []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&machines))
	assert.Equal(t, []string{"pacman"}, machines)
}

func TestPorts(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/machines/pacman/ports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ports replay.PortList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ports))
	require.Len(t, ports, 2)
	assert.Equal(t, "IN1", ports[1].Tag)
	assert.Equal(t, "START1", ports[1].Fields[0].Type)

	missing, err := http.Get(ts.URL + "/api/machines/galaga/ports")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Contains(t, decodeError(t, missing).Message, "galaga")
}

func TestHeader(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/header", "application/octet-stream", bytes.NewReader(pacmanINP(t, 1, nil)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var header layers.Header
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&header))
	assert.Equal(t, "pacman", header.Machine)

	short, err := http.Post(ts.URL+"/api/header", "application/octet-stream", strings.NewReader("MAMEINP"))
	require.NoError(t, err)
	defer short.Body.Close()
	assert.Equal(t, http.StatusBadRequest, short.StatusCode)
}

func TestDecode(t *testing.T) {
	s, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/decode?ports=0", "application/octet-stream", bytes.NewReader(pacmanINP(t, 3, nil)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result replay.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, replay.TerminationCleanEnd, result.Termination)
	require.Len(t, result.Frames, 3)
	assert.Equal(t, map[int][]string{0: {}}, result.Frames[0].Ports)
	assert.Equal(t, map[int][]string{0: {"COIN1"}}, result.Frames[1].Ports)

	metrics := httptest.NewRecorder()
	s.Handler().ServeHTTP(metrics, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `inp_decodes_total{termination="clean-end"} 1`)
	assert.Contains(t, metrics.Body.String(), `inp_frames_decoded_total 3`)
}

func TestRequestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/machines/galaga/ports", nil))

	metrics := httptest.NewRecorder()
	s.Handler().ServeHTTP(metrics, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `endpoint="/api/machines/{machine}/ports"`)
	assert.Contains(t, metrics.Body.String(), `status_code="404"`)
}

func TestDecodeTruncated(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/decode", "application/octet-stream", bytes.NewReader(pacmanINP(t, 2, []byte{1, 2, 3})))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result replay.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, replay.TerminationTruncated, result.Termination)
	assert.Len(t, result.Frames, 2)
	require.NotNil(t, result.Truncation)
	assert.Equal(t, 3, result.Truncation.Got)
}

func TestDecodeCorruptPayloadReturnsPartialResult(t *testing.T) {
	s, _ := newTestServer(t)
	body := pacmanINP(t, 2, nil)
	body[len(body)-1] ^= 0xff

	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, httptest.NewRequest("POST", "/api/decode", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, resp.Code)

	var result replay.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, replay.TerminationError, result.Termination)
	assert.Contains(t, result.Error, "checksum")
	assert.Len(t, result.Frames, 2)

	metrics := httptest.NewRecorder()
	s.Handler().ServeHTTP(metrics, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `inp_decodes_total{termination="error"} 1`)
	assert.Contains(t, metrics.Body.String(), `inp_decode_errors_total{error_type="internal"} 1`)
}

func TestDecodeErrors(t *testing.T) {
	_, ts := newTestServer(t)
	galaga := pacmanINP(t, 1, nil)
	copy(galaga[layers.OffsMachine:], "galaga\x00")

	tests := []struct {
		name   string
		query  string
		body   []byte
		status int
	}{
		{"port out of range", "?ports=0,2", pacmanINP(t, 1, nil), http.StatusBadRequest},
		{"bad ports", "?ports=zero", pacmanINP(t, 1, nil), http.StatusBadRequest},
		{"bad skip", "?skip=-1", pacmanINP(t, 1, nil), http.StatusBadRequest},
		{"bad raw", "?raw=maybe", pacmanINP(t, 1, nil), http.StatusBadRequest},
		{"not inp", "", []byte(strings.Repeat("x", 100)), http.StatusBadRequest},
		{"unknown machine", "", galaga, http.StatusNotFound},
		{"not compressed", "", append(pacmanINP(t, 0, nil)[:layers.HeaderSize], 0xff, 0xff), http.StatusInternalServerError},
		{"too large", "?raw=true", append(pacmanINP(t, 0, nil)[:layers.HeaderSize], make([]byte, 8192)...), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/decode"+tt.query, "application/octet-stream", bytes.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			decodeError(t, resp)
		})
	}
}

func TestSwaggerAndDocs(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + SwaggerPath)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "2.0", doc["swagger"])

	docs, err := http.Get(ts.URL + "/" + DocsPath)
	require.NoError(t, err)
	defer docs.Body.Close()
	assert.Equal(t, http.StatusOK, docs.StatusCode)
	body, err := io.ReadAll(docs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), SwaggerPath)
}
