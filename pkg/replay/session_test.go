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

package replay

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jinr.ru/greenlab/go-inp/pkg/inp"
	"jinr.ru/greenlab/go-inp/pkg/layers"
	"jinr.ru/greenlab/go-inp/pkg/log"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

const testRefDB = `{"mame_build": "0.262", "mame_config": "10"}
pacman` + "\x00" + `{"IN0": {"fields": {"1": {"analog": false, "type": "COIN1", "defvalue": 0, "specific_name": null, "player": 0}}}, "IN1": {"fields": {"16": {"analog": false, "type": "START1", "defvalue": 0, "specific_name": null, "player": 0}}}}
paddle` + "\x00" + `{"P1": {"fields": {"255": {"analog": true, "type": "IPT_PADDLE", "defvalue": 128, "specific_name": null, "player": 0}, "256": {"analog": false, "type": "IPT_BUTTON1", "defvalue": 0, "specific_name": null, "player": 0}}}}
`

func testSource(t *testing.T) refdb.Source {
	t.Helper()
	db, err := refdb.Load(strings.NewReader(testRefDB))
	require.NoError(t, err)
	return db
}

type recording struct {
	machine string
	raw     bool
	// preamble is written in front of the first frame
	preamble []byte
	frames   []layers.FrameMeta
	digital  [][]layers.DigitalPortState
	analog   int
	trailing []byte
}

func (rec recording) bytes(t *testing.T) []byte {
	t.Helper()
	ports := 0
	if len(rec.digital) > 0 {
		ports = len(rec.digital[0])
	}
	var buf bytes.Buffer
	enc, err := inp.NewEncoder(&buf, layers.Header{BaseTimeSec: 1700000000, MajorVersion: 3, MinorVersion: 5, Machine: rec.machine, Description: "test"}, ports, rec.analog, rec.raw)
	require.NoError(t, err)
	require.NoError(t, enc.WriteRaw(rec.preamble))
	for i, meta := range rec.frames {
		require.NoError(t, enc.WriteFrame(meta, rec.digital[i], make([]layers.AnalogPortState, rec.analog)))
	}
	require.NoError(t, enc.WriteRaw(rec.trailing))
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

// trackingReader counts consumed bytes and remembers Close
type trackingReader struct {
	r        io.Reader
	n        int
	closed   bool
	closeErr error
}

func (tr *trackingReader) Read(p []byte) (int, error) {
	n, err := tr.r.Read(p)
	tr.n += n
	return n, err
}

func (tr *trackingReader) Close() error {
	tr.closed = true
	return tr.closeErr
}

func track(data []byte) *trackingReader {
	return &trackingReader{r: bytes.NewReader(data)}
}

func pacmanRecording() recording {
	return recording{
		machine: "pacman",
		frames:  []layers.FrameMeta{{Seconds: 100, Subseconds: 0, Speed: 100}},
		digital: [][]layers.DigitalPortState{{{DefValue: 0, Digital: 0x01}, {DefValue: 0, Digital: 0x00}}},
	}
}

func TestDecodeEndToEnd(t *testing.T) {
	in := track(pacmanRecording().bytes(t))
	result, err := Decode(in, testSource(t), Options{})
	require.NoError(t, err)
	assert.True(t, in.closed)

	assert.Equal(t, "pacman", result.Machine)
	assert.Equal(t, "3.5", result.Header.Version())
	assert.Equal(t, TerminationCleanEnd, result.Termination)
	assert.Nil(t, result.Truncation)
	assert.Equal(t, []int{0, 1}, result.Ports)

	want := []*ResolvedFrame{{Index: 1, Seconds: 100, Subseconds: 0, Speed: 100, Ports: map[int][]string{0: {"COIN1"}, 1: {}}}}
	if diff := cmp.Diff(want, result.Frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONLayout(t *testing.T) {
	result, err := Decode(track(pacmanRecording().bytes(t)), testSource(t), Options{Ports: []int{0}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, result.WriteJSON(&buf, false))
	var doc struct {
		Frames      []json.RawMessage `json:"frames"`
		Termination string            `json:"termination"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Frames, 1)
	assert.JSONEq(t, `{"f": 1, "s": 100, "as": 0, "cs": 100, "p": {"0": ["COIN1"]}}`, string(doc.Frames[0]))
	assert.Equal(t, "clean-end", doc.Termination)

	buf.Reset()
	require.NoError(t, result.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "termination: clean-end")
}

func TestOpenRejectsPortBeforePayload(t *testing.T) {
	in := track(pacmanRecording().bytes(t))
	_, err := Open(in, testSource(t), Options{Ports: []int{2}})

	var invalid ErrInvalidPortRequest
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, ErrInvalidPortRequest{Port: 2, PortCount: 2}, invalid)
	assert.Equal(t, layers.HeaderSize, in.n)
	assert.True(t, in.closed)
}

func TestOpenUnsupportedGame(t *testing.T) {
	rec := pacmanRecording()
	rec.machine = "galaga"
	in := track(rec.bytes(t))
	_, err := Open(in, testSource(t), Options{})

	var unsupported refdb.ErrUnsupportedGame
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "galaga", unsupported.Machine)
	assert.True(t, in.closed)
}

func TestOpenInvalidHeader(t *testing.T) {
	data := pacmanRecording().bytes(t)
	data[0] = 'X'
	_, err := Open(track(data), testSource(t), Options{})
	var invalid inp.ErrInvalidHeader
	assert.True(t, errors.As(err, &invalid))

	data = pacmanRecording().bytes(t)
	data[0x10] = 2
	_, err = Open(track(data), testSource(t), Options{})
	var unsupported inp.ErrUnsupportedVersion
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, uint8(2), unsupported.Major)
}

func TestDecodeTruncated(t *testing.T) {
	rec := pacmanRecording()
	for i := 0; i < 2; i++ {
		rec.frames = append(rec.frames, layers.FrameMeta{Seconds: 100, Subseconds: uint64(i+1) * 1000, Speed: 100})
		rec.digital = append(rec.digital, []layers.DigitalPortState{{Digital: 0x01}, {Digital: 0x10}})
	}
	rec.trailing = []byte{1, 2, 3, 4, 5}

	var logs bytes.Buffer
	logger, err := log.New(&logs, "info")
	require.NoError(t, err)

	result, err := Decode(track(rec.bytes(t)), testSource(t), Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, TerminationTruncated, result.Termination)
	require.Len(t, result.Frames, 3)
	assert.Equal(t, []string{"START1"}, result.Frames[2].Ports[1])
	require.NotNil(t, result.Truncation)
	assert.Equal(t, 4, result.Truncation.Frame)
	assert.Equal(t, inp.BlockFrameMeta, result.Truncation.Block)
	assert.Equal(t, 5, result.Truncation.Got)
	assert.Contains(t, logs.String(), "END OF REPLAY")
}

func TestDecodeCorruptPayloadKeepsFrames(t *testing.T) {
	rec := pacmanRecording()
	for i := 0; i < 2; i++ {
		rec.frames = append(rec.frames, layers.FrameMeta{Seconds: 101 + uint32(i), Speed: 100})
		rec.digital = append(rec.digital, []layers.DigitalPortState{{Digital: 0x00}, {Digital: 0x10}})
	}
	data := rec.bytes(t)
	// last byte belongs to the adler32 trailer of the zlib stream
	data[len(data)-1] ^= 0xff

	var logs bytes.Buffer
	logger, err := log.New(&logs, "info")
	require.NoError(t, err)

	in := track(data)
	result, err := Decode(in, testSource(t), Options{Logger: logger})
	require.Error(t, err)
	assert.True(t, in.closed)
	require.NotNil(t, result)
	assert.Equal(t, TerminationError, result.Termination)
	assert.Nil(t, result.Truncation)
	assert.Equal(t, err.Error(), result.Error)
	assert.Contains(t, result.Error, "stopped after 3 frames")
	require.Len(t, result.Frames, 3)
	assert.Equal(t, []string{"START1"}, result.Frames[2].Ports[1])
	assert.Contains(t, logs.String(), "[error] replay of pacman")
	assert.Contains(t, logs.String(), "END OF REPLAY")

	var buf bytes.Buffer
	require.NoError(t, result.WriteJSON(&buf, false))
	assert.Contains(t, buf.String(), `"termination":"error"`)
	assert.Contains(t, buf.String(), `"error":"replay of pacman`)
}

func TestDecodeReportsCloseError(t *testing.T) {
	in := track(pacmanRecording().bytes(t))
	in.closeErr = errors.New("disk gone")
	result, err := Decode(in, testSource(t), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	require.NotNil(t, result)
	assert.Equal(t, TerminationCleanEnd, result.Termination)
	assert.Len(t, result.Frames, 1)
}

func TestDecodeAnalogMachine(t *testing.T) {
	rec := recording{
		machine: "paddle",
		analog:  1,
		frames:  []layers.FrameMeta{{Seconds: 1}, {Seconds: 2}},
		digital: [][]layers.DigitalPortState{{{Digital: 0xffff}}, {{Digital: 0x0ff}}},
	}
	result, err := Decode(track(rec.bytes(t)), testSource(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, TerminationCleanEnd, result.Termination)
	require.Len(t, result.Frames, 2)
	assert.Equal(t, []string{"IPT_BUTTON1"}, result.Frames[0].Ports[0])
	assert.Equal(t, []string{}, result.Frames[1].Ports[0])
}

func TestSessionRawWithPreamble(t *testing.T) {
	rec := pacmanRecording()
	rec.raw = true
	rec.preamble = []byte("PREAMBLE")

	s, err := Open(track(rec.bytes(t)), testSource(t), Options{Raw: true, SkipBytes: len(rec.preamble)})
	require.NoError(t, err)
	defer s.Close()

	frame, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"COIN1"}, frame.Ports[0])
	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSessionShortPreamble(t *testing.T) {
	rec := recording{machine: "pacman", raw: true, preamble: []byte{1, 2, 3}}
	result, err := Decode(track(rec.bytes(t)), testSource(t), Options{Raw: true, SkipBytes: 8})
	require.NoError(t, err)
	assert.Equal(t, TerminationTruncated, result.Termination)
	assert.Empty(t, result.Frames)
	assert.Equal(t, inp.BlockPreamble, result.Truncation.Block)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pacman.inp")
	require.NoError(t, os.WriteFile(path, pacmanRecording().bytes(t), 0644))

	result, err := DecodeFile(path, testSource(t), Options{Ports: []int{1}})
	require.NoError(t, err)
	require.Len(t, result.Frames, 1)
	assert.Equal(t, map[int][]string{1: {}}, result.Frames[0].Ports)

	_, err = DecodeFile(filepath.Join(t.TempDir(), "missing.inp"), testSource(t), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestListPorts(t *testing.T) {
	ports, err := ListPorts(testSource(t), "paddle")
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, 0, ports[0].Index)
	assert.Equal(t, "P1", ports[0].Tag)
	require.Len(t, ports[0].Fields, 2)
	assert.Equal(t, uint32(255), ports[0].Fields[0].Mask)
	assert.True(t, ports[0].Fields[0].Analog)

	var buf bytes.Buffer
	require.NoError(t, ports.WriteJSON(&buf, true))
	assert.Contains(t, buf.String(), `"type": "IPT_BUTTON1"`)

	_, err = ListPorts(testSource(t), "galaga")
	var unsupported refdb.ErrUnsupportedGame
	assert.True(t, errors.As(err, &unsupported))
}
