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
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"

	"jinr.ru/greenlab/go-inp/pkg/layers"
)

// Frame is one decoded frame record. Analog records are skipped.
type Frame struct {
	// Index is 1-based
	Index int
	layers.FrameMeta
	Digital []layers.DigitalPortState
}

var rotation = [...]Block{BlockFrameMeta, BlockDigital, BlockAnalog}

// Decoder reads frame records from the inflated payload of an INP file.
// Every record is meta, then one digital pair per port, then one analog
// record per analog field of the machine. Nothing in the stream tells
// how many ports or analog fields there are, so both counts come from the
// reference data and a wrong count misaligns every following frame.
//
// Decoder is not safe for concurrent use.
type Decoder struct {
	r           io.Reader
	portCount   int
	analogCount int

	buf    []byte
	frame  *layers.FrameLayer
	offset int64
	frames int
	err    error
}

// NewDecoder creates a decoder for a machine with portCount ports and
// analogCount analog fields in total.
func NewDecoder(r io.Reader, portCount, analogCount int) *Decoder {
	return &Decoder{
		r:           r,
		portCount:   portCount,
		analogCount: analogCount,
		buf:         make([]byte, layers.FrameRecordSize(portCount, analogCount)),
		frame:       &layers.FrameLayer{PortCount: portCount, AnalogCount: analogCount},
	}
}

func (dec *Decoder) blockSize(b Block) int {
	switch b {
	case BlockFrameMeta:
		return layers.FrameMetaSize
	case BlockDigital:
		return dec.portCount * layers.DigitalPortSize
	case BlockAnalog:
		return dec.analogCount * layers.AnalogPortSize
	}
	return 0
}

// Next decodes the next frame. It returns io.EOF when the stream ends
// exactly at a frame boundary and ErrTruncatedStream when a record is cut
// short. Once Next returned an error it keeps returning it.
func (dec *Decoder) Next() (*Frame, error) {
	if dec.err != nil {
		return nil, dec.err
	}

	index := dec.frames + 1
	pos := 0
	for _, block := range rotation {
		size := dec.blockSize(block)
		n, err := io.ReadFull(dec.r, dec.buf[pos:pos+size])
		if err != nil {
			dec.err = dec.readError(block, index, size, n, err)
			dec.offset += int64(n)
			return nil, dec.err
		}
		dec.offset += int64(n)
		pos += size
	}

	if err := dec.frame.DecodeFromBytes(dec.buf, gopacket.NilDecodeFeedback); err != nil {
		dec.err = fmt.Errorf("could not decode frame %d: %w", index, err)
		return nil, dec.err
	}
	dec.frames = index

	return &Frame{
		Index:     index,
		FrameMeta: dec.frame.FrameMeta,
		Digital:   dec.frame.Digital,
	}, nil
}

func (dec *Decoder) readError(block Block, index, size, n int, err error) error {
	switch {
	case block == BlockFrameMeta && n == 0 && errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncatedStream{
			Frame:  index,
			Offset: dec.offset,
			Block:  block,
			Want:   size,
			Got:    n,
		}
	default:
		return fmt.Errorf("could not read %s of frame %d at payload offset %d: %w", block, index, dec.offset, err)
	}
}

// Frames returns the number of frames decoded so far
func (dec *Decoder) Frames() int {
	return dec.frames
}

// Offset returns the number of payload bytes consumed so far
func (dec *Decoder) Offset() int64 {
	return dec.offset
}

// Err returns the terminal error, io.EOF on clean end of stream
func (dec *Decoder) Err() error {
	return dec.err
}
