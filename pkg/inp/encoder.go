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
	"io"

	"github.com/google/gopacket"
	"github.com/klauspost/compress/zlib"

	"jinr.ru/greenlab/go-inp/pkg/layers"
)

// Encoder writes INP files. It is the inverse of the header reader and
// the frame decoder and is used to produce recordings for tests and tools.
type Encoder struct {
	w     io.Writer
	zw    *zlib.Writer
	frame *layers.FrameLayer
	buf   gopacket.SerializeBuffer
}

// NewEncoder writes the header to w and prepares the payload writer
func NewEncoder(w io.Writer, header layers.Header, portCount, analogCount int, raw bool) (*Encoder, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, &layers.HeaderLayer{Header: header}); err != nil {
		return nil, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	e := &Encoder{
		w:     w,
		frame: &layers.FrameLayer{PortCount: portCount, AnalogCount: analogCount},
		buf:   buf,
	}
	if !raw {
		e.zw = zlib.NewWriter(w)
	}
	return e, nil
}

func (e *Encoder) payload() io.Writer {
	if e.zw != nil {
		return e.zw
	}
	return e.w
}

// WriteFrame appends one frame record
func (e *Encoder) WriteFrame(meta layers.FrameMeta, digital []layers.DigitalPortState, analog []layers.AnalogPortState) error {
	e.frame.FrameMeta = meta
	e.frame.Digital = digital
	e.frame.Analog = analog
	if err := gopacket.SerializeLayers(e.buf, gopacket.SerializeOptions{}, e.frame); err != nil {
		return err
	}
	_, err := e.payload().Write(e.buf.Bytes())
	return err
}

// WriteRaw appends bytes to the payload as is, e.g. a preamble
func (e *Encoder) WriteRaw(b []byte) error {
	_, err := e.payload().Write(b)
	return err
}

// Close flushes the compressed payload. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.zw != nil {
		return e.zw.Close()
	}
	return nil
}
