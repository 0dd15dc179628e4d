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

package layers

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"sigs.k8s.io/yaml"
)

const (
	// HeaderLayerNum identifies the layer
	HeaderLayerNum = 2000

	HeaderSize = 64

	OffsSignature   = 0x00
	OffsBaseTime    = 0x08
	OffsMajorVer    = 0x10
	OffsMinorVer    = 0x11
	OffsMachine     = 0x14
	OffsDescription = 0x20

	SignatureSize   = 8
	MachineSize     = 0x0c
	DescriptionSize = 0x20
)

// Signature is the magic every INP file starts with, NUL terminated
var Signature = [SignatureSize]byte{'M', 'A', 'M', 'E', 'I', 'N', 'P', 0}

// Header is the fixed 64 byte block at the beginning of an INP file
type Header struct {
	BaseTimeSec  uint64 `json:"basetime"`
	MajorVersion uint8  `json:"majorVersion"`
	MinorVersion uint8  `json:"minorVersion"`
	Machine      string `json:"machine"`
	Description  string `json:"description,omitempty"`
}

// BaseTime returns the recording start time
func (h *Header) BaseTime() time.Time {
	return time.Unix(int64(h.BaseTimeSec), 0).UTC()
}

func (h *Header) Version() string {
	return fmt.Sprintf("%d.%d", h.MajorVersion, h.MinorVersion)
}

func (h *Header) String() string {
	result, err := yaml.Marshal(h)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("---\n%s", string(result))
}

// HeaderLayer ...
type HeaderLayer struct {
	layers.BaseLayer
	Header
}

var HeaderLayerType = gopacket.RegisterLayerType(HeaderLayerNum,
	gopacket.LayerTypeMetadata{Name: "INPHeaderLayerType", Decoder: gopacket.DecodeFunc(decodeHeaderLayer)})

// LayerType returns the type of the INP header layer in the layer catalog
func (hl *HeaderLayer) LayerType() gopacket.LayerType {
	return HeaderLayerType
}

func (hl *HeaderLayer) CanDecode() gopacket.LayerClass {
	return HeaderLayerType
}

// NextLayerType is the compressed frame stream, which gopacket can not look into
func (hl *HeaderLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// decodeASCII strips trailing NUL padding and rejects non ASCII bytes
func decodeASCII(field string, b []byte) (string, error) {
	b = bytes.TrimRight(b, "\x00")
	for i, c := range b {
		if c > 0x7f {
			return "", ErrInvalidHeader{What: fmt.Sprintf("non ASCII byte 0x%02x in %s at position %d", c, field, i)}
		}
	}
	return string(b), nil
}

// DecodeFromBytes decodes the 64 byte INP header. Version support is not
// checked here, it is a policy of the reader.
func (hl *HeaderLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderSize {
		df.SetTruncated()
		return ErrInvalidHeader{What: fmt.Sprintf("too short: want %d bytes, got %d", HeaderSize, len(data))}
	}
	if !bytes.Equal(data[OffsSignature:OffsSignature+SignatureSize], Signature[:]) {
		return ErrInvalidHeader{What: fmt.Sprintf("wrong signature %q", data[OffsSignature:OffsSignature+SignatureSize])}
	}

	machine, err := decodeASCII("machine identifier", data[OffsMachine:OffsMachine+MachineSize])
	if err != nil {
		return err
	}
	description, err := decodeASCII("application description", data[OffsDescription:OffsDescription+DescriptionSize])
	if err != nil {
		return err
	}

	hl.BaseLayer = layers.BaseLayer{
		Contents: data[:HeaderSize],
		Payload:  data[HeaderSize:],
	}
	hl.Header = Header{
		BaseTimeSec:  binary.LittleEndian.Uint64(data[OffsBaseTime : OffsBaseTime+8]),
		MajorVersion: data[OffsMajorVer],
		MinorVersion: data[OffsMinorVer],
		Machine:      machine,
		Description:  description,
	}
	return nil
}

// SerializeTo writes the 64 byte header. Identifiers longer than their
// fixed width are rejected, shorter ones are NUL padded.
func (hl *HeaderLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if len(hl.Machine) > MachineSize {
		return fmt.Errorf("machine identifier %q longer than %d bytes", hl.Machine, MachineSize)
	}
	if len(hl.Description) > DescriptionSize {
		return fmt.Errorf("application description longer than %d bytes", DescriptionSize)
	}
	buf, err := b.PrependBytes(HeaderSize)
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] = 0
	}
	copy(buf[OffsSignature:], Signature[:])
	binary.LittleEndian.PutUint64(buf[OffsBaseTime:OffsBaseTime+8], hl.BaseTimeSec)
	buf[OffsMajorVer] = hl.MajorVersion
	buf[OffsMinorVer] = hl.MinorVersion
	copy(buf[OffsMachine:OffsMachine+MachineSize], hl.Machine)
	copy(buf[OffsDescription:OffsDescription+DescriptionSize], hl.Description)
	return nil
}

func decodeHeaderLayer(data []byte, p gopacket.PacketBuilder) error {
	hl := &HeaderLayer{}
	err := hl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(hl)
	return p.NextDecoder(hl.NextLayerType())
}
