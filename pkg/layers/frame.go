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
	"encoding/binary"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// FrameLayerNum identifies the layer
	FrameLayerNum = 2001

	// FrameMetaSize is seconds (4) + attoseconds (8) + current speed (4)
	FrameMetaSize = 16
	// DigitalPortSize is default value (4) + digital bits (4)
	DigitalPortSize = 8
	// AnalogPortSize is accumulator (4) + previous (4) + sensitivity (4) + reverse (1), packed
	AnalogPortSize = 13
)

// FrameMeta ... // 16 bytes
type FrameMeta struct {
	Seconds    uint32
	Subseconds uint64 // attoseconds
	Speed      uint32
}

// DigitalPortState ... // 8 bytes, one per port
type DigitalPortState struct {
	DefValue uint32
	Digital  uint32
}

// AnalogPortState ... // 13 bytes, one per analog field
// It is only kept for serialization, decoding skips it.
type AnalogPortState struct {
	Accum       int32
	Previous    int32
	Sensitivity int32
	Reverse     bool
}

// FrameRecordSize is the size of a complete frame record for a machine
func FrameRecordSize(portCount, analogCount int) int {
	return FrameMetaSize + portCount*DigitalPortSize + analogCount*AnalogPortSize
}

// FrameLayer is one frame record: meta, digital block, analog block.
// PortCount and AnalogCount must be set before decoding, they come from
// the reference data of the machine, not from the stream.
type FrameLayer struct {
	layers.BaseLayer
	PortCount   int
	AnalogCount int
	FrameMeta
	Digital []DigitalPortState
	Analog  []AnalogPortState
}

var FrameLayerType = gopacket.RegisterLayerType(FrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "INPFrameLayerType", Decoder: gopacket.DecodeFunc(decodeFrameLayer)})

// LayerType returns the type of the INP frame layer in the layer catalog
func (fl *FrameLayer) LayerType() gopacket.LayerType {
	return FrameLayerType
}

func (fl *FrameLayer) CanDecode() gopacket.LayerClass {
	return FrameLayerType
}

func (fl *FrameLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

// DecodeFrameMeta ...
func DecodeFrameMeta(data []byte) (FrameMeta, error) {
	if len(data) < FrameMetaSize {
		return FrameMeta{}, ErrShortRecord{Record: "frame meta", Want: FrameMetaSize, Got: len(data)}
	}
	return FrameMeta{
		Seconds:    binary.LittleEndian.Uint32(data[0:4]),
		Subseconds: binary.LittleEndian.Uint64(data[4:12]),
		Speed:      binary.LittleEndian.Uint32(data[12:16]),
	}, nil
}

// DecodeDigitalBlock decodes portCount default/digital pairs in port order
func DecodeDigitalBlock(data []byte, portCount int) ([]DigitalPortState, error) {
	want := portCount * DigitalPortSize
	if len(data) < want {
		return nil, ErrShortRecord{Record: "digital block", Want: want, Got: len(data)}
	}
	result := make([]DigitalPortState, portCount)
	for i := range result {
		offset := i * DigitalPortSize
		result[i] = DigitalPortState{
			DefValue: binary.LittleEndian.Uint32(data[offset : offset+4]),
			Digital:  binary.LittleEndian.Uint32(data[offset+4 : offset+8]),
		}
	}
	return result, nil
}

// Serialize FrameMeta ...
func (m *FrameMeta) Serialize(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], m.Seconds)
	binary.LittleEndian.PutUint64(buf[4:12], m.Subseconds)
	binary.LittleEndian.PutUint32(buf[12:16], m.Speed)
}

// Serialize DigitalPortState ...
func (d *DigitalPortState) Serialize(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], d.DefValue)
	binary.LittleEndian.PutUint32(buf[4:8], d.Digital)
}

// Serialize AnalogPortState ...
func (a *AnalogPortState) Serialize(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.Accum))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(a.Previous))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(a.Sensitivity))
	buf[12] = 0
	if a.Reverse {
		buf[12] = 1
	}
}

// DecodeFromBytes decodes a complete frame record. The analog block is
// length checked and skipped.
func (fl *FrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	size := FrameRecordSize(fl.PortCount, fl.AnalogCount)
	if len(data) < size {
		df.SetTruncated()
		return ErrShortRecord{Record: "frame", Want: size, Got: len(data)}
	}

	meta, err := DecodeFrameMeta(data)
	if err != nil {
		return err
	}
	digital, err := DecodeDigitalBlock(data[FrameMetaSize:], fl.PortCount)
	if err != nil {
		return err
	}

	fl.BaseLayer = layers.BaseLayer{
		Contents: data[:size],
		Payload:  data[size:],
	}
	fl.FrameMeta = meta
	fl.Digital = digital
	fl.Analog = nil
	return nil
}

// SerializeTo appends the frame record. Missing digital or analog entries
// are written as zeros so the record always has the configured size.
func (fl *FrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	buf, err := b.AppendBytes(FrameRecordSize(fl.PortCount, fl.AnalogCount))
	if err != nil {
		return err
	}
	for i := range buf {
		buf[i] = 0
	}
	fl.FrameMeta.Serialize(buf[:FrameMetaSize])
	offset := FrameMetaSize
	for i := 0; i < fl.PortCount; i++ {
		if i < len(fl.Digital) {
			fl.Digital[i].Serialize(buf[offset : offset+DigitalPortSize])
		}
		offset += DigitalPortSize
	}
	for i := 0; i < fl.AnalogCount; i++ {
		if i < len(fl.Analog) {
			fl.Analog[i].Serialize(buf[offset : offset+AnalogPortSize])
		}
		offset += AnalogPortSize
	}
	return nil
}

// decodeFrameLayer can only decode frames without ports, it exists to
// register the layer type. Decoders that know the machine use FrameLayer directly.
func decodeFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	fl := &FrameLayer{}
	err := fl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(fl)
	return nil
}
