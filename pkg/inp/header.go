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

// IsSupportedVersion ...
func IsSupportedVersion(major, minor uint8) bool {
	if major != SupportedMajorVersion {
		return false
	}
	for _, v := range SupportedMinorVersions {
		if v == minor {
			return true
		}
	}
	return false
}

// ParseHeader validates a raw 64 byte header block
func ParseHeader(data []byte) (*layers.Header, error) {
	hl := &layers.HeaderLayer{}
	if err := hl.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return nil, err
	}
	if !IsSupportedVersion(hl.MajorVersion, hl.MinorVersion) {
		return nil, ErrUnsupportedVersion{Major: hl.MajorVersion, Minor: hl.MinorVersion}
	}
	header := hl.Header
	return &header, nil
}

// ReadHeader consumes exactly the header from r and validates it
func ReadHeader(r io.Reader) (*layers.Header, []byte, error) {
	raw := make([]byte, layers.HeaderSize)
	n, err := io.ReadFull(r, raw)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, ErrInvalidHeader{What: fmt.Sprintf("too short: want %d bytes, got %d", layers.HeaderSize, n)}
		}
		return nil, nil, err
	}
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, nil, err
	}
	return header, raw, nil
}
