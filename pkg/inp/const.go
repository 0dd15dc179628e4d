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
	"fmt"
)

const (
	SupportedMajorVersion = 3
	// DefaultSkipBytes is the size of the preamble in front of the frame stream
	DefaultSkipBytes = 0
	// DecompressedSuffix is appended to the input path by Decompress
	DecompressedSuffix = ".decompressed"
)

// SupportedMinorVersions are the protocol revisions the decoder understands
var SupportedMinorVersions = []uint8{0, 5}

// Block is a state of the frame stream decoder, named after the block it reads
type Block uint8

const (
	BlockFrameMeta Block = iota
	BlockDigital
	BlockAnalog
	BlockPreamble
)

func (b Block) String() string {
	switch b {
	case BlockFrameMeta:
		return "frame meta"
	case BlockDigital:
		return "digital block"
	case BlockAnalog:
		return "analog block"
	case BlockPreamble:
		return "preamble"
	default:
		return "unknown block"
	}
}

func (b Block) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Block) UnmarshalText(text []byte) error {
	for _, candidate := range []Block{BlockFrameMeta, BlockDigital, BlockAnalog, BlockPreamble} {
		if candidate.String() == string(text) {
			*b = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown block %q", text)
}
