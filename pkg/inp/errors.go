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

	"jinr.ru/greenlab/go-inp/pkg/layers"
)

// ErrInvalidHeader returned when the header is too short, has a wrong
// signature or carries non ASCII identifiers
type ErrInvalidHeader = layers.ErrInvalidHeader

// ErrUnsupportedVersion returned when the header version is not one we can decode
type ErrUnsupportedVersion struct {
	Major uint8
	Minor uint8
}

func (e ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("Unsupported INP version: %d.%d", e.Major, e.Minor)
}

// ErrTruncatedStream returned when a record of the frame stream is cut short.
// Frames decoded before it stay valid.
type ErrTruncatedStream struct {
	// Frame is the 1-based index of the frame being read
	Frame int `json:"frame"`
	// Offset is the payload offset where the incomplete block starts
	Offset int64 `json:"offset"`
	Block  Block `json:"block"`
	Want   int   `json:"want"`
	Got    int   `json:"got"`
}

func (e ErrTruncatedStream) Error() string {
	return fmt.Sprintf("Truncated INP stream: frame %d %s at payload offset %d: want %d bytes, got %d",
		e.Frame, e.Block, e.Offset, e.Want, e.Got)
}
