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
	"fmt"
)

// ErrInvalidHeader returned when the INP header is too short, has a wrong
// signature or carries non ASCII identifiers
type ErrInvalidHeader struct {
	What string
}

func (e ErrInvalidHeader) Error() string {
	return fmt.Sprintf("Invalid INP header: %s", e.What)
}

// ErrShortRecord returned when a record is decoded from less bytes than its layout needs
type ErrShortRecord struct {
	Record string
	Want   int
	Got    int
}

func (e ErrShortRecord) Error() string {
	return fmt.Sprintf("INP %s record too short: want %d bytes, got %d", e.Record, e.Want, e.Got)
}
