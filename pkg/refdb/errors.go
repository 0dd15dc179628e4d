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

package refdb

import (
	"fmt"
)

// ErrUnsupportedGame returned when a machine is not in the reference data or
// its entry is malformed, in both cases there is nothing to decode with
type ErrUnsupportedGame struct {
	Machine string
	// Reason is empty when the machine is simply absent
	Reason string
}

func (e ErrUnsupportedGame) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("Unsupported game: '%s'", e.Machine)
	}
	return fmt.Sprintf("Unsupported game: '%s': %s", e.Machine, e.Reason)
}

// ErrMalformedDatabase returned when the reference export itself can not be read
type ErrMalformedDatabase struct {
	Line int
	What string
}

func (e ErrMalformedDatabase) Error() string {
	return fmt.Sprintf("Malformed reference database at line %d: %s", e.Line, e.What)
}
