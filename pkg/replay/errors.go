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
	"fmt"
)

// ErrInvalidPortRequest returned when a requested port index is not
// below the port count of the machine
type ErrInvalidPortRequest struct {
	Port      int
	PortCount int
}

func (e ErrInvalidPortRequest) Error() string {
	return fmt.Sprintf("Invalid port request: port %d, machine has %d ports (0..%d)", e.Port, e.PortCount, e.PortCount-1)
}
