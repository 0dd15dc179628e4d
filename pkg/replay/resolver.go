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
	"jinr.ru/greenlab/go-inp/pkg/layers"
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

// ValidatePorts checks requested port indices against the port count.
// An empty request means every port in reference order. Repeated
// indices are dropped, the first occurrence keeps its place.
func ValidatePorts(requested []int, portCount int) ([]int, error) {
	if len(requested) == 0 {
		ports := make([]int, portCount)
		for i := range ports {
			ports[i] = i
		}
		return ports, nil
	}
	ports := make([]int, 0, len(requested))
	seen := make(map[int]bool, len(requested))
	for _, port := range requested {
		if port < 0 || port >= portCount {
			return nil, ErrInvalidPortRequest{Port: port, PortCount: portCount}
		}
		if seen[port] {
			continue
		}
		seen[port] = true
		ports = append(ports, port)
	}
	return ports, nil
}

// ActiveControls lists the digital controls of a port held in digital.
// A field counts only when all bits of its mask are set.
func ActiveControls(digital uint32, port refdb.PortRef) []string {
	active := []string{}
	for _, field := range port.Fields {
		if field.Analog {
			continue
		}
		if digital&field.Mask == field.Mask {
			active = append(active, field.Type)
		}
	}
	return active
}

// Resolve maps every requested port to the controls active in this frame.
// Ports are expected to be validated already.
func Resolve(digital []layers.DigitalPortState, ports []refdb.PortRef, requested []int) map[int][]string {
	resolved := make(map[int][]string, len(requested))
	for _, index := range requested {
		if index < 0 || index >= len(digital) || index >= len(ports) {
			resolved[index] = []string{}
			continue
		}
		resolved[index] = ActiveControls(digital[index].Digital, ports[index])
	}
	return resolved
}
