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

// FieldMeta describes one input field of a port
type FieldMeta struct {
	Analog       bool    `json:"analog" yaml:"analog"`
	Type         string  `json:"type" yaml:"type"`
	DefValue     int     `json:"defvalue" yaml:"defvalue"`
	SpecificName *string `json:"specific_name" yaml:"specific_name"`
	Player       *int    `json:"player" yaml:"player"`
}

// Field is an input field together with its mask inside the port
type Field struct {
	Mask uint32
	FieldMeta
}

// PortRef is one input port of a machine. Fields keep the order of the
// reference export, not the numeric order of masks.
type PortRef struct {
	Tag    string
	Fields []Field
	// LegacyOrder is only informational, ports are always used in the order they are listed
	LegacyOrder *int
}

// Machine is the reference entry of one machine. The order of Ports
// defines the layout of every frame record and the port indices callers use.
type Machine struct {
	Name  string
	Ports []PortRef
}

func (m *Machine) PortCount() int {
	return len(m.Ports)
}

// AnalogFieldCount is the number of analog records in every frame record
func (m *Machine) AnalogFieldCount() int {
	count := 0
	for _, port := range m.Ports {
		for _, field := range port.Fields {
			if field.Analog {
				count++
			}
		}
	}
	return count
}

// Provenance is the first line of the reference export
type Provenance struct {
	Build  string `json:"mame_build" yaml:"mame_build"`
	Config string `json:"mame_config" yaml:"mame_config"`
}

// Source is read-only reference data. Implementations are safe for concurrent use.
type Source interface {
	Provenance() Provenance
	// Lookup returns ErrUnsupportedGame if there is no usable entry for name
	Lookup(name string) (*Machine, error)
	Machines() ([]string, error)
	Close() error
}
