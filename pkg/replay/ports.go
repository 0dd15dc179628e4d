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
	"jinr.ru/greenlab/go-inp/pkg/refdb"
)

// FieldDescription is a field of a port as shown to users
type FieldDescription struct {
	Mask uint32 `json:"mask"`
	refdb.FieldMeta
}

// PortDescription is a port of a machine as shown to users. Index is the
// value to pass in Options.Ports.
type PortDescription struct {
	Index       int                `json:"index"`
	Tag         string             `json:"tag"`
	LegacyOrder *int               `json:"legacy_order,omitempty"`
	Fields      []FieldDescription `json:"fields"`
}

type PortList []PortDescription

// ListPorts describes the ports of machine in frame layout order
func ListPorts(src refdb.Source, machine string) (PortList, error) {
	m, err := src.Lookup(machine)
	if err != nil {
		return nil, err
	}
	ports := make(PortList, 0, len(m.Ports))
	for i, port := range m.Ports {
		desc := PortDescription{
			Index:       i,
			Tag:         port.Tag,
			LegacyOrder: port.LegacyOrder,
			Fields:      make([]FieldDescription, 0, len(port.Fields)),
		}
		for _, field := range port.Fields {
			desc.Fields = append(desc.Fields, FieldDescription{Mask: field.Mask, FieldMeta: field.FieldMeta})
		}
		ports = append(ports, desc)
	}
	return ports, nil
}
