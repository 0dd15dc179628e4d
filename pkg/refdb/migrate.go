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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// MigrateStats counts what Migrate had to change
type MigrateStats struct {
	Machines       int `json:"machines"`
	WrappedPorts   int `json:"wrapped_ports"`
	ConvertedTypes int `json:"converted_types"`
	Reordered      int `json:"reordered"`
	// Skipped machines are left out of the output
	Skipped []SkippedMachine `json:"skipped,omitempty"`
}

// SkippedMachine is an entry Migrate could not convert
type SkippedMachine struct {
	Machine string `json:"machine"`
	Reason  string `json:"reason"`
}

// Migrate rewrites a reference export of any known shape into the
// canonical one. Ports of a machine are reordered by legacy order only
// when every port of the machine carries it. Malformed entries are left
// out and listed in MigrateStats.Skipped.
func Migrate(r io.Reader, w io.Writer) (MigrateStats, error) {
	var stats MigrateStats
	db, err := Load(r)
	if err != nil {
		return stats, err
	}

	bw := bufio.NewWriter(w)
	provenance, err := json.Marshal(db.provenance)
	if err != nil {
		return stats, err
	}
	bw.Write(provenance)
	bw.WriteByte('\n')

	err = db.each(func(name string, raw []byte) error {
		machine, err := parseEntry(name, raw, &stats)
		if err != nil {
			var malformed ErrUnsupportedGame
			if !errors.As(err, &malformed) {
				return err
			}
			stats.Skipped = append(stats.Skipped, SkippedMachine{Machine: name, Reason: malformed.Reason})
			return nil
		}
		if sortByLegacyOrder(machine.Ports) {
			stats.Reordered++
		}
		entry, err := EncodeMachine(machine)
		if err != nil {
			return err
		}
		bw.WriteString(name)
		bw.WriteByte(0)
		bw.Write(entry)
		stats.Machines++
		return bw.WriteByte('\n')
	})
	if err != nil {
		return stats, err
	}
	return stats, bw.Flush()
}

// sortByLegacyOrder reports whether the order of ports changed
func sortByLegacyOrder(ports []PortRef) bool {
	if len(ports) < 2 {
		return false
	}
	for _, port := range ports {
		if port.LegacyOrder == nil {
			return false
		}
	}
	if sort.SliceIsSorted(ports, func(i, j int) bool { return *ports[i].LegacyOrder < *ports[j].LegacyOrder }) {
		return false
	}
	sort.SliceStable(ports, func(i, j int) bool { return *ports[i].LegacyOrder < *ports[j].LegacyOrder })
	return true
}

// EncodeMachine writes the canonical JSON entry of a machine keeping
// the order of ports and fields
func EncodeMachine(m *Machine) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, port := range m.Ports {
		if i > 0 {
			buf.WriteString(", ")
		}
		tag, err := json.Marshal(port.Tag)
		if err != nil {
			return nil, err
		}
		buf.Write(tag)
		buf.WriteString(`: {"fields": {`)
		for j, field := range port.Fields {
			if j > 0 {
				buf.WriteString(", ")
			}
			meta, err := json.Marshal(field.FieldMeta)
			if err != nil {
				return nil, fmt.Errorf("port %s mask %d: %w", port.Tag, field.Mask, err)
			}
			buf.WriteString(strconv.Quote(strconv.FormatUint(uint64(field.Mask), 10)))
			buf.WriteString(": ")
			buf.Write(meta)
		}
		buf.WriteByte('}')
		if port.LegacyOrder != nil {
			fmt.Fprintf(&buf, `, "legacy_order": %d`, *port.LegacyOrder)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
