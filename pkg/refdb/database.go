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
	"os"
)

// Database is reference data loaded from the newline delimited export:
// a provenance object on the first line, then one `<machine>\x00<json>`
// line per machine. Entries are kept raw and parsed on lookup.
type Database struct {
	provenance Provenance
	entries    map[string][]byte
	names      []string
}

var _ Source = &Database{}

// Load reads a reference export, plain or compressed
func Load(r io.Reader) (*Database, error) {
	plain, err := NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open reference database: %w", err)
	}
	defer plain.Close()

	db := &Database{entries: make(map[string][]byte)}
	br := bufio.NewReader(plain)
	lineNum := 0
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("could not read reference database: %w", readErr)
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			lineNum++
			if err := db.addLine(lineNum, line); err != nil {
				return nil, err
			}
		}
		if readErr != nil {
			break
		}
	}
	if lineNum == 0 {
		return nil, ErrMalformedDatabase{Line: 0, What: "empty reference database"}
	}
	return db, nil
}

func (db *Database) addLine(lineNum int, line []byte) error {
	if lineNum == 1 {
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&db.provenance); err != nil {
			return ErrMalformedDatabase{Line: lineNum, What: fmt.Sprintf("provenance: %s", err)}
		}
		return nil
	}

	sep := bytes.IndexByte(line, 0)
	if sep <= 0 {
		return ErrMalformedDatabase{Line: lineNum, What: "expected <machine>\\x00<json>"}
	}
	name := string(line[:sep])
	if _, ok := db.entries[name]; !ok {
		db.names = append(db.names, name)
	}
	db.entries[name] = append([]byte(nil), line[sep+1:]...)
	return nil
}

// LoadFile ...
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func (db *Database) Provenance() Provenance {
	return db.provenance
}

func (db *Database) Lookup(name string) (*Machine, error) {
	raw, ok := db.entries[name]
	if !ok {
		return nil, ErrUnsupportedGame{Machine: name}
	}
	return parseMachine(name, raw)
}

// Machines returns machine names in the order of the export
func (db *Database) Machines() ([]string, error) {
	return append([]string(nil), db.names...), nil
}

func (db *Database) Len() int {
	return len(db.names)
}

func (db *Database) Close() error {
	return nil
}

// each calls fn with the raw entry of every machine in export order
func (db *Database) each(fn func(name string, raw []byte) error) error {
	for _, name := range db.names {
		if err := fn(name, db.entries[name]); err != nil {
			return err
		}
	}
	return nil
}
