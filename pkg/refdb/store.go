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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

const (
	MetaBucketName     = "meta"
	MachinesBucketName = "machines"
	buildKey           = "build"
	configKey          = "config"
	openTimeout        = time.Second
)

// Store is reference data indexed in a bbolt file, so a lookup does not
// need to read the whole export. Build it with Import.
type Store struct {
	DB         *bbolt.DB
	provenance Provenance
}

var _ Source = &Store{}

// OpenStore opens (or creates unless readOnly) a reference store
func OpenStore(path string, readOnly bool) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: readOnly, Timeout: openTimeout})
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if !readOnly {
		if err = db.Update(func(tx *bbolt.Tx) error {
			for _, name := range []string{MetaBucketName, MachinesBucketName} {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err = s.loadProvenance(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) loadProvenance() error {
	return s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(MetaBucketName))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", MetaBucketName))
		}
		s.provenance = Provenance{
			Build:  string(b.Get([]byte(buildKey))),
			Config: string(b.Get([]byte(configKey))),
		}
		return nil
	})
}

// Import replaces the content of the store with db in one transaction
func (s *Store) Import(db *Database) (int, error) {
	count := 0
	err := s.DB.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(MachinesBucketName)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		machines, err := tx.CreateBucket([]byte(MachinesBucketName))
		if err != nil {
			return err
		}
		meta := tx.Bucket([]byte(MetaBucketName))
		if err := meta.Put([]byte(buildKey), []byte(db.provenance.Build)); err != nil {
			return err
		}
		if err := meta.Put([]byte(configKey), []byte(db.provenance.Config)); err != nil {
			return err
		}
		return db.each(func(name string, raw []byte) error {
			count++
			return machines.Put([]byte(name), raw)
		})
	})
	if err != nil {
		return 0, err
	}
	s.provenance = db.provenance
	return count, nil
}

func (s *Store) Provenance() Provenance {
	return s.provenance
}

func (s *Store) Lookup(name string) (*Machine, error) {
	var machine *Machine
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(MachinesBucketName))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", MachinesBucketName))
		}
		raw := b.Get([]byte(name))
		if raw == nil {
			return ErrUnsupportedGame{Machine: name}
		}
		// raw is only valid inside the transaction
		var err error
		machine, err = parseMachine(name, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}

// Machines returns machine names in key order
func (s *Store) Machines() ([]string, error) {
	var names []string
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(MachinesBucketName))
		if b == nil {
			return errors.New(fmt.Sprintf("Bucket not found: %s", MachinesBucketName))
		}
		return b.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// IsStorePath tells if path names a bbolt store rather than a text export
func IsStorePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".bolt":
		return true
	}
	return false
}

// OpenSource opens reference data from a store or from a text export
func OpenSource(path string) (Source, error) {
	if IsStorePath(path) {
		return OpenStore(path, true)
	}
	return LoadFile(path)
}
