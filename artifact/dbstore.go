// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package artifact

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

// artifactPrefix + name -> artifact record
var artifactPrefix = []byte("solgen-artifact-")

func artifactKey(name string) []byte {
	return append(append([]byte{}, artifactPrefix...), name...)
}

// DBStore keeps the artifact record in a key/value database.
type DBStore struct {
	db  ethdb.KeyValueStore
	key []byte
}

// NewDBStore creates a store writing the record called name into db. The store
// takes ownership of db.
func NewDBStore(db ethdb.KeyValueStore, name string) *DBStore {
	return &DBStore{db: db, key: artifactKey(name)}
}

// NewMemoryStore creates a store held in memory only.
func NewMemoryStore(name string) *DBStore {
	return NewDBStore(memorydb.New(), name)
}

func (s *DBStore) Write(ctx context.Context, a *Artifact) error {
	data, err := encode(a, false)
	if err != nil {
		return err
	}
	return s.db.Put(s.key, data)
}

func (s *DBStore) Read(ctx context.Context) (*Artifact, error) {
	ok, err := s.db.Has(s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.key[len(artifactPrefix):])
	}
	data, err := s.db.Get(s.key)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Stat returns the statistics reported by the underlying database.
func (s *DBStore) Stat() (string, error) {
	if st, ok := s.db.(interface{ Stat() (string, error) }); ok {
		return st.Stat()
	}
	return "", errors.New("database statistics not supported")
}

func (s *DBStore) Close() error {
	return s.db.Close()
}
