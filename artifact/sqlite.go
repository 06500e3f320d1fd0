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
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqlSchema = `CREATE TABLE IF NOT EXISTS artifacts (
	name   TEXT PRIMARY KEY,
	record TEXT NOT NULL
)`

// SQLStore keeps the artifact record in a row of an SQLite table.
type SQLStore struct {
	db   *sql.DB
	name string
}

// OpenSQLStore opens (or creates) the SQLite database at dsn, e.g. a file
// path or ":memory:".
func OpenSQLStore(dsn, name string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return &SQLStore{db: db, name: name}, nil
}

func (s *SQLStore) Write(ctx context.Context, a *Artifact) error {
	data, err := encode(a, false)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO artifacts (name, record) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET record = excluded.record`,
		s.name, string(data))
	return err
}

func (s *SQLStore) Read(ctx context.Context) (*Artifact, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM artifacts WHERE name = ?`, s.name).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.name)
	}
	if err != nil {
		return nil, err
	}
	return decode([]byte(record))
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
