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
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/ethereum/go-ethereum/log"
)

// Store persists a single named artifact record. Every Write replaces the
// previous record unconditionally.
type Store interface {
	Write(ctx context.Context, a *Artifact) error
	Read(ctx context.Context) (*Artifact, error)
	Close() error
}

// MinioConfig holds the object store connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config selects and configures an artifact store backend.
type Config struct {
	Backend  string // file, memory, leveldb, pebble, sqlite, redis or minio
	Name     string // record name
	Path     string // file, database directory or sqlite file
	RedisURL string `toml:",omitempty"`
	Minio    MinioConfig
}

// DefaultConfig keeps the artifact as an indented JSON file next to the
// working directory.
var DefaultConfig = Config{
	Backend: "file",
	Name:    "artifact",
	Path:    "artifact.json",
	Minio: MinioConfig{
		Bucket: "solgen",
	},
}

const (
	dbCache   = 16 // MB of cache for the embedded key/value backends
	dbHandles = 16
)

// Open creates the store selected by cfg.
func Open(cfg Config) (Store, error) {
	name := cfg.Name
	if name == "" {
		name = DefaultConfig.Name
	}
	logger := log.New("backend", cfg.Backend, "name", name)

	switch cfg.Backend {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = DefaultConfig.Path
		}
		logger.Debug("Opening artifact file", "path", path)
		return NewFileStore(path), nil
	case "memory":
		return NewMemoryStore(name), nil
	case "leveldb":
		db, err := leveldb.New(dbPath(cfg.Path, "artifacts"), dbCache, dbHandles, "solgen/artifacts/", false)
		if err != nil {
			return nil, fmt.Errorf("open leveldb artifact store: %w", err)
		}
		logger.Debug("Opened leveldb artifact store", "path", cfg.Path)
		return NewDBStore(db, name), nil
	case "pebble":
		db, err := pebble.New(dbPath(cfg.Path, "artifacts"), dbCache, dbHandles, "solgen/artifacts/", false)
		if err != nil {
			return nil, fmt.Errorf("open pebble artifact store: %w", err)
		}
		logger.Debug("Opened pebble artifact store", "path", cfg.Path)
		return NewDBStore(db, name), nil
	case "sqlite":
		return OpenSQLStore(dbPath(cfg.Path, "artifacts.db"), name)
	case "redis":
		return NewRedisStore(cfg.RedisURL, name)
	case "minio":
		return NewObjectStore(cfg.Minio, name)
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", cfg.Backend)
	}
}

// dbPath uses fallback in the same directory when the configured path still
// points at the default artifact file.
func dbPath(path, fallback string) string {
	if path == "" {
		return fallback
	}
	if filepath.Base(path) == DefaultConfig.Path {
		return filepath.Join(filepath.Dir(path), fallback)
	}
	return filepath.Clean(path)
}
