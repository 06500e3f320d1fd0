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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Read(ctx)
	require.ErrorIs(t, err, ErrArtifactNotFound)

	first, err := New([]byte(demoABI), demoBytecode)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, first))

	have, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(first.ABI), []byte(have.ABI))
	require.Equal(t, first.Bytecode, have.Bytecode)

	// A second write replaces the record.
	second, err := New([]byte(`[{"type":"fallback","stateMutability":"payable"}]`), "00")
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, second))

	have, err = store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, second, have)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "artifact.json")
	store := NewFileStore(path)
	defer store.Close()

	testStore(t, store)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"bytecode\": \"00\"")
}

func TestFileStoreConcurrentWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.json")
	store := NewFileStore(path)
	defer store.Close()

	// A large bytecode keeps each write in flight long enough to overlap.
	want, err := New([]byte(demoABI), strings.Repeat("60", 1<<20))
	require.NoError(t, err)
	require.NoError(t, store.Write(context.Background(), want))

	var (
		wg   sync.WaitGroup
		errc = make(chan error, 32*10*2)
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				errc <- store.Write(context.Background(), want)
				if _, err := store.Read(context.Background()); err != nil {
					errc <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	have, err := store.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, have)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		require.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "stray temporary file %s", entry.Name())
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"abi": [], "bytecode": "00"}`), 0o644))

	store := NewFileStore(path)
	defer store.Close()

	_, err := store.Read(context.Background())
	require.ErrorIs(t, err, ErrArtifactCorrupt)

	require.NoError(t, os.WriteFile(path, []byte(`{"abi": [`), 0o644))
	_, err = store.Read(context.Background())
	require.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore("demo"))
}

func TestDBStoreCorrupt(t *testing.T) {
	db := memorydb.New()
	require.NoError(t, db.Put(artifactKey("demo"), []byte("not json")))

	_, err := NewDBStore(db, "demo").Read(context.Background())
	require.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestDBStoreNamesAreIsolated(t *testing.T) {
	db := memorydb.New()
	a, b := NewDBStore(db, "a"), NewDBStore(db, "b")

	art, err := New([]byte(demoABI), demoBytecode)
	require.NoError(t, err)
	require.NoError(t, a.Write(context.Background(), art))

	_, err = b.Read(context.Background())
	require.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestLevelDBStore(t *testing.T) {
	db, err := leveldb.New(t.TempDir(), 16, 16, "", false)
	require.NoError(t, err)

	store := NewDBStore(db, "demo")
	defer store.Close()
	testStore(t, store)
}

func TestPebbleStore(t *testing.T) {
	db, err := pebble.New(t.TempDir(), 16, 16, "", false)
	require.NoError(t, err)

	store := NewDBStore(db, "demo")
	defer store.Close()
	testStore(t, store)
}

func TestSQLStore(t *testing.T) {
	store, err := OpenSQLStore(filepath.Join(t.TempDir(), "artifacts.db"), "demo")
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)

	_, err = store.db.Exec(`UPDATE artifacts SET record = '{"abi":null}' WHERE name = 'demo'`)
	require.NoError(t, err)
	_, err = store.Read(context.Background())
	require.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("SOLGEN_TEST_REDIS")
	if url == "" {
		t.Skip("SOLGEN_TEST_REDIS not set")
	}
	store, err := NewRedisStore(url, "test-"+filepath.Base(t.TempDir()))
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{"file", "memory", "leveldb", "pebble", "sqlite"} {
		cfg := DefaultConfig
		cfg.Backend = backend
		cfg.Path = filepath.Join(dir, backend)

		store, err := Open(cfg)
		require.NoError(t, err, backend)
		testStore(t, store)
		require.NoError(t, store.Close(), backend)
	}
	_, err := Open(Config{Backend: "floppy"})
	require.Error(t, err)
}
