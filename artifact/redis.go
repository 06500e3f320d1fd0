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

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the artifact record under a single redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the redis server at url, e.g.
// redis://localhost:6379/0.
func NewRedisStore(url, name string) (*RedisStore, error) {
	if url == "" {
		return nil, errors.New("redis artifact store requires a url")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opts), name), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, name string) *RedisStore {
	return &RedisStore{client: client, key: string(artifactKey(name))}
}

func (s *RedisStore) Write(ctx context.Context, a *Artifact) error {
	data, err := encode(a, false)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisStore) Read(ctx context.Context) (*Artifact, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, s.key)
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
