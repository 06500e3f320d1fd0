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

package compiler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/ethereum/go-ethereum/log"
	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/client"
)

// DefaultDockerImage is the solc image used when none is configured.
const DefaultDockerImage = "ethereum/solc:0.8.28"

// DockerRunner runs solc inside a container, for hosts without a local
// compiler. The request is mounted read-only into the container.
type DockerRunner struct {
	client *client.Client
	image  string
}

// NewDockerRunner connects to the docker daemon configured in the environment.
func NewDockerRunner(image string) (*DockerRunner, error) {
	if image == "" {
		image = DefaultDockerImage
	}
	cli, err := client.New(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerRunner{client: cli, image: image}, nil
}

// Close releases the docker client.
func (r *DockerRunner) Close() error {
	return r.client.Close()
}

func (r *DockerRunner) Run(ctx context.Context, input []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "solgen-solc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "input.json"), input, 0o644); err != nil {
		return nil, err
	}
	// A TTY keeps the log stream unmultiplexed, the output is plain JSON.
	created, err := r.client.ContainerCreate(ctx, client.ContainerCreateOptions{
		Image: r.image,
		Config: &container.Config{
			Cmd:          []string{"--standard-json", "/work/input.json"},
			Tty:          true,
			AttachStdout: true,
			AttachStderr: true,
		},
		HostConfig: &container.HostConfig{
			Binds: []string{dir + ":/work:ro"},
		},
	})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil, fmt.Errorf("solc image %s is not available, pull it first: %w", r.image, err)
		}
		return nil, fmt.Errorf("failed to create solc container: %w", err)
	}
	defer func() {
		_, err := r.client.ContainerRemove(context.Background(), created.ID, client.ContainerRemoveOptions{Force: true})
		if err != nil {
			log.Warn("Failed to remove solc container", "id", created.ID, "err", err)
		}
	}()

	if _, err := r.client.ContainerStart(ctx, created.ID, client.ContainerStartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start solc container: %w", err)
	}
	logs, err := r.client.ContainerLogs(ctx, created.ID, client.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read solc output: %w", err)
	}
	defer logs.Close()

	return io.ReadAll(logs)
}
