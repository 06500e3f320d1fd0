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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Runner executes a solc standard JSON request and returns the raw output.
type Runner interface {
	Run(ctx context.Context, input []byte) ([]byte, error)
}

// SolcRunner invokes a local solc executable.
type SolcRunner struct {
	Path string // executable name or path, "solc" if empty
}

func (r *SolcRunner) path() string {
	if r.Path == "" {
		return "solc"
	}
	return r.Path
}

// Run feeds input to `solc --standard-json` on stdin. Whatever solc printed on
// stdout is returned even if it exited with an error, the JSON output carries
// the diagnostics.
func (r *SolcRunner) Run(ctx context.Context, input []byte) ([]byte, error) {
	if _, err := exec.LookPath(r.path()); err != nil {
		return nil, fmt.Errorf("solc not found: %w", err)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.path(), "--standard-json")
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("solc: %v\n%s", err, stderr.Bytes())
	}
	return stdout.Bytes(), nil
}

var versionRegexp = regexp.MustCompile(`([0-9]+)\.([0-9]+)\.([0-9]+)`)

// Version returns the semantic version reported by `solc --version`.
func (r *SolcRunner) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, r.path(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("solc: %v", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Version:") {
			if v := versionRegexp.FindString(line); v != "" {
				return v, nil
			}
		}
	}
	return "", errors.New("can't parse solc version")
}
