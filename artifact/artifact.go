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

// Package artifact defines the compiled contract handed from the compiler to
// the deployer, and the stores that persist it between the two steps.
package artifact

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrIncompleteArtifact is returned when a compiled contract lacks either
	// its ABI or its creation bytecode.
	ErrIncompleteArtifact = errors.New("incomplete artifact")

	// ErrArtifactNotFound is returned by a store holding no record.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArtifactCorrupt is returned by a store whose record cannot be decoded
	// back into a valid artifact.
	ErrArtifactCorrupt = errors.New("artifact corrupt")
)

// Artifact is the ABI and creation bytecode of one compiled contract.
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`      // compacted JSON array of ABI entries
	Bytecode string          `json:"bytecode"` // hex without 0x prefix
}

// New validates abi and bytecode and assembles an artifact. The ABI is stored
// compacted and the bytecode without its 0x prefix so that every store round
// trips to the same bytes.
func New(abiJSON []byte, bytecode string) (*Artifact, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(abiJSON, &entries); err != nil {
		return nil, fmt.Errorf("%w: abi is not a JSON array: %v", ErrIncompleteArtifact, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: abi has no entries", ErrIncompleteArtifact)
	}
	compact := new(bytes.Buffer)
	if err := json.Compact(compact, abiJSON); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteArtifact, err)
	}
	bytecode = strings.TrimPrefix(strings.TrimPrefix(bytecode, "0x"), "0X")
	if bytecode == "" {
		return nil, fmt.Errorf("%w: bytecode is empty", ErrIncompleteArtifact)
	}
	if _, err := hex.DecodeString(bytecode); err != nil {
		if strings.Contains(bytecode, "__") {
			return nil, fmt.Errorf("%w: bytecode has unlinked library references", ErrIncompleteArtifact)
		}
		return nil, fmt.Errorf("%w: bytecode is not valid hex: %v", ErrIncompleteArtifact, err)
	}
	return &Artifact{ABI: compact.Bytes(), Bytecode: bytecode}, nil
}

// Code returns the creation bytecode.
func (a *Artifact) Code() []byte {
	code, _ := hex.DecodeString(a.Bytecode)
	return code
}

// HexCode returns the creation bytecode with a 0x prefix.
func (a *Artifact) HexCode() string {
	return hexutil.Encode(a.Code())
}

// Parse decodes the ABI.
func (a *Artifact) Parse() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(a.ABI))
}

// Entries returns the number of ABI entries.
func (a *Artifact) Entries() int {
	var entries []json.RawMessage
	if err := json.Unmarshal(a.ABI, &entries); err != nil {
		return 0
	}
	return len(entries)
}

// decode turns a stored record back into a validated artifact.
func decode(data []byte) (*Artifact, error) {
	var record Artifact
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	a, err := New(record.ABI, record.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	return a, nil
}

// encode produces the stored record form of a.
func encode(a *Artifact, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(a, "", "  ")
	}
	return json.Marshal(a)
}
