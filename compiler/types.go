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

import "encoding/json"

// Input is the solc standard JSON input.
type Input struct {
	Language string            `json:"language"`
	Sources  map[string]Source `json:"sources"`
	Settings Settings          `json:"settings"`
}

// Source is one named compilation unit.
type Source struct {
	Content string `json:"content"`
}

// Settings carries the compiler policy of a standard JSON request.
type Settings struct {
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
	Optimizer       Optimizer                      `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
}

// Optimizer toggles the solc optimizer.
type Optimizer struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs"`
}

// outputSelection requests the ABI, both bytecodes and the metadata of every
// contract in every file.
var outputSelection = map[string]map[string][]string{
	"*": {
		"*": {"abi", "evm.bytecode", "evm.deployedBytecode", "metadata"},
	},
}

// NewInput builds a fresh standard JSON request compiling src as fileName.
func NewInput(fileName, src string, config Config) *Input {
	return &Input{
		Language: "Solidity",
		Sources: map[string]Source{
			fileName: {Content: src},
		},
		Settings: Settings{
			OutputSelection: outputSelection,
			Optimizer: Optimizer{
				Enabled: config.Optimize,
				Runs:    config.Runs,
			},
			EVMVersion: config.EVMVersion,
		},
	}
}

// Output is the solc standard JSON output.
type Output struct {
	Errors    []Diagnostic                         `json:"errors,omitempty"`
	Contracts map[string]map[string]ContractOutput `json:"contracts,omitempty"`
}

// Diagnostic is an error, warning or info entry reported by solc.
type Diagnostic struct {
	Type             string `json:"type"`
	Component        string `json:"component"`
	Severity         string `json:"severity"`
	ErrorCode        string `json:"errorCode,omitempty"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage,omitempty"`
}

// Text returns the formatted message, falling back to the bare message.
func (d Diagnostic) Text() string {
	if d.FormattedMessage != "" {
		return d.FormattedMessage
	}
	return d.Message
}

// ContractOutput is the compiled form of one contract. Only the requested
// selections are populated.
type ContractOutput struct {
	ABI      json.RawMessage `json:"abi"`
	Metadata string          `json:"metadata,omitempty"`
	EVM      EVM             `json:"evm"`
}

// EVM holds the EVM related outputs of a contract.
type EVM struct {
	Bytecode         Bytecode `json:"bytecode"`
	DeployedBytecode Bytecode `json:"deployedBytecode"`
}

// Bytecode is a hex encoded code object without 0x prefix.
type Bytecode struct {
	Object string `json:"object"`
}
