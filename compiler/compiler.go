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

// Package compiler wraps the Solidity compiler executable (solc).
// 它封装 solc 的标准 JSON 接口，把编译结果转换为可部署的 artifact。
package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	// ErrCompilerInvocation is returned when solc produced no usable output.
	ErrCompilerInvocation = errors.New("compiler invocation failed")

	// ErrCompilation is returned when solc reported error diagnostics.
	ErrCompilation = errors.New("compilation failed")

	// ErrContractNotFound is returned when the requested file or contract is
	// missing from the compiler output.
	ErrContractNotFound = errors.New("contract not found")
)

var (
	compileTimer    = metrics.NewRegisteredTimer("solgen/compile/time", nil)
	compileFailures = metrics.NewRegisteredMeter("solgen/compile/failures", nil)
	compileWarnings = metrics.NewRegisteredMeter("solgen/compile/warnings", nil)
)

// CompilationError aggregates every error diagnostic of one compilation.
type CompilationError struct {
	Diagnostics []Diagnostic
}

func (e *CompilationError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Text()
	}
	return "compilation errors:\n" + strings.Join(msgs, "\n")
}

func (e *CompilationError) Unwrap() error { return ErrCompilation }

// Levels at which a contract lookup can fail.
const (
	LevelFile     = "file"
	LevelContract = "contract"
)

// ContractNotFoundError reports a failed lookup together with what the
// compiler did produce at that level.
type ContractNotFoundError struct {
	Level     string
	Want      string
	Available []string
}

func (e *ContractNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in compilation output, available %ss: [%s]",
		e.Level, e.Want, e.Level, strings.Join(e.Available, ", "))
}

func (e *ContractNotFoundError) Unwrap() error { return ErrContractNotFound }

// Config is the compilation policy. The optimizer settings and the EVM version
// are never derived from the input.
type Config struct {
	Solc        string // solc executable
	DockerImage string `toml:",omitempty"` // run solc in this image instead
	Optimize    bool
	Runs        int
	EVMVersion  string
}

// Defaults contains the default compilation policy.
var Defaults = Config{
	Solc:       "solc",
	Optimize:   true,
	Runs:       200,
	EVMVersion: "london",
}

// NewRunner creates the runner selected by config.
func NewRunner(config Config) (Runner, error) {
	if config.DockerImage != "" {
		return NewDockerRunner(config.DockerImage)
	}
	return &SolcRunner{Path: config.Solc}, nil
}

// Result is a successful compilation.
type Result struct {
	Artifact *artifact.Artifact
	Warnings []Diagnostic
}

// Compiler turns cleaned Solidity source into an artifact.
type Compiler struct {
	runner Runner
	config Config
}

// New creates a compiler executing requests through runner.
func New(runner Runner, config Config) *Compiler {
	return &Compiler{runner: runner, config: config}
}

// FileName is the synthetic source unit name used for contract name.
func FileName(name string) string {
	return name + ".sol"
}

// Compile compiles src and extracts the contract called name.
func (c *Compiler) Compile(ctx context.Context, src, name string) (*Result, error) {
	defer func(start time.Time) { compileTimer.UpdateSince(start) }(time.Now())

	res, err := c.compile(ctx, src, name)
	if err != nil {
		compileFailures.Mark(1)
	}
	return res, err
}

func (c *Compiler) compile(ctx context.Context, src, name string) (*Result, error) {
	var (
		fileName = FileName(name)
		logger   = log.New("contract", name)
	)
	input, err := json.Marshal(NewInput(fileName, src, c.config))
	if err != nil {
		return nil, err
	}
	logger.Debug("Invoking solc", "file", fileName, "optimize", c.config.Optimize, "runs", c.config.Runs, "evm", c.config.EVMVersion)

	raw, runErr := c.runner.Run(ctx, input)
	if len(bytes.TrimSpace(raw)) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompilerInvocation, runErr)
		}
		return nil, fmt.Errorf("%w: solidity compiler returned no output", ErrCompilerInvocation)
	}
	var output Output
	if err := json.Unmarshal(raw, &output); err != nil {
		return nil, fmt.Errorf("%w: unparsable compiler output: %v", ErrCompilerInvocation, err)
	}
	if runErr != nil {
		logger.Debug("Solc exited with error, using its output", "err", runErr)
	}

	var errs, warnings []Diagnostic
	for _, d := range output.Errors {
		switch d.Severity {
		case "error":
			errs = append(errs, d)
		case "warning":
			warnings = append(warnings, d)
		}
	}
	if len(errs) > 0 {
		logger.Error("Compilation failed", "errors", len(errs))
		return nil, &CompilationError{Diagnostics: errs}
	}
	if len(warnings) > 0 {
		compileWarnings.Mark(int64(len(warnings)))
		for _, w := range warnings {
			logger.Warn("Compiler warning", "type", w.Type, "msg", w.Message)
		}
	}

	contracts, ok := output.Contracts[fileName]
	if !ok {
		return nil, &ContractNotFoundError{Level: LevelFile, Want: fileName, Available: sortedKeys(output.Contracts)}
	}
	contract, ok := contracts[name]
	if !ok {
		return nil, &ContractNotFoundError{Level: LevelContract, Want: name, Available: sortedKeys(contracts)}
	}
	art, err := artifact.New(contract.ABI, contract.EVM.Bytecode.Object)
	if err != nil {
		return nil, fmt.Errorf("contract %s: %w", name, err)
	}
	logger.Info("Compiled contract", "abi", art.Entries(), "bytecode", len(art.Bytecode), "warnings", len(warnings))
	return &Result{Artifact: art, Warnings: warnings}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
