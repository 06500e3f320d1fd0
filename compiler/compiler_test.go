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
	"encoding/json"
	"errors"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
)

const (
	testABI      = `[{"inputs":[{"internalType":"uint256","name":"x","type":"uint256"}],"stateMutability":"nonpayable","type":"constructor"}]`
	testBytecode = "6080604052348015600e575f80fd5b50603e80601a5f395ff3fe"
)

// fakeRunner replays a canned response and remembers the last request.
type fakeRunner struct {
	output []byte
	err    error
	input  []byte
	calls  int
}

func (r *fakeRunner) Run(ctx context.Context, input []byte) ([]byte, error) {
	r.calls++
	r.input = input
	return r.output, r.err
}

func mustOutput(t *testing.T, out *Output) []byte {
	t.Helper()
	blob, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	return blob
}

func demoOutput(diags ...Diagnostic) *Output {
	return &Output{
		Errors: diags,
		Contracts: map[string]map[string]ContractOutput{
			"Demo.sol": {
				"Demo": {
					ABI: json.RawMessage(testABI),
					EVM: EVM{Bytecode: Bytecode{Object: testBytecode}},
				},
				"Helper": {
					ABI: json.RawMessage(`[]`),
					EVM: EVM{Bytecode: Bytecode{Object: "00"}},
				},
			},
		},
	}
}

func TestCompile(t *testing.T) {
	warning := Diagnostic{Type: "Warning", Severity: "warning", Message: "unused variable"}
	runner := &fakeRunner{output: mustOutput(t, demoOutput(warning))}

	res, err := New(runner, Defaults).Compile(context.Background(), "contract Demo {}", "Demo")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if res.Artifact.Bytecode != testBytecode {
		t.Errorf("bytecode mismatch: have %s, want %s", res.Artifact.Bytecode, testBytecode)
	}
	if string(res.Artifact.ABI) != testABI {
		t.Errorf("abi mismatch: have %s", res.Artifact.ABI)
	}
	if !reflect.DeepEqual(res.Warnings, []Diagnostic{warning}) {
		t.Errorf("warnings mismatch: have %v", res.Warnings)
	}

	// The request must carry the fixed policy regardless of the source.
	var input Input
	if err := json.Unmarshal(runner.input, &input); err != nil {
		t.Fatalf("runner received invalid json: %v", err)
	}
	if input.Language != "Solidity" {
		t.Errorf("language: have %q", input.Language)
	}
	if src, ok := input.Sources["Demo.sol"]; !ok || src.Content != "contract Demo {}" {
		t.Errorf("source unit mismatch: %v", input.Sources)
	}
	if !input.Settings.Optimizer.Enabled || input.Settings.Optimizer.Runs != 200 {
		t.Errorf("optimizer mismatch: %+v", input.Settings.Optimizer)
	}
	if input.Settings.EVMVersion != "london" {
		t.Errorf("evm version: have %q", input.Settings.EVMVersion)
	}
	want := []string{"abi", "evm.bytecode", "evm.deployedBytecode", "metadata"}
	if have := input.Settings.OutputSelection["*"]["*"]; !reflect.DeepEqual(have, want) {
		t.Errorf("output selection: have %v, want %v", have, want)
	}
}

func TestCompileErrors(t *testing.T) {
	diags := []Diagnostic{
		{Type: "ParserError", Severity: "error", Message: "expected ';'", FormattedMessage: "ParserError: expected ';'\n --> Demo.sol:3:1"},
		{Type: "Warning", Severity: "warning", Message: "shadowing"},
		{Type: "TypeError", Severity: "error", Message: "undeclared identifier"},
	}
	runner := &fakeRunner{output: mustOutput(t, &Output{Errors: diags})}

	_, err := New(runner, Defaults).Compile(context.Background(), "contract Demo {", "Demo")
	if !errors.Is(err, ErrCompilation) {
		t.Fatalf("expected compilation error, got %v", err)
	}
	var cerr *CompilationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CompilationError, got %T", err)
	}
	if len(cerr.Diagnostics) != 2 {
		t.Errorf("expected 2 error diagnostics, got %d", len(cerr.Diagnostics))
	}
	msg := err.Error()
	if !strings.Contains(msg, "ParserError: expected ';'\n --> Demo.sol:3:1\nundeclared identifier") {
		t.Errorf("messages not joined in order: %q", msg)
	}
	if strings.Contains(msg, "shadowing") {
		t.Errorf("warning leaked into error: %q", msg)
	}
}

func TestCompileInvocation(t *testing.T) {
	tests := []struct {
		name   string
		runner *fakeRunner
	}{
		{"empty", &fakeRunner{}},
		{"whitespace", &fakeRunner{output: []byte("  \n")}},
		{"garbage", &fakeRunner{output: []byte("Segmentation fault")}},
		{"runner failure", &fakeRunner{err: errors.New("exec: \"solc\": executable file not found")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.runner, Defaults).Compile(context.Background(), "contract Demo {}", "Demo")
			if !errors.Is(err, ErrCompilerInvocation) {
				t.Fatalf("expected invocation error, got %v", err)
			}
		})
	}
}

func TestCompileRunnerErrorWithOutput(t *testing.T) {
	// solc exits non-zero on compilation errors but still prints the json.
	runner := &fakeRunner{
		output: mustOutput(t, &Output{Errors: []Diagnostic{{Severity: "error", Message: "boom"}}}),
		err:    errors.New("exit status 1"),
	}
	_, err := New(runner, Defaults).Compile(context.Background(), "contract Demo {}", "Demo")
	if !errors.Is(err, ErrCompilation) {
		t.Fatalf("expected compilation error, got %v", err)
	}
}

func TestCompileNotFound(t *testing.T) {
	runner := &fakeRunner{output: mustOutput(t, demoOutput())}
	c := New(runner, Defaults)

	_, err := c.Compile(context.Background(), "contract Other {}", "Other")
	var nerr *ContractNotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *ContractNotFoundError, got %v", err)
	}
	if nerr.Level != LevelFile || nerr.Want != "Other.sol" {
		t.Errorf("unexpected lookup failure: %+v", nerr)
	}
	if !reflect.DeepEqual(nerr.Available, []string{"Demo.sol"}) {
		t.Errorf("available files: have %v", nerr.Available)
	}

	// Same file, different contract.
	out := demoOutput()
	out.Contracts["Missing.sol"] = out.Contracts["Demo.sol"]
	runner.output = mustOutput(t, out)
	_, err = c.Compile(context.Background(), "contract Missing {}", "Missing")
	if !errors.As(err, &nerr) {
		t.Fatalf("expected *ContractNotFoundError, got %v", err)
	}
	if nerr.Level != LevelContract || nerr.Want != "Missing" {
		t.Errorf("unexpected lookup failure: %+v", nerr)
	}
	if !reflect.DeepEqual(nerr.Available, []string{"Demo", "Helper"}) {
		t.Errorf("available contracts not sorted: %v", nerr.Available)
	}
	if !errors.Is(err, ErrContractNotFound) {
		t.Error("lookup failure does not unwrap to ErrContractNotFound")
	}
}

func TestCompileIncomplete(t *testing.T) {
	tests := []struct {
		name     string
		abi      string
		bytecode string
	}{
		{"no abi", "", testBytecode},
		{"no bytecode", testABI, ""},
		{"unlinked library", testABI, "6080__$1234567890abcdef1234567890abcdef12$__6080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contract := ContractOutput{EVM: EVM{Bytecode: Bytecode{Object: tt.bytecode}}}
			if tt.abi != "" {
				contract.ABI = json.RawMessage(tt.abi)
			}
			out := &Output{Contracts: map[string]map[string]ContractOutput{
				"Demo.sol": {"Demo": contract},
			}}
			runner := &fakeRunner{output: mustOutput(t, out)}
			_, err := New(runner, Defaults).Compile(context.Background(), "contract Demo {}", "Demo")
			if !errors.Is(err, artifact.ErrIncompleteArtifact) {
				t.Fatalf("expected incomplete artifact, got %v", err)
			}
		})
	}
}

func TestSolcRunner(t *testing.T) {
	if _, err := exec.LookPath("solc"); err != nil {
		t.Skip("solc not found, skipping")
	}
	src := "// SPDX-License-Identifier: MIT\npragma solidity >=0.8.0;\ncontract Demo { uint public x; constructor(uint _x) { x = _x; } }"
	res, err := New(&SolcRunner{}, Defaults).Compile(context.Background(), src, "Demo")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	parsed, err := res.Artifact.Parse()
	if err != nil {
		t.Fatalf("invalid abi: %v", err)
	}
	if len(parsed.Constructor.Inputs) != 1 {
		t.Errorf("expected one constructor input, got %d", len(parsed.Constructor.Inputs))
	}
	if _, ok := parsed.Methods["x"]; !ok {
		t.Error("getter x missing from abi")
	}
	if v, err := new(SolcRunner).Version(context.Background()); err != nil || !versionRegexp.MatchString(v) {
		t.Errorf("solc version: %q, %v", v, err)
	}
}

func TestSolcRunnerMissing(t *testing.T) {
	r := &SolcRunner{Path: "solc-does-not-exist-anywhere"}
	if _, err := r.Run(context.Background(), []byte("{}")); err == nil {
		t.Fatal("expected error for missing executable")
	}
	if _, err := r.Version(context.Background()); err == nil {
		t.Fatal("expected version error for missing executable")
	}
}
