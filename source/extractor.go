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

package source

import (
	"fmt"
	"regexp"
	"strings"
)

// NameExtractor discovers the name of the contract declared by a source.
// Implementations must never pick silently between several candidates.
type NameExtractor interface {
	ExtractName(src string) (string, error)
}

// AmbiguousNameError lists the distinct contract names found in a source.
type AmbiguousNameError struct {
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("multiple contracts declared (%s), specify the contract name explicitly", strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousNameError) Unwrap() error { return ErrAmbiguousContractName }

// RegexExtractor applies the plain `contract <Name> {` rule to the raw text.
// It does not understand inheritance lists or comments.
type RegexExtractor struct{}

var contractBrace = regexp.MustCompile(`contract\s+(\w+)\s*\{`)

func (RegexExtractor) ExtractName(src string) (string, error) {
	var names []string
	for _, m := range contractBrace.FindAllStringSubmatch(src, -1) {
		names = append(names, m[1])
	}
	return single(names)
}

// DeclarationExtractor finds deployable contract declarations outside of
// comments and string literals. It accepts inheritance lists and skips
// abstract contracts; interfaces and libraries never match.
type DeclarationExtractor struct{}

var contractDecl = regexp.MustCompile(`(\babstract\s+)?\bcontract\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*(?:\bis\b[^{;]*)?\{`)

func (DeclarationExtractor) ExtractName(src string) (string, error) {
	var names []string
	for _, m := range contractDecl.FindAllStringSubmatch(stripNonCode(src), -1) {
		if m[1] != "" {
			continue
		}
		names = append(names, m[2])
	}
	return single(names)
}

// Extractors maps the configuration names of the available extractors.
var Extractors = map[string]NameExtractor{
	"regex":       RegexExtractor{},
	"declaration": DeclarationExtractor{},
}

func single(names []string) (string, error) {
	var (
		seen   = make(map[string]bool)
		unique []string
	)
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	switch len(unique) {
	case 0:
		return "", ErrNoContractName
	case 1:
		return unique[0], nil
	default:
		return "", &AmbiguousNameError{Candidates: unique}
	}
}

// stripNonCode blanks out comments and string literals, keeping offsets and
// line structure intact.
func stripNonCode(src string) string {
	out := []byte(src)
	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			for i += 2; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		case out[i] == '"' || out[i] == '\'':
			quote := out[i]
			out[i] = ' '
			for i++; i < len(out) && out[i] != quote && out[i] != '\n'; i++ {
				if out[i] == '\\' && i+1 < len(out) {
					out[i] = ' '
					i++
				}
				out[i] = ' '
			}
			if i < len(out) && out[i] == quote {
				out[i] = ' '
			}
		}
	}
	return string(out)
}
