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

// Package source cleans, validates and inspects raw Solidity text before it is
// handed to the compiler.
package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidSourceFormat is returned when the cleaned source does not start
	// with a license comment, a comment or a pragma statement.
	ErrInvalidSourceFormat = errors.New("invalid source format")

	// ErrNoContractName is returned when no contract declaration is found.
	ErrNoContractName = errors.New("no contract declaration found")

	// ErrAmbiguousContractName is returned when more than one distinct contract
	// declaration is found and no explicit name was given.
	ErrAmbiguousContractName = errors.New("ambiguous contract declaration")
)

// prefixLength is the number of leading characters reported for a source that
// fails validation.
const prefixLength = 50

// FormatError reports a source that failed the header check.
type FormatError struct {
	Prefix string // leading characters of the cleaned source
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("source code must start with SPDX license, comment, or pragma statement (begins with %q)", e.Prefix)
}

func (e *FormatError) Unwrap() error { return ErrInvalidSourceFormat }

// Header identifies the construct a valid source starts with.
type Header int

const (
	HeaderSPDX Header = iota
	HeaderLineComment
	HeaderBlockComment
	HeaderPragma
)

func (h Header) String() string {
	switch h {
	case HeaderSPDX:
		return "spdx"
	case HeaderLineComment:
		return "comment"
	case HeaderBlockComment:
		return "block-comment"
	case HeaderPragma:
		return "pragma"
	default:
		return "unknown"
	}
}

// Document is a cleaned source together with the contract it declares.
type Document struct {
	Text   string
	Name   string
	Header Header
}

var (
	languageTag = regexp.MustCompile(`^(?i:solidity|javascript)\b\s*`)

	// Order matters, the SPDX form is a special case of a line comment.
	headers = []struct {
		kind    Header
		pattern *regexp.Regexp
	}{
		{HeaderSPDX, regexp.MustCompile(`^//\s*(?i:SPDX-License-Identifier)`)},
		{HeaderLineComment, regexp.MustCompile(`^//`)},
		{HeaderBlockComment, regexp.MustCompile(`^/\*`)},
		{HeaderPragma, regexp.MustCompile(`^(?i:pragma)\s+(?i:solidity)`)},
	}
)

// Clean strips editor artifacts from raw source text: a leading language
// identifier, mixed line endings, leading blank lines and surrounding
// whitespace.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	text = languageTag.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Validate checks that cleaned source starts with an SPDX comment, a line
// comment, a block comment or a pragma statement.
func Validate(cleaned string) (Header, error) {
	for _, h := range headers {
		if h.pattern.MatchString(cleaned) {
			return h.kind, nil
		}
	}
	return 0, &FormatError{Prefix: prefix(cleaned)}
}

// Preprocess cleans and validates raw, then resolves the contract name. An
// explicit name takes precedence over extraction.
func Preprocess(raw, name string, extractor NameExtractor) (*Document, error) {
	text := Clean(raw)
	header, err := Validate(text)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if name, err = extractor.ExtractName(text); err != nil {
			return nil, err
		}
	}
	return &Document{Text: text, Name: name, Header: header}, nil
}

// Preview returns at most n leading characters of s, for logging.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func prefix(s string) string {
	return Preview(s, prefixLength)
}
