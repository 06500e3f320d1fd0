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
	"errors"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"pragma solidity ^0.8.0;", "pragma solidity ^0.8.0;"},
		{"solidity\n// SPDX-License-Identifier: MIT", "// SPDX-License-Identifier: MIT"},
		{"Solidity  pragma solidity ^0.8.0;", "pragma solidity ^0.8.0;"},
		{"javascript\r\n\r\n// hi\r\ncontract A {}", "// hi\ncontract A {}"},
		{"\n\n   \n// a\rcontract B {}\n\n", "// a\ncontract B {}"},
		{"solidityFoo", "solidityFoo"},
		{"   ", ""},
	}
	for i, test := range tests {
		if have := Clean(test.raw); have != test.want {
			t.Errorf("test %d: have %q, want %q", i, have, test.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		src    string
		header Header
		ok     bool
	}{
		{"// SPDX-License-Identifier: MIT", HeaderSPDX, true},
		{"//spdx-license-identifier: MIT", HeaderSPDX, true},
		{"// just a comment", HeaderLineComment, true},
		{"/* block */ pragma solidity 0.8.0;", HeaderBlockComment, true},
		{"pragma solidity ^0.8.0;", HeaderPragma, true},
		{"PRAGMA   Solidity >=0.7;", HeaderPragma, true},
		{"contract A {}", 0, false},
		{"pragma abicoder v2;", 0, false},
		{"", 0, false},
		{"# not solidity", 0, false},
	}
	for i, test := range tests {
		header, err := Validate(test.src)
		if test.ok {
			if err != nil {
				t.Errorf("test %d: unexpected error: %v", i, err)
			} else if header != test.header {
				t.Errorf("test %d: header mismatch: have %v, want %v", i, header, test.header)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidSourceFormat) {
			t.Errorf("test %d: expected ErrInvalidSourceFormat, got %v", i, err)
		}
	}
}

func TestValidatePrefix(t *testing.T) {
	src := "contract VeryLongNameThatKeepsGoing { uint256 public valueThatPushesPastTheLimit; }"
	_, err := Validate(src)

	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if ferr.Prefix != src[:prefixLength] {
		t.Fatalf("prefix mismatch: have %q, want %q", ferr.Prefix, src[:prefixLength])
	}
}

type countingExtractor struct {
	calls int
}

func (c *countingExtractor) ExtractName(src string) (string, error) {
	c.calls++
	return DeclarationExtractor{}.ExtractName(src)
}

func TestPreprocess(t *testing.T) {
	src := "solidity\r\n// SPDX-License-Identifier: MIT\r\npragma solidity ^0.8.0;\r\ncontract Demo { constructor(uint256 x) {} }"

	ex := new(countingExtractor)
	doc, err := Preprocess(src, "", ex)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if doc.Name != "Demo" || doc.Header != HeaderSPDX || ex.calls != 1 {
		t.Fatalf("unexpected document: %+v (extractor calls %d)", doc, ex.calls)
	}
	// An explicit name bypasses extraction.
	if doc, err = Preprocess(src, "Other", ex); err != nil || doc.Name != "Other" || ex.calls != 1 {
		t.Fatalf("explicit name not honoured: %+v, %v", doc, err)
	}
	// Invalid sources never reach the extractor.
	if _, err = Preprocess("contract Demo {}", "", ex); !errors.Is(err, ErrInvalidSourceFormat) || ex.calls != 1 {
		t.Fatalf("invalid source: err %v, extractor calls %d", err, ex.calls)
	}
}
