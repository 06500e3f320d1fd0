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

package pipeline

import (
	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/compiler"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/deployer"
)

// Config contains every policy knob of a compile and deploy run.
type Config struct {
	Extractor string // contract name extractor, "declaration" or "regex"
	Persist   bool   // write compiled artifacts to the artifact store

	Compiler compiler.Config
	Chain    chain.Config
	Gas      deployer.GasConfig
	Deploy   deployer.Config
	Artifact artifact.Config
}

// Defaults contains the default settings.
var Defaults = Config{
	Extractor: "declaration",
	Persist:   true,
	Compiler:  compiler.Defaults,
	Chain:     chain.DefaultConfig,
	Gas:       deployer.DefaultGasConfig,
	Deploy:    deployer.Defaults,
	Artifact:  artifact.DefaultConfig,
}
