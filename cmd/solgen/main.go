// Copyright 2025 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// solgen compiles Solidity contracts and deploys them through a JSON-RPC node.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/cmd/utils"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/internal/debug"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/internal/flags"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const dotEnvFile = ".env"

var app = flags.NewApp("the solgen compile and deploy tool")

func init() {
	// Initialize the CLI app
	app.Action = cli.ShowAppHelp
	app.Commands = []*cli.Command{
		// See commands.go:
		compileCommand,
		deployCommand,
		runCommand,
		// See servecmd.go:
		serveCommand,
		// See artifactcmd.go:
		artifactCommand,
		// See config.go:
		dumpConfigCommand,
	}
	app.Flags = flags.Merge(
		[]cli.Flag{configFileFlag},
		utils.CompilerFlags,
		utils.ChainFlags,
		utils.ArtifactFlags,
		utils.APIFlags,
		debug.Flags,
	)
	flags.AutoEnvVars(app.Flags, "SOLGEN", debug.CommandLineOnly...)

	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	// Environment variables feed the flags, so .env has to be loaded
	// before the command line is parsed.
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", dotEnvFile, err)
		os.Exit(1)
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
