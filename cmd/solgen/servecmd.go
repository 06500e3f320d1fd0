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

package main

import (
	"fmt"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/api"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Action: serve,
	Name:   "serve",
	Usage:  "Serve compile and deploy requests over HTTP",
	Description: `
The serve command accepts POST / with a JSON body {"code": "..."} plus the
optional "contractName" and "args" fields, runs the full pipeline and answers
with the deployed address, ABI and transaction hash. GET /health reports the
node's head block.`,
}

func serve(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid argument: %s", ctx.Args().First())
	}
	cfg := loadBaseConfig(ctx)
	sctx, cancel := signalContext()
	defer cancel()

	p, cleanup, err := makePipeline(sctx, cfg.Pipeline, true)
	if err != nil {
		return err
	}
	defer cleanup()
	defer watchState(p)()

	// Requests fail with a connection error until the node is up.
	if head, err := p.Probe(sctx); err != nil {
		log.Warn("Node not reachable", "endpoint", cfg.Pipeline.Chain.Endpoint, "err", err)
	} else {
		log.Info("Connected to node", "endpoint", cfg.Pipeline.Chain.Endpoint, "head", head)
	}
	return api.NewServer(p, cfg.API).ListenAndServe(sctx)
}
