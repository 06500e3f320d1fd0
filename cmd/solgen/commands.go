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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/cmd/utils"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/compiler"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/deployer"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/pipeline"
	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
)

var (
	compileCommand = &cli.Command{
		Action:    compile,
		Name:      "compile",
		Usage:     "Compile a Solidity source and persist its artifact",
		ArgsUsage: "<file|->",
		Flags:     []cli.Flag{utils.ContractNameFlag},
		Description: `
The compile command cleans and validates the source, extracts the contract
name unless --name is given, runs solc and writes the ABI and creation
bytecode to the configured artifact store. The source is read from stdin
when the file is "-" or missing.`,
	}
	deployCommand = &cli.Command{
		Action: deploy,
		Name:   "deploy",
		Usage:  "Deploy the persisted artifact",
		Flags:  []cli.Flag{utils.ArgFlag},
		Description: `
The deploy command reads the artifact written by a previous compile and
deploys it from the first account of the node. Constructor arguments are
synthesized from their types unless overridden with --arg name=value, where
name is the parameter name or its position.`,
	}
	runCommand = &cli.Command{
		Action:    run,
		Name:      "run",
		Usage:     "Compile a Solidity source and deploy it",
		ArgsUsage: "<file|->",
		Flags:     []cli.Flag{utils.ContractNameFlag, utils.ArgFlag},
		Description: `
The run command executes compile and deploy back to back, handing the artifact
over in memory. It is still persisted unless --artifact.nopersist is set.`,
	}
)

// signalContext is cancelled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// readSource reads the file named by the first argument, or stdin.
func readSource(ctx *cli.Context) (string, error) {
	if ctx.NArg() > 1 {
		return "", fmt.Errorf("too many arguments, want a single source file")
	}
	file := ctx.Args().First()
	if file == "" || file == "-" {
		if file == "" && isatty.IsTerminal(os.Stdin.Fd()) {
			return "", errors.New("no source file given, pass a file or pipe the source into stdin")
		}
		src, err := io.ReadAll(os.Stdin)
		return string(src), err
	}
	src, err := os.ReadFile(file)
	return string(src), err
}

// makePipeline opens the components selected by cfg. A pipeline made without
// a node connection can only compile.
func makePipeline(ctx context.Context, cfg pipeline.Config, connect bool) (*pipeline.Pipeline, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	runner, err := compiler.NewRunner(cfg.Compiler)
	if err != nil {
		return nil, nil, err
	}
	switch r := runner.(type) {
	case *compiler.SolcRunner:
		if v, err := r.Version(ctx); err != nil {
			log.Warn("Solidity compiler not available", "solc", cfg.Compiler.Solc, "err", err)
		} else {
			log.Info("Using local solc", "version", v)
		}
	case io.Closer:
		closers = append(closers, func() { r.Close() })
	}
	var backend chain.Backend
	if connect {
		client, err := chain.Dial(ctx, cfg.Chain.Endpoint)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, client.Close)
		backend = client
	}
	var store artifact.Store
	if cfg.Persist {
		if store, err = artifact.Open(cfg.Artifact); err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				log.Warn("Failed to close artifact store", "err", err)
			}
		})
	}
	p, err := pipeline.New(cfg, runner, backend, store)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

// watchState logs the deployment state transitions until stop is called.
func watchState(p *pipeline.Pipeline) (stop func()) {
	ch := make(chan deployer.StateEvent, 16)
	sub := p.SubscribeState(ch)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-ch:
				if ev.Err != nil {
					log.Debug("Deployment state", "state", ev.State, "attempt", ev.Attempt, "err", ev.Err)
				} else {
					log.Debug("Deployment state", "state", ev.State, "attempt", ev.Attempt)
				}
			case <-sub.Err():
				return
			}
		}
	}()
	return func() {
		sub.Unsubscribe()
		<-done
	}
}

func compile(ctx *cli.Context) error {
	src, err := readSource(ctx)
	if err != nil {
		return err
	}
	cfg := loadBaseConfig(ctx)
	sctx, cancel := signalContext()
	defer cancel()

	p, cleanup, err := makePipeline(sctx, cfg.Pipeline, false)
	if err != nil {
		return err
	}
	defer cleanup()

	compiled, err := p.Compile(sctx, src, ctx.String(utils.ContractNameFlag.Name))
	if err != nil {
		return err
	}
	printWarnings(compiled.Warnings)
	printArtifact(compiled.Document.Name, compiled.Artifact)
	if cfg.Pipeline.Persist {
		fmt.Printf("Stored:       %s (%s)\n", cfg.Pipeline.Artifact.Name, cfg.Pipeline.Artifact.Backend)
	}
	return nil
}

func deploy(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid argument: %s", ctx.Args().First())
	}
	overrides, err := utils.ParseOverrides(ctx)
	if err != nil {
		return err
	}
	cfg := loadBaseConfig(ctx)
	if !cfg.Pipeline.Persist {
		return errors.New("deploy needs an artifact store, drop --artifact.nopersist")
	}
	sctx, cancel := signalContext()
	defer cancel()

	p, cleanup, err := makePipeline(sctx, cfg.Pipeline, true)
	if err != nil {
		return err
	}
	defer cleanup()
	defer watchState(p)()

	plan, receipt, err := p.DeployStored(sctx, overrides)
	if err != nil {
		return err
	}
	printDeployment(plan, receipt)
	return nil
}

func run(ctx *cli.Context) error {
	src, err := readSource(ctx)
	if err != nil {
		return err
	}
	overrides, err := utils.ParseOverrides(ctx)
	if err != nil {
		return err
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

	res, err := p.Run(sctx, pipeline.Request{
		Source:       src,
		ContractName: ctx.String(utils.ContractNameFlag.Name),
		Args:         overrides,
	})
	if err != nil {
		return err
	}
	printWarnings(res.Warnings)
	printArtifact(res.Name, res.Artifact)
	printDeployment(res.Plan, res.Receipt)
	return nil
}

func printWarnings(warnings []compiler.Diagnostic) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(w.Text()))
	}
}

func printArtifact(name string, a *artifact.Artifact) {
	fmt.Printf("Contract:     %s\n", name)
	fmt.Printf("ABI entries:  %d\n", a.Entries())
	fmt.Printf("Bytecode:     %d bytes\n", len(a.Code()))
}

func printDeployment(plan *deployer.Plan, receipt *deployer.Receipt) {
	if len(plan.Defaulted) > 0 {
		fmt.Printf("Defaulted:    %s\n", strings.Join(plan.Defaulted, ", "))
	}
	fmt.Printf("Address:      %s\n", receipt.ContractAddress.Hex())
	fmt.Printf("Transaction:  %s\n", receipt.TxHash.Hex())
	fmt.Printf("Block:        %d\n", receipt.BlockNumber)
	fmt.Printf("Gas used:     %d (limit %d)\n", receipt.GasUsed, plan.GasLimit)
	fmt.Printf("Gas price:    %s gwei\n", chain.FormatGwei(plan.GasPrice))
	fmt.Printf("Max cost:     %s ether\n", chain.FormatEther(plan.Cost))
	fmt.Printf("Attempts:     %d\n", receipt.Attempts)
}
