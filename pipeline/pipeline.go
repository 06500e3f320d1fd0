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

// Package pipeline chains source preprocessing, compilation and deployment.
// 流水线：预处理 -> 编译 -> artifact -> 连接节点 -> 解析构造参数 -> 估算 gas -> 部署 -> 回执。
package pipeline

import (
	"context"
	"fmt"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/compiler"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/deployer"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/source"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

const previewLength = 200

var (
	runMeter     = metrics.NewRegisteredMeter("solgen/pipeline/runs", nil)
	successMeter = metrics.NewRegisteredMeter("solgen/pipeline/success", nil)
)

// Request is one compile and deploy job.
type Request struct {
	Source       string             // raw source text
	ContractName string             // skips name extraction when set
	Args         deployer.Overrides // constructor argument overrides
}

// Compiled is the outcome of the compile half.
type Compiled struct {
	Document *source.Document
	Artifact *artifact.Artifact
	Warnings []compiler.Diagnostic
}

// Result is a finished deployment.
type Result struct {
	Name     string
	Artifact *artifact.Artifact
	Warnings []compiler.Diagnostic
	Plan     *deployer.Plan
	Receipt  *deployer.Receipt
}

// Pipeline runs requests against one compiler and one node. It is safe for
// concurrent use.
type Pipeline struct {
	config    Config
	extractor source.NameExtractor
	compiler  *compiler.Compiler
	connector *chain.Connector
	deployer  *deployer.Deployer
	store     artifact.Store // nil disables persistence
}

// accountLocks serializes the submissions of every pipeline of the process
// per deploying account.
var accountLocks = deployer.NewAccountLocks()

// New assembles a pipeline. The store is optional, and so is the backend of a
// pipeline that only compiles.
func New(config Config, runner compiler.Runner, backend chain.Backend, store artifact.Store) (*Pipeline, error) {
	name := config.Extractor
	if name == "" {
		name = Defaults.Extractor
	}
	extractor, ok := source.Extractors[name]
	if !ok {
		return nil, fmt.Errorf("unknown contract name extractor %q", name)
	}
	if !config.Persist {
		store = nil
	}
	d := deployer.New(backend, config.Deploy, config.Gas)
	d.SetLocks(accountLocks)
	return &Pipeline{
		config:    config,
		extractor: extractor,
		compiler:  compiler.New(runner, config.Compiler),
		connector: chain.NewConnector(backend, config.Chain),
		deployer:  d,
		store:     store,
	}, nil
}

// SetClock replaces the clock of the deployment retries.
func (p *Pipeline) SetClock(clock mclock.Clock) {
	p.deployer.SetClock(clock)
}

// SubscribeState subscribes to deployment state transitions.
func (p *Pipeline) SubscribeState(ch chan<- deployer.StateEvent) event.Subscription {
	return p.deployer.SubscribeState(ch)
}

// Compile preprocesses raw and compiles the contract it declares. An empty
// name is extracted from the source. The artifact is persisted if a store is
// configured.
func (p *Pipeline) Compile(ctx context.Context, raw, name string) (*Compiled, error) {
	doc, err := source.Preprocess(raw, name, p.extractor)
	if err != nil {
		return nil, err
	}
	logger := log.New("contract", doc.Name)
	logger.Info("Compiling contract", "length", len(doc.Text), "header", doc.Header)
	logger.Debug("Source preview", "code", source.Preview(doc.Text, previewLength))

	res, err := p.compiler.Compile(ctx, doc.Text, doc.Name)
	if err != nil {
		return nil, err
	}
	if p.store != nil {
		if err := p.store.Write(ctx, res.Artifact); err != nil {
			return nil, fmt.Errorf("persist artifact: %w", err)
		}
		logger.Debug("Persisted artifact", "backend", p.config.Artifact.Backend)
	}
	return &Compiled{Document: doc, Artifact: res.Artifact, Warnings: res.Warnings}, nil
}

// Probe checks that the node answers.
func (p *Pipeline) Probe(ctx context.Context) (uint64, error) {
	return p.connector.Probe(ctx)
}

// Deploy deploys art from the first node account.
func (p *Pipeline) Deploy(ctx context.Context, art *artifact.Artifact, overrides deployer.Overrides) (*deployer.Plan, *deployer.Receipt, error) {
	account, err := p.connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p.deployer.Deploy(ctx, art, *account, overrides)
}

// DeployStored deploys the artifact held by the store.
func (p *Pipeline) DeployStored(ctx context.Context, overrides deployer.Overrides) (*deployer.Plan, *deployer.Receipt, error) {
	if p.store == nil {
		return nil, nil, fmt.Errorf("%w: no artifact store configured", artifact.ErrArtifactNotFound)
	}
	art, err := p.store.Read(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p.Deploy(ctx, art, overrides)
}

// Run compiles and deploys req.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	runMeter.Mark(1)

	compiled, err := p.Compile(ctx, req.Source, req.ContractName)
	if err != nil {
		return nil, err
	}
	plan, receipt, err := p.Deploy(ctx, compiled.Artifact, req.Args)
	if err != nil {
		return nil, err
	}
	successMeter.Mark(1)
	return &Result{
		Name:     compiled.Document.Name,
		Artifact: compiled.Artifact,
		Warnings: compiled.Warnings,
		Plan:     plan,
		Receipt:  receipt,
	}, nil
}
