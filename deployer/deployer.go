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

// Package deployer turns a compiled artifact into a contract on chain.
//
// A deployment resolves the constructor arguments, derives the gas parameters
// once and then submits the same creation transaction until the node accepts
// it or the attempts run out:
//
//	Idle -> Estimating -> Submitting -> {Success | RetryWait -> Submitting}* -> {Success | Failed}
package deployer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
)

var (
	// ErrDeploymentFailed is returned when no deployment transaction made it
	// into a successful receipt.
	ErrDeploymentFailed = errors.New("deployment failed")

	// ErrReverted is returned when the creation transaction was mined but
	// failed. The nonce is spent, so it is never resubmitted.
	ErrReverted = errors.New("creation transaction reverted")

	// ErrReceiptTimeout is returned when the submitted transaction is not
	// mined in time.
	ErrReceiptTimeout = errors.New("timed out waiting for receipt")
)

var (
	deployTimer    = metrics.NewRegisteredTimer("solgen/deploy/time", nil)
	deployAttempts = metrics.NewRegisteredMeter("solgen/deploy/attempts", nil)
	deployRetries  = metrics.NewRegisteredMeter("solgen/deploy/retries", nil)
	deployFailures = metrics.NewRegisteredMeter("solgen/deploy/failures", nil)
	gasFallbacks   = metrics.NewRegisteredCounter("solgen/deploy/gas/fallbacks", nil)
)

// DeploymentError is returned when a deployment could not be completed. Err is
// the last error reported by the node, unchanged.
type DeploymentError struct {
	Attempts int
	TxHash   common.Hash // zero if no submission was accepted
	Err      error
}

func (e *DeploymentError) Error() string {
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("deployment failed after %d attempt(s), transaction %s: %v", e.Attempts, e.TxHash.Hex(), e.Err)
	}
	return fmt.Sprintf("deployment failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *DeploymentError) Unwrap() []error { return []error{ErrDeploymentFailed, e.Err} }

// Config is the submission policy.
type Config struct {
	MaxAttempts         int           // submissions in total, including the first
	RetryDelay          time.Duration // wait between two submissions
	ReceiptPollInterval time.Duration
	ReceiptTimeout      time.Duration // zero waits until the context is done
}

// Defaults contains the default submission policy.
var Defaults = Config{
	MaxAttempts:         3,
	RetryDelay:          2 * time.Second,
	ReceiptPollInterval: time.Second,
	ReceiptTimeout:      5 * time.Minute,
}

// State is a step of the deployment state machine.
type State int

const (
	StateIdle State = iota
	StateEstimating
	StateSubmitting
	StateRetryWait
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEstimating:
		return "estimating"
	case StateSubmitting:
		return "submitting"
	case StateRetryWait:
		return "retry-wait"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// StateEvent is posted on every state transition.
type StateEvent struct {
	State   State
	Attempt int   // submission attempt the state belongs to, zero before submitting
	Err     error // failure that caused a RetryWait or Failed state
}

// Plan is everything submitted for one deployment. It is derived once and
// reused unchanged by every attempt.
type Plan struct {
	Args      []interface{} // constructor arguments in ABI order
	Defaulted []string      // parameters whose value was synthesized
	Code      []byte        // creation bytecode followed by the packed arguments

	GasEstimate    uint64 // raw node estimate, zero if it failed
	Estimated      bool   // false if GasLimit is the fallback ceiling
	GasLimit       uint64
	GasPrice       *big.Int
	PriceSuggested bool // false if GasPrice is the fallback price
	Cost           *big.Int
}

// Receipt describes a deployed contract.
type Receipt struct {
	ContractAddress common.Address
	TxHash          common.Hash
	GasUsed         uint64
	BlockNumber     uint64
	Attempts        int
}

// Deployer deploys artifacts from node managed accounts. It is safe for
// concurrent use, deployments from the same account are serialized.
type Deployer struct {
	backend chain.Backend
	gas     *Estimator
	config  Config
	clock   mclock.Clock
	locks   *AccountLocks
	feed    event.Feed
}

// New creates a deployer submitting through backend.
func New(backend chain.Backend, config Config, gas GasConfig) *Deployer {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.ReceiptPollInterval <= 0 {
		config.ReceiptPollInterval = Defaults.ReceiptPollInterval
	}
	return &Deployer{
		backend: backend,
		gas:     NewEstimator(backend, gas),
		config:  config,
		clock:   mclock.System{},
		locks:   NewAccountLocks(),
	}
}

// SetClock replaces the clock timing retries and receipt polls. It must be
// called before the first deployment.
func (d *Deployer) SetClock(clock mclock.Clock) {
	d.clock = clock
}

// SetLocks shares a lock table between deployers talking to the same node.
func (d *Deployer) SetLocks(locks *AccountLocks) {
	d.locks = locks
}

// SubscribeState subscribes to state transitions. Sends block until every
// subscriber received the event, so ch should be buffered or drained.
func (d *Deployer) SubscribeState(ch chan<- StateEvent) event.Subscription {
	return d.feed.Subscribe(ch)
}

func (d *Deployer) setState(state State, attempt int, err error) {
	d.feed.Send(StateEvent{State: state, Attempt: attempt, Err: err})
}

// Deploy prepares and submits art from account.
func (d *Deployer) Deploy(ctx context.Context, art *artifact.Artifact, account chain.Account, overrides Overrides) (*Plan, *Receipt, error) {
	defer func(start time.Time) { deployTimer.UpdateSince(start) }(time.Now())

	d.setState(StateIdle, 0, nil)
	plan, err := d.Prepare(ctx, art, account, overrides)
	if err != nil {
		deployFailures.Mark(1)
		return nil, nil, err
	}
	receipt, err := d.Submit(ctx, account, plan)
	if err != nil {
		return plan, nil, err
	}
	return plan, receipt, nil
}

// Prepare resolves the constructor arguments and the gas parameters of a
// deployment and checks that account can pay for it. Nothing is submitted.
func (d *Deployer) Prepare(ctx context.Context, art *artifact.Artifact, account chain.Account, overrides Overrides) (*Plan, error) {
	plan, err := d.prepare(ctx, art, account, overrides)
	if err != nil {
		d.setState(StateFailed, 0, err)
		return nil, err
	}
	return plan, nil
}

func (d *Deployer) prepare(ctx context.Context, art *artifact.Artifact, account chain.Account, overrides Overrides) (*Plan, error) {
	parsed, err := art.Parse()
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}
	args, err := ResolveArgs(parsed.Constructor.Inputs, account.Address, overrides)
	if err != nil {
		return nil, err
	}
	if len(args.Defaulted) > 0 {
		log.Warn("Using placeholder constructor arguments", "params", args.Defaulted)
	}
	packed, err := parsed.Pack("", args.Values...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	code := append(art.Code(), packed...)

	d.setState(StateEstimating, 0, nil)
	gas := d.gas.Estimate(ctx, account, code)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !gas.Estimated {
		gasFallbacks.Inc(1)
	}
	if !gas.PriceSuggested {
		gasFallbacks.Inc(1)
	}
	if err := CheckCost(account, gas); err != nil {
		return nil, err
	}
	cost, err := gas.Cost()
	if err != nil {
		return nil, err
	}
	return &Plan{
		Args:           args.Values,
		Defaulted:      args.Defaulted,
		Code:           code,
		GasEstimate:    gas.Estimate,
		Estimated:      gas.Estimated,
		GasLimit:       gas.Limit,
		GasPrice:       gas.Price,
		PriceSuggested: gas.PriceSuggested,
		Cost:           cost,
	}, nil
}

// Submit sends the creation transaction of plan and waits for its receipt.
// Rejected submissions are retried with the same parameters.
func (d *Deployer) Submit(ctx context.Context, account chain.Account, plan *Plan) (*Receipt, error) {
	unlock := d.locks.Lock(account.Address)
	defer unlock()

	args := chain.NewCreation(account.Address, plan.GasLimit, plan.GasPrice, plan.Code)
	hash, attempts, err := d.send(ctx, args)
	if err != nil {
		return nil, d.fail(&DeploymentError{Attempts: attempts, Err: err})
	}
	log.Info("Submitted contract creation", "tx", hash, "attempt", attempts)

	receipt, err := d.waitMined(ctx, hash)
	if err != nil {
		return nil, d.fail(&DeploymentError{Attempts: attempts, TxHash: hash, Err: err})
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, d.fail(&DeploymentError{Attempts: attempts, TxHash: hash, Err: ErrReverted})
	}
	d.setState(StateSuccess, attempts, nil)

	res := &Receipt{
		ContractAddress: receipt.ContractAddress,
		TxHash:          hash,
		GasUsed:         receipt.GasUsed,
		Attempts:        attempts,
	}
	if receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	log.Info("Contract deployed", "address", res.ContractAddress, "tx", hash, "gasUsed", res.GasUsed, "block", res.BlockNumber)
	return res, nil
}

func (d *Deployer) fail(err *DeploymentError) error {
	deployFailures.Mark(1)
	log.Error("Contract deployment failed", "attempts", err.Attempts, "err", err.Err)
	d.setState(StateFailed, err.Attempts, err)
	return err
}

// send submits args until the node accepts them, at most MaxAttempts times.
// It returns the number of attempts made.
func (d *Deployer) send(ctx context.Context, args chain.TransactionArgs) (common.Hash, int, error) {
	for attempt := 1; ; attempt++ {
		d.setState(StateSubmitting, attempt, nil)
		deployAttempts.Mark(1)

		hash, err := d.backend.SendTransaction(ctx, args)
		if err == nil {
			return hash, attempt, nil
		}
		if attempt >= d.config.MaxAttempts {
			return common.Hash{}, attempt, err
		}
		if ctx.Err() != nil {
			return common.Hash{}, attempt, ctx.Err()
		}
		log.Warn("Deployment attempt failed, retrying", "attempt", attempt, "max", d.config.MaxAttempts, "delay", d.config.RetryDelay, "err", err)
		d.setState(StateRetryWait, attempt, err)
		deployRetries.Mark(1)

		timer := d.clock.NewTimer(d.config.RetryDelay)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()
			return common.Hash{}, attempt, ctx.Err()
		}
	}
}

// waitMined polls the receipt of hash until it is available.
func (d *Deployer) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	start := d.clock.Now()
	for {
		receipt, err := d.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if errors.Is(err, ethereum.NotFound) {
			log.Trace("Transaction not yet mined", "tx", hash)
		} else {
			log.Trace("Receipt retrieval failed", "tx", hash, "err", err)
		}
		if timeout := d.config.ReceiptTimeout; timeout > 0 && d.clock.Now().Sub(start) >= timeout {
			return nil, fmt.Errorf("%w after %v", ErrReceiptTimeout, timeout)
		}
		timer := d.clock.NewTimer(d.config.ReceiptPollInterval)
		select {
		case <-timer.C():
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}
