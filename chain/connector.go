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

package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
)

var (
	// ErrConnection is returned when the node cannot be reached.
	ErrConnection = errors.New("connection failed")

	// ErrNoAccountsAvailable is returned when the node manages no accounts.
	ErrNoAccountsAvailable = errors.New("no accounts available")

	// ErrInsufficientBalance is returned when the deployer cannot afford the
	// deployment.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// DefaultEndpoint is the RPC address of a local development node.
const DefaultEndpoint = "http://127.0.0.1:8545"

// Config contains the node connection settings.
type Config struct {
	Endpoint   string
	MinBalance *big.Int // balance floor checked before anything is estimated
}

// DefaultConfig contains the default connection settings.
var DefaultConfig = Config{
	Endpoint:   DefaultEndpoint,
	MinBalance: new(big.Int).Div(big.NewInt(params.Ether), big.NewInt(100)), // 0.01 ether
}

// ConnectionError is returned when a node call fails on the transport level.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to node at %s: %v (make sure a development node is running and reachable, e.g. `ganache --port 8545` or `geth --dev --http`)", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() []error { return []error{ErrConnection, e.Err} }

// Stage tells which balance check failed.
type Stage string

const (
	StagePreflight Stage = "preflight" // against the configured floor
	StageCost      Stage = "cost"      // against gas limit times gas price
)

// BalanceError is returned when the deployer account cannot cover a threshold.
type BalanceError struct {
	Stage    Stage
	Account  common.Address
	Balance  *big.Int
	Required *big.Int
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("insufficient balance (%s): account %s has %s ETH, requires %s ETH, fund the account and retry",
		e.Stage, e.Account.Hex(), FormatEther(e.Balance), FormatEther(e.Required))
}

func (e *BalanceError) Unwrap() error { return ErrInsufficientBalance }

// Account is the deployer account and its balance at resolution time.
type Account struct {
	Address common.Address
	Balance *big.Int
}

// Connector checks the node and selects the deployer account.
type Connector struct {
	backend Backend
	config  Config
}

// NewConnector creates a connector over backend.
func NewConnector(backend Backend, config Config) *Connector {
	return &Connector{backend: backend, config: config}
}

// Probe checks that the node answers, returning its head block number.
func (c *Connector) Probe(ctx context.Context) (uint64, error) {
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, &ConnectionError{Endpoint: c.config.Endpoint, Err: err}
	}
	return head, nil
}

// ResolveAccount picks the first node account and checks its balance against
// the configured floor.
func (c *Connector) ResolveAccount(ctx context.Context) (*Account, error) {
	accounts, err := c.backend.Accounts(ctx)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.config.Endpoint, Err: err}
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: node at %s manages no unlocked accounts", ErrNoAccountsAvailable, c.config.Endpoint)
	}
	account := accounts[0]
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.config.Endpoint, Err: err}
	}
	log.Info("Resolved deployer account", "account", account, "balance", FormatEther(balance)+" ETH", "accounts", len(accounts))

	if floor := c.config.MinBalance; floor != nil && balance.Cmp(floor) < 0 {
		return nil, &BalanceError{Stage: StagePreflight, Account: account, Balance: balance, Required: floor}
	}
	return &Account{Address: account, Balance: balance}, nil
}

// Connect probes the node and resolves the deployer account.
func (c *Connector) Connect(ctx context.Context) (*Account, error) {
	head, err := c.Probe(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("Connected to node", "endpoint", c.config.Endpoint, "head", head)
	return c.ResolveAccount(ctx)
}
