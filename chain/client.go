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

// Package chain talks to the JSON-RPC node a contract is deployed to.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// Backend is the subset of the eth namespace needed to deploy a contract with
// an account managed by the node.
type Backend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TransactionArgs is an unsigned contract creation handed to eth_sendTransaction.
// The node fills in the nonce and signs with the unlocked account.
type TransactionArgs struct {
	From     common.Address `json:"from"`
	Gas      hexutil.Uint64 `json:"gas"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
	Input    hexutil.Bytes  `json:"input"`
	Data     hexutil.Bytes  `json:"data,omitempty"` // legacy name of input, some dev nodes only read this one
}

// NewCreation assembles the arguments of a contract creation transaction.
func NewCreation(from common.Address, gas uint64, gasPrice *big.Int, code []byte) TransactionArgs {
	return TransactionArgs{
		From:     from,
		Gas:      hexutil.Uint64(gas),
		GasPrice: (*hexutil.Big)(gasPrice),
		Input:    code,
		Data:     code,
	}
}

// Client is a Backend over a JSON-RPC connection.
type Client struct {
	c  *rpc.Client
	ec *ethclient.Client
}

// Dial connects a client to the given URL.
func Dial(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c: c, ec: ethclient.NewClient(c)}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.c.Close()
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.ec.BlockNumber(ctx)
}

// Accounts returns the accounts the node manages (eth_accounts).
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.c.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return c.ec.BalanceAt(ctx, account, blockNumber)
}

func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return c.ec.EstimateGas(ctx, msg)
}

func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.ec.SuggestGasPrice(ctx)
}

// SendTransaction asks the node to sign and submit args (eth_sendTransaction).
func (c *Client) SendTransaction(ctx context.Context, args TransactionArgs) (common.Hash, error) {
	var hash common.Hash
	err := c.c.CallContext(ctx, &hash, "eth_sendTransaction", args)
	return hash, err
}

// TransactionReceipt returns the receipt of a mined transaction, or
// ethereum.NotFound while it is pending.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.ec.TransactionReceipt(ctx, txHash)
}
