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

// Package chaintest provides an in-memory chain.Backend for tests.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// Account is the first account of a fresh backend, ganache's default mnemonic
// derives it first too.
var Account = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")

var _ chain.Backend = (*Backend)(nil)

// Backend is a programmable fake node. Failure fields are read on every call,
// SendErrs is consumed one entry per submission.
type Backend struct {
	mu sync.Mutex

	Head        uint64
	ProbeErr    error
	AccountList []common.Address
	AccountsErr error
	Balances    map[common.Address]*big.Int
	BalanceErr  error
	Gas         uint64
	EstimateErr error
	Price       *big.Int
	PriceErr    error
	SendErrs    []error
	Status      uint64 // status of mined receipts
	Pending     int    // receipt lookups answered with NotFound before mining
	Clock       mclock.Clock

	Estimates []ethereum.CallMsg
	Sent      []chain.TransactionArgs
	SentAt    []mclock.AbsTime

	nonces   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	lookups  map[common.Hash]int
}

// New creates a backend with one funded account and working gas lookups.
func New() *Backend {
	return &Backend{
		Head:        1,
		AccountList: []common.Address{Account},
		Balances: map[common.Address]*big.Int{
			Account: new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether)),
		},
		Gas:      500_000,
		Price:    big.NewInt(params.GWei),
		Status:   types.ReceiptStatusSuccessful,
		nonces:   make(map[common.Address]uint64),
		receipts: make(map[common.Hash]*types.Receipt),
		lookups:  make(map[common.Hash]int),
	}
}

// SetBalance overrides the balance of addr.
func (b *Backend) SetBalance(addr common.Address, wei *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Balances[addr] = wei
}

// Submissions returns the number of eth_sendTransaction calls so far.
func (b *Backend) Submissions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Sent)
}

func (b *Backend) BlockNumber(ctx context.Context) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Head, b.ProbeErr
}

func (b *Backend) Accounts(ctx context.Context) ([]common.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.AccountList, b.AccountsErr
}

func (b *Backend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.BalanceErr != nil {
		return nil, b.BalanceErr
	}
	if bal, ok := b.Balances[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func (b *Backend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Estimates = append(b.Estimates, msg)
	return b.Gas, b.EstimateErr
}

func (b *Backend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PriceErr != nil {
		return nil, b.PriceErr
	}
	return new(big.Int).Set(b.Price), nil
}

func (b *Backend) SendTransaction(ctx context.Context, args chain.TransactionArgs) (common.Hash, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Sent = append(b.Sent, args)
	if b.Clock != nil {
		b.SentAt = append(b.SentAt, b.Clock.Now())
	}
	if len(b.SendErrs) > 0 {
		err := b.SendErrs[0]
		b.SendErrs = b.SendErrs[1:]
		if err != nil {
			return common.Hash{}, err
		}
	}
	if args.Gas == 0 {
		return common.Hash{}, errors.New("intrinsic gas too low")
	}
	nonce := b.nonces[args.From]
	b.nonces[args.From]++
	b.Head++

	hash := crypto.Keccak256Hash(args.From.Bytes(), new(big.Int).SetUint64(nonce).Bytes(), args.Input)
	b.receipts[hash] = &types.Receipt{
		Status:          b.Status,
		TxHash:          hash,
		ContractAddress: crypto.CreateAddress(args.From, nonce),
		GasUsed:         uint64(args.Gas) * 3 / 4,
		BlockNumber:     new(big.Int).SetUint64(b.Head),
	}
	return hash, nil
}

func (b *Backend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	b.lookups[txHash]++
	if b.lookups[txHash] <= b.Pending {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}
