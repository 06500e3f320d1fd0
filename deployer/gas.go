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

package deployer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/ethereum/go-ethereum"
	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// ErrGasCostOverflow is returned when gas limit times gas price does not fit
// in 256 bits.
var ErrGasCostOverflow = errors.New("gas cost exceeds 256 bits")

// GasConfig is the gas pricing policy of a deployment.
type GasConfig struct {
	BufferPercent uint64   // added on top of the node estimate
	FallbackLimit uint64   // gas limit used when estimation fails
	FallbackPrice *big.Int // gas price used when the node does not suggest one
}

// DefaultGasConfig contains the default gas policy.
var DefaultGasConfig = GasConfig{
	BufferPercent: 30,
	FallbackLimit: 3_000_000,
	FallbackPrice: big.NewInt(20 * params.GWei),
}

// BufferedLimit returns ceil(estimate * (100 + percent) / 100), saturating at
// the largest uint64.
func BufferedLimit(estimate, percent uint64) uint64 {
	factor, overflow := gmath.SafeAdd(100, percent)
	if overflow {
		return math.MaxUint64
	}
	product, overflow := gmath.SafeMul(estimate, factor)
	if overflow {
		return math.MaxUint64
	}
	limit := product / 100
	if product%100 != 0 {
		limit++
	}
	return limit
}

// Gas is the outcome of the gas lookups of one deployment.
type Gas struct {
	Estimate       uint64 // raw node estimate, zero when it failed
	Estimated      bool   // false if the fallback limit was used
	Limit          uint64
	Price          *big.Int
	PriceSuggested bool // false if the fallback price was used
}

// Cost returns the most the transaction can spend on gas.
func (g *Gas) Cost() (*big.Int, error) {
	cost, err := g.cost()
	if err != nil {
		return nil, err
	}
	return cost.ToBig(), nil
}

func (g *Gas) cost() (*uint256.Int, error) {
	if g.Price == nil || g.Price.Sign() < 0 {
		return nil, fmt.Errorf("invalid gas price %v", g.Price)
	}
	price, overflow := uint256.FromBig(g.Price)
	if overflow {
		return nil, fmt.Errorf("%w: price %v", ErrGasCostOverflow, g.Price)
	}
	cost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(g.Limit), price)
	if overflow {
		return nil, fmt.Errorf("%w: limit %d, price %v", ErrGasCostOverflow, g.Limit, g.Price)
	}
	return cost, nil
}

// Estimator derives gas limit and price from the node. Lookup failures
// degrade to the configured fallbacks.
type Estimator struct {
	backend chain.Backend
	config  GasConfig
}

// NewEstimator creates an estimator over backend.
func NewEstimator(backend chain.Backend, config GasConfig) *Estimator {
	if config.FallbackPrice == nil {
		config.FallbackPrice = DefaultGasConfig.FallbackPrice
	}
	return &Estimator{backend: backend, config: config}
}

// Estimate looks up the gas of a contract creation from account running code.
func (e *Estimator) Estimate(ctx context.Context, from chain.Account, code []byte) *Gas {
	gas := new(Gas)

	estimate, err := e.backend.EstimateGas(ctx, ethereum.CallMsg{From: from.Address, Data: code})
	if err != nil {
		gas.Limit = e.config.FallbackLimit
		log.Warn("Gas estimation failed, using fallback limit", "limit", gas.Limit, "err", err)
	} else {
		gas.Estimate, gas.Estimated = estimate, true
		gas.Limit = BufferedLimit(estimate, e.config.BufferPercent)
		log.Debug("Estimated deployment gas", "estimate", estimate, "limit", gas.Limit, "buffer", e.config.BufferPercent)
	}

	price, err := e.backend.SuggestGasPrice(ctx)
	if err != nil || price == nil {
		gas.Price = new(big.Int).Set(e.config.FallbackPrice)
		log.Warn("Gas price lookup failed, using fallback price", "price", chain.FormatGwei(gas.Price)+" gwei", "err", err)
	} else {
		gas.Price, gas.PriceSuggested = price, true
	}
	return gas
}

// CheckCost fails with a cost stage balance error if account cannot pay for
// the gas.
func CheckCost(account chain.Account, gas *Gas) error {
	cost, err := gas.cost()
	if err != nil {
		return err
	}
	log.Info("Deployment cost", "limit", gas.Limit, "price", chain.FormatGwei(gas.Price)+" gwei", "cost", chain.FormatEther(cost.ToBig())+" ETH", "balance", chain.FormatEther(account.Balance)+" ETH")
	if !covers(account.Balance, cost) {
		return &chain.BalanceError{Stage: chain.StageCost, Account: account.Address, Balance: account.Balance, Required: cost.ToBig()}
	}
	return nil
}

// covers reports whether balance is at least cost. Balances wider than 256
// bits always cover.
func covers(balance *big.Int, cost *uint256.Int) bool {
	if balance == nil || balance.Sign() < 0 {
		return false
	}
	b, overflow := uint256.FromBig(balance)
	return overflow || !b.Lt(cost)
}
