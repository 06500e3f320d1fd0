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
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var (
	etherUnit = big.NewInt(params.Ether)
	gweiUnit  = big.NewInt(params.GWei)
)

// FormatEther renders a wei amount in ether without losing precision.
func FormatEther(wei *big.Int) string {
	return formatUnits(wei, etherUnit, 18)
}

// FormatGwei renders a wei amount in gwei without losing precision.
func FormatGwei(wei *big.Int) string {
	return formatUnits(wei, gweiUnit, 9)
}

func formatUnits(v, unit *big.Int, decimals int) string {
	if v == nil {
		return "<nil>"
	}
	var (
		abs  = new(big.Int).Abs(v)
		quo  = new(big.Int)
		rem  = new(big.Int)
		sign string
	)
	if v.Sign() < 0 {
		sign = "-"
	}
	quo.QuoRem(abs, unit, rem)
	if rem.Sign() == 0 {
		return sign + quo.String()
	}
	frac := rem.String()
	frac = strings.Repeat("0", decimals-len(frac)) + frac
	return sign + quo.String() + "." + strings.TrimRight(frac, "0")
}
