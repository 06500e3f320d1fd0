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
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

var testDeployer = common.HexToAddress("0x90F8bf6A479f320ead074411a4B0e7944Ea8c9C1")

func constructorOf(t *testing.T, inputs string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","stateMutability":"nonpayable","inputs":` + inputs + `}]`))
	require.NoError(t, err)
	return parsed
}

func TestResolveArgsCommon(t *testing.T) {
	parsed := constructorOf(t, `[{"name":"supply","type":"uint256"},{"name":"owner","type":"address"},{"name":"open","type":"bool"}]`)

	args, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, nil)
	require.NoError(t, err)
	require.Len(t, args.Values, 3)
	require.Zero(t, args.Values[0].(*big.Int).Cmp(big.NewInt(params.Ether)))
	require.Equal(t, testDeployer, args.Values[1])
	require.Equal(t, true, args.Values[2])
	require.Equal(t, []string{"supply", "owner", "open"}, args.Defaulted)

	_, err = parsed.Pack("", args.Values...)
	require.NoError(t, err)
}

func TestResolveArgsDefaults(t *testing.T) {
	var bytes4 [4]byte
	copy(bytes4[:], crypto.Keccak256([]byte("default")))

	tests := []struct {
		typ  string
		name string
		want interface{}
	}{
		{"uint256", "a", big.NewInt(params.Ether)},
		{"uint8", "a", uint8(255)},
		{"uint16", "a", uint16(65535)},
		{"uint32", "a", uint32(1000000)},
		{"uint64", "a", uint64(1000000)},
		{"uint128", "a", big.NewInt(1000000)},
		{"int8", "a", int8(0)},
		{"int64", "a", int64(0)},
		{"int256", "a", new(big.Int)},
		{"string", "name", "Defaultname"},
		{"string", "", "DefaultValue"},
		{"bytes4", "a", bytes4},
		{"uint256[]", "a", []*big.Int{}},
		{"address[]", "a", []common.Address{}},
		{"address[2]", "a", [2]common.Address{}},
		{"uint256[2]", "a", [2]*big.Int{new(big.Int), new(big.Int)}},
	}
	for _, tt := range tests {
		parsed := constructorOf(t, `[{"name":"`+tt.name+`","type":"`+tt.typ+`"}]`)
		args, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, nil)
		require.NoError(t, err, tt.typ)
		require.Equal(t, tt.want, args.Values[0], tt.typ)

		_, err = parsed.Pack("", args.Values...)
		require.NoError(t, err, "default of %s not packable", tt.typ)
	}
}

func TestResolveArgsBytes(t *testing.T) {
	parsed := constructorOf(t, `[{"name":"data","type":"bytes"},{"name":"pair","type":"tuple","components":[{"name":"a","type":"uint256"},{"name":"b","type":"address"}]}]`)
	args, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, nil)
	require.NoError(t, err)
	require.Len(t, args.Values, 2)
	_, err = parsed.Pack("", args.Values...)
	require.NoError(t, err)
}

func TestResolveArgsNoConstructor(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"function","name":"get","inputs":[],"outputs":[{"type":"uint256"}],"stateMutability":"view"}]`))
	require.NoError(t, err)

	args, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, nil)
	require.NoError(t, err)
	require.Empty(t, args.Values)
	require.Empty(t, args.Defaulted)
}

func TestResolveArgsOverrides(t *testing.T) {
	parsed := constructorOf(t, `[{"name":"supply","type":"uint256"},{"name":"owner","type":"address"},{"name":"","type":"string"},{"name":"limit","type":"uint8"}]`)
	other := common.HexToAddress("0xffcf8fdee72ac11b5c542428b35eef5769c409f0")

	args, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, Overrides{
		"supply": "0x10",
		"1":      other,
		"2":      "hello",
		"limit":  float64(7),
	})
	require.NoError(t, err)
	require.Equal(t, []interface{}{big.NewInt(16), other, "hello", uint8(7)}, args.Values)
	require.Empty(t, args.Defaulted)

	// Partial overrides keep the remaining placeholders.
	args, err = ResolveArgs(parsed.Constructor.Inputs, testDeployer, Overrides{"owner": other.Hex()})
	require.NoError(t, err)
	require.Equal(t, other, args.Values[1])
	require.Equal(t, []string{"supply", "#2", "limit"}, args.Defaulted)
	require.Equal(t, "DefaultValue", args.Values[2])
}

func TestResolveArgsInvalidOverrides(t *testing.T) {
	parsed := constructorOf(t, `[{"name":"supply","type":"uint256"},{"name":"limit","type":"uint8"}]`)

	tests := []Overrides{
		{"missing": "1"},
		{"5": "1"},
		{"supply": "lots"},
		{"supply": "-1"},
		{"limit": "256"},
		{"limit": nil},
		{"supply": struct{}{}},
	}
	for _, overrides := range tests {
		_, err := ResolveArgs(parsed.Constructor.Inputs, testDeployer, overrides)
		require.ErrorIs(t, err, ErrInvalidArgument, "overrides %v", overrides)
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		typ, in string
		want    interface{}
	}{
		{"uint256", "1000000000000000000", big.NewInt(params.Ether)},
		{"uint256", "0xff", big.NewInt(255)},
		{"uint8", "200", uint8(200)},
		{"uint64", "18446744073709551615", uint64(18446744073709551615)},
		{"int16", "-32768", int16(-32768)},
		{"int256", "-5", big.NewInt(-5)},
		{"bool", "true", true},
		{"bool", "0", false},
		{"string", "  hi ", "hi"},
		{"address", "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1", testDeployer},
		{"bytes", "0x0102", []byte{1, 2}},
		{"bytes2", "0x01", [2]byte{1, 0}},
		{"uint8[]", "[1, 2, 3]", []uint8{1, 2, 3}},
		{"uint8[]", "4,5", []uint8{4, 5}},
		{"uint8[]", "[]", []uint8{}},
		{"string[2]", `["a", "b"]`, [2]string{"a", "b"}},
		{"uint8[][]", `[[1], [2, 3]]`, [][]uint8{{1}, {2, 3}}},
	}
	for _, tt := range tests {
		typ, err := abi.NewType(tt.typ, "", nil)
		require.NoError(t, err)
		have, err := ParseArg(typ, tt.in)
		require.NoError(t, err, "%s %q", tt.typ, tt.in)
		if !reflect.DeepEqual(have, tt.want) {
			// big.Int values compare by value
			hb, ok1 := have.(*big.Int)
			wb, ok2 := tt.want.(*big.Int)
			if ok1 && ok2 && hb.Cmp(wb) == 0 {
				continue
			}
			t.Errorf("ParseArg(%s, %q): have %v (%T), want %v (%T)", tt.typ, tt.in, have, have, tt.want, tt.want)
		}
	}
}

func TestParseArgErrors(t *testing.T) {
	tests := []struct{ typ, in string }{
		{"uint8", "256"},
		{"uint256", "-1"},
		{"int8", "128"},
		{"int8", "-129"},
		{"uint256", "1.5"},
		{"address", "0x1234"},
		{"bool", "maybe"},
		{"bytes2", "0x010203"},
		{"bytes", "zz"},
		{"uint8[2]", "[1]"},
		{"uint8[]", "[1, x]"},
	}
	for _, tt := range tests {
		typ, err := abi.NewType(tt.typ, "", nil)
		require.NoError(t, err)
		if _, err := ParseArg(typ, tt.in); err == nil {
			t.Errorf("ParseArg(%s, %q): expected error", tt.typ, tt.in)
		}
	}
	tuple, err := abi.NewType("tuple", "", []abi.ArgumentMarshaling{{Name: "a", Type: "uint256"}})
	require.NoError(t, err)
	_, err = ParseArg(tuple, "1")
	require.True(t, err != nil && !errors.Is(err, ErrInvalidArgument))
}
