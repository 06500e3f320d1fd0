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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// ErrInvalidArgument is returned when a constructor argument override cannot
// be applied.
var ErrInvalidArgument = errors.New("invalid constructor argument")

// defaultUint is the placeholder for unsigned integers narrower than 256 bits.
const defaultUint = 1_000_000

// defaultBytes seeds the placeholder of fixed size byte arrays.
var defaultBytes = crypto.Keccak256([]byte("default"))

// Overrides replaces synthesized constructor arguments, keyed by parameter
// name or by positional index ("0", "1", ...). Values are either of the Go
// type the ABI packer expects for the parameter, or a string, number, bool or
// list parsed against the parameter type.
type Overrides map[string]interface{}

// Args are the constructor arguments of one deployment in ABI order.
type Args struct {
	Values    []interface{}
	Defaulted []string // labels of the parameters that were synthesized
}

// ResolveArgs builds one argument per constructor input. Inputs without an
// override get a placeholder derived from their type; the placeholders are a
// best effort to make a deployment go through, not meaningful values.
func ResolveArgs(inputs abi.Arguments, deployer common.Address, overrides Overrides) (*Args, error) {
	used := make(map[string]bool, len(overrides))
	args := &Args{Values: make([]interface{}, 0, len(inputs))}

	for i, input := range inputs {
		label := paramLabel(i, input.Name)
		v, key, ok := lookupOverride(overrides, i, input.Name)
		if ok {
			used[key] = true
			value, err := coerce(input.Type, v)
			if err != nil {
				return nil, fmt.Errorf("%w %s (%s): %v", ErrInvalidArgument, label, input.Type, err)
			}
			args.Values = append(args.Values, value)
			continue
		}
		args.Values = append(args.Values, defaultArg(input, deployer))
		args.Defaulted = append(args.Defaulted, label)
	}
	for key := range overrides {
		if !used[key] {
			return nil, fmt.Errorf("%w: constructor has no parameter %q", ErrInvalidArgument, key)
		}
	}
	return args, nil
}

func paramLabel(index int, name string) string {
	if name == "" {
		return "#" + strconv.Itoa(index)
	}
	return name
}

// lookupOverride finds the override of a parameter, by name first.
func lookupOverride(overrides Overrides, index int, name string) (interface{}, string, bool) {
	if name != "" {
		if v, ok := overrides[name]; ok {
			return v, name, true
		}
	}
	key := strconv.Itoa(index)
	v, ok := overrides[key]
	return v, key, ok
}

// defaultArg synthesizes the placeholder of one constructor input.
func defaultArg(input abi.Argument, deployer common.Address) interface{} {
	typ := input.Type
	switch typ.T {
	case abi.UintTy:
		if typ.Size == 256 {
			return big.NewInt(params.Ether)
		}
		return uintValue(typ, defaultUint)
	case abi.AddressTy:
		return deployer
	case abi.StringTy:
		if input.Name == "" {
			return "DefaultValue"
		}
		return "Default" + input.Name
	case abi.BoolTy:
		return true
	case abi.FixedBytesTy:
		v := reflect.New(typ.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(defaultBytes[:typ.Size]))
		return v.Interface()
	case abi.SliceTy:
		return reflect.MakeSlice(typ.GetType(), 0, 0).Interface()
	default:
		return zeroValue(typ)
	}
}

// uintValue returns n as the Go type of an unsigned ABI integer, clamped to
// the largest value the type can hold.
func uintValue(typ abi.Type, n uint64) interface{} {
	if typ.Size < 64 {
		if max := uint64(1)<<typ.Size - 1; n > max {
			n = max
		}
	}
	v := reflect.New(typ.GetType()).Elem()
	if v.Kind() == reflect.Ptr {
		return new(big.Int).SetUint64(n)
	}
	v.SetUint(n)
	return v.Interface()
}

// zeroValue returns the zero value of typ with every big integer allocated,
// the packer rejects nil pointers.
func zeroValue(typ abi.Type) interface{} {
	v := reflect.New(typ.GetType()).Elem()
	allocate(v)
	return v.Interface()
}

var bigIntType = reflect.TypeOf((*big.Int)(nil))

func allocate(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if v.Type() == bigIntType && v.IsNil() {
			v.Set(reflect.ValueOf(new(big.Int)))
		}
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			allocate(v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			allocate(v.Field(i))
		}
	}
}

// coerce converts an override into the Go value the packer expects for typ.
func coerce(typ abi.Type, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, errors.New("missing value")
	}
	if reflect.TypeOf(v) == typ.GetType() {
		return v, nil
	}
	switch x := v.(type) {
	case string:
		return ParseArg(typ, x)
	case json.Number:
		return ParseArg(typ, x.String())
	case float64:
		return ParseArg(typ, strconv.FormatFloat(x, 'f', -1, 64))
	case []interface{}:
		blob, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		return ParseArg(typ, string(blob))
	case *big.Int, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, common.Address:
		return ParseArg(typ, fmt.Sprint(x))
	}
	return nil, fmt.Errorf("unsupported value of type %T", v)
}

// ParseArg parses the textual form of a value of the given ABI type. Integers
// accept decimal or 0x-prefixed hex, byte types 0x-prefixed hex, and arrays a
// JSON list ("[1, 2]") or a comma separated list ("1,2").
func ParseArg(typ abi.Type, s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	switch typ.T {
	case abi.StringTy:
		return s, nil
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return common.HexToAddress(s), nil
	case abi.UintTy, abi.IntTy:
		return parseInt(typ, s)
	case abi.BytesTy:
		return hexutil.Decode(s)
	case abi.FixedBytesTy:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf("%d bytes do not fit bytes%d", len(b), typ.Size)
		}
		v := reflect.New(typ.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	case abi.SliceTy, abi.ArrayTy:
		return parseList(typ, s)
	}
	return nil, fmt.Errorf("cannot parse %s from text", typ)
}

func parseInt(typ abi.Type, s string) (interface{}, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if typ.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > typ.Size {
			return nil, fmt.Errorf("%s out of range for %s", n, typ)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s out of range for %s", n, typ)
		}
	}
	v := reflect.New(typ.GetType()).Elem()
	switch v.Kind() {
	case reflect.Ptr:
		return n, nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(n.Uint64())
	default:
		if !n.IsInt64() {
			return nil, fmt.Errorf("%s out of range for %s", n, typ)
		}
		v.SetInt(n.Int64())
	}
	return v.Interface(), nil
}

func parseList(typ abi.Type, s string) (interface{}, error) {
	var items []string
	if strings.HasPrefix(s, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("invalid list: %v", err)
		}
		for _, r := range raw {
			var str string
			if err := json.Unmarshal(r, &str); err == nil {
				items = append(items, str)
			} else {
				items = append(items, string(r))
			}
		}
	} else if s != "" {
		items = strings.Split(s, ",")
	}
	var v reflect.Value
	if typ.T == abi.ArrayTy {
		if len(items) != typ.Size {
			return nil, fmt.Errorf("have %d elements, %s needs %d", len(items), typ, typ.Size)
		}
		v = reflect.New(typ.GetType()).Elem()
	} else {
		v = reflect.MakeSlice(typ.GetType(), len(items), len(items))
	}
	for i, item := range items {
		elem, err := ParseArg(*typ.Elem, item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %v", i, err)
		}
		v.Index(i).Set(reflect.ValueOf(elem))
	}
	return v.Interface(), nil
}
