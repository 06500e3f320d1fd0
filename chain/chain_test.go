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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"
)

var (
	testAccount = common.HexToAddress("0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1")
	testHash    = common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")
)

// fakeEth serves the eth namespace methods a deployment touches.
type fakeEth struct {
	accounts []common.Address
	balance  *big.Int
	gas      uint64
	gasPrice *big.Int
	receipt  *types.Receipt

	estimated map[string]interface{}
	sent      *TransactionArgs
}

func (s *fakeEth) BlockNumber() hexutil.Uint64 { return 42 }

func (s *fakeEth) Accounts() []common.Address { return s.accounts }

func (s *fakeEth) GetBalance(addr common.Address, block string) (*hexutil.Big, error) {
	if addr != testAccount {
		return (*hexutil.Big)(new(big.Int)), nil
	}
	return (*hexutil.Big)(s.balance), nil
}

func (s *fakeEth) EstimateGas(args map[string]interface{}, block *string) (hexutil.Uint64, error) {
	s.estimated = args
	return hexutil.Uint64(s.gas), nil
}

func (s *fakeEth) GasPrice() *hexutil.Big { return (*hexutil.Big)(s.gasPrice) }

func (s *fakeEth) SendTransaction(args TransactionArgs) (common.Hash, error) {
	if args.Gas == 0 {
		return common.Hash{}, errors.New("intrinsic gas too low")
	}
	s.sent = &args
	return testHash, nil
}

func (s *fakeEth) GetTransactionReceipt(hash common.Hash) *types.Receipt {
	if hash != testHash {
		return nil
	}
	return s.receipt
}

func newTestClient(t *testing.T, svc *fakeEth) *Client {
	t.Helper()
	server := rpc.NewServer()
	if err := server.RegisterName("eth", svc); err != nil {
		t.Fatal(err)
	}
	client := NewClient(rpc.DialInProc(server))
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return client
}

func newFakeEth() *fakeEth {
	return &fakeEth{
		accounts: []common.Address{testAccount, common.HexToAddress("0xffcf8fdee72ac11b5c542428b35eef5769c409f0")},
		balance:  new(big.Int).Mul(big.NewInt(100), big.NewInt(params.Ether)),
		gas:      210000,
		gasPrice: big.NewInt(params.GWei),
	}
}

func TestClient(t *testing.T) {
	svc := newFakeEth()
	svc.receipt = &types.Receipt{
		Status:          types.ReceiptStatusSuccessful,
		TxHash:          testHash,
		ContractAddress: common.HexToAddress("0xe78a0f7e598cc8b0bb87894b0f60dd2a88d6a8ab"),
		GasUsed:         123456,
		BlockNumber:     big.NewInt(7),
		Logs:            []*types.Log{},
	}
	client := newTestClient(t, svc)
	ctx := context.Background()

	head, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(42), head)

	accounts, err := client.Accounts(ctx)
	require.NoError(t, err)
	require.Equal(t, svc.accounts, accounts)

	balance, err := client.BalanceAt(ctx, testAccount, nil)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(svc.balance))

	code := []byte{0x60, 0x80, 0x60, 0x40}
	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{From: testAccount, Data: code})
	require.NoError(t, err)
	require.Equal(t, uint64(210000), gas)
	require.Equal(t, "0x60806040", svc.estimated["input"])
	require.Nil(t, svc.estimated["to"], "creation must not have a recipient")

	price, err := client.SuggestGasPrice(ctx)
	require.NoError(t, err)
	require.Zero(t, price.Cmp(big.NewInt(params.GWei)))

	hash, err := client.SendTransaction(ctx, NewCreation(testAccount, 273000, price, code))
	require.NoError(t, err)
	require.Equal(t, testHash, hash)
	require.NotNil(t, svc.sent)
	require.Equal(t, testAccount, svc.sent.From)
	require.Equal(t, hexutil.Uint64(273000), svc.sent.Gas)
	require.Equal(t, hexutil.Bytes(code), svc.sent.Input)

	receipt, err := client.TransactionReceipt(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, svc.receipt.ContractAddress, receipt.ContractAddress)
	require.Equal(t, uint64(123456), receipt.GasUsed)

	_, err = client.TransactionReceipt(ctx, common.Hash{1})
	require.ErrorIs(t, err, ethereum.NotFound)

	_, err = client.SendTransaction(ctx, TransactionArgs{From: testAccount})
	require.ErrorContains(t, err, "intrinsic gas too low")
}

func TestConnect(t *testing.T) {
	client := newTestClient(t, newFakeEth())
	account, err := NewConnector(client, DefaultConfig).Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, testAccount, account.Address, "first account must be the deployer")
	require.Equal(t, "100", FormatEther(account.Balance))
}

func TestConnectNoAccounts(t *testing.T) {
	svc := newFakeEth()
	svc.accounts = nil
	_, err := NewConnector(newTestClient(t, svc), DefaultConfig).Connect(context.Background())
	require.ErrorIs(t, err, ErrNoAccountsAvailable)
}

func TestConnectBalanceFloor(t *testing.T) {
	tests := []struct {
		balance *big.Int
		ok      bool
	}{
		{big.NewInt(0), false},
		{big.NewInt(params.Ether/100 - 1), false},
		{big.NewInt(params.Ether / 100), true},
		{big.NewInt(params.Ether), true},
	}
	for _, tt := range tests {
		svc := newFakeEth()
		svc.balance = tt.balance
		_, err := NewConnector(newTestClient(t, svc), DefaultConfig).Connect(context.Background())
		if tt.ok {
			require.NoError(t, err, "balance %v", tt.balance)
			continue
		}
		var berr *BalanceError
		require.ErrorAs(t, err, &berr, "balance %v", tt.balance)
		require.ErrorIs(t, err, ErrInsufficientBalance)
		require.Equal(t, StagePreflight, berr.Stage)
		require.Equal(t, testAccount, berr.Account)
		require.Zero(t, berr.Required.Cmp(DefaultConfig.MinBalance))
		require.Contains(t, err.Error(), "0.01 ETH")
	}
}

func TestConnectUnreachable(t *testing.T) {
	// Nothing listens on port 1.
	client, err := Dial(context.Background(), "http://127.0.0.1:1")
	require.NoError(t, err)
	defer client.Close()

	config := Config{Endpoint: "http://127.0.0.1:1"}
	_, err = NewConnector(client, config).Connect(context.Background())
	require.ErrorIs(t, err, ErrConnection)

	var cerr *ConnectionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, config.Endpoint, cerr.Endpoint)
	require.Contains(t, err.Error(), "ganache")
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		wei        *big.Int
		ether, gwe string
	}{
		{big.NewInt(0), "0", "0"},
		{big.NewInt(params.Ether), "1", "1000000000"},
		{big.NewInt(params.Ether / 100), "0.01", "10000000"},
		{big.NewInt(20 * params.GWei), "0.00000002", "20"},
		{big.NewInt(1), "0.000000000000000001", "0.000000001"},
		{big.NewInt(-1500000000000000000), "-1.5", "-1500000000"},
	}
	for _, tt := range tests {
		if have := FormatEther(tt.wei); have != tt.ether {
			t.Errorf("FormatEther(%v): have %s, want %s", tt.wei, have, tt.ether)
		}
		if have := FormatGwei(tt.wei); have != tt.gwe {
			t.Errorf("FormatGwei(%v): have %s, want %s", tt.wei, have, tt.gwe)
		}
	}
}
