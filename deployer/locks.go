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
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// AccountLocks hands out one mutex per deployer account. The node assigns
// nonces to eth_sendTransaction calls, holding the lock from submission until
// the receipt keeps two deployments of this process from racing for one.
// AccountLocks 为每个部署账户管理一个互斥锁，防止同一进程内的并发部署争用同一个 nonce。
type AccountLocks struct {
	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

// NewAccountLocks creates an empty lock table.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[common.Address]*sync.Mutex)}
}

func (l *AccountLocks) lock(address common.Address) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks == nil {
		l.locks = make(map[common.Address]*sync.Mutex)
	}
	if _, ok := l.locks[address]; !ok {
		l.locks[address] = new(sync.Mutex)
	}
	return l.locks[address]
}

// Lock blocks until address is free and returns the function releasing it.
func (l *AccountLocks) Lock(address common.Address) (unlock func()) {
	m := l.lock(address)
	m.Lock()
	return m.Unlock
}
