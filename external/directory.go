// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package external

import (
	"context"
	"sync"

	"github.com/ava-labs/hyperdex/codec"
)

var _ Directory = (*MapDirectory)(nil)

// MapDirectory is an in-memory Directory.
type MapDirectory struct {
	l       sync.RWMutex
	objects map[codec.Address]any
}

func NewMapDirectory() *MapDirectory {
	return &MapDirectory{objects: map[codec.Address]any{}}
}

func (d *MapDirectory) Deploy(addr codec.Address, obj any) {
	d.l.Lock()
	defer d.l.Unlock()

	d.objects[addr] = obj
}

func (d *MapDirectory) Lookup(_ context.Context, addr codec.Address) (any, bool) {
	d.l.RLock()
	defer d.l.RUnlock()

	obj, ok := d.objects[addr]
	return obj, ok
}

// StaticAcceptor answers every authority query with the same value.
type StaticAcceptor bool

func (s StaticAcceptor) AcceptsAuthority(context.Context) bool {
	return bool(s)
}

// NonceOracleFunc adapts a function to NonceOracle.
type NonceOracleFunc func(ctx context.Context, user codec.Address, salt [32]byte, nonce uint32, args []byte) (bool, error)

func (f NonceOracleFunc) CheckNonceSet(ctx context.Context, user codec.Address, salt [32]byte, nonce uint32, args []byte) (bool, error) {
	return f(ctx, user, salt, nonce, args)
}

// CondOracleFunc adapts a function to CondOracle.
type CondOracleFunc func(ctx context.Context, user codec.Address, args []byte) (bool, error)

func (f CondOracleFunc) CheckCond(ctx context.Context, user codec.Address, args []byte) (bool, error) {
	return f(ctx, user, args)
}
