// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/state"
)

// GetRouterBudget returns the remaining calls [router] may make on behalf of
// [owner] through [callpath].
func GetRouterBudget(ctx context.Context, im state.Immutable, owner, router codec.Address, callpath uint16) (uint32, error) {
	v, exists, err := get(ctx, im, RouterKey(owner, router, callpath))
	if err != nil || !exists {
		return 0, err
	}
	if len(v) != 4 {
		return 0, ErrCorruptValue
	}
	return binary.BigEndian.Uint32(v), nil
}

// SetRouterBudget removes the approval entirely when [calls] is zero.
func SetRouterBudget(ctx context.Context, mu state.Mutable, owner, router codec.Address, callpath uint16, calls uint32) error {
	k := RouterKey(owner, router, callpath)
	if calls == 0 {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, binary.BigEndian.AppendUint32(nil, calls))
}

func GetNonce(ctx context.Context, im state.Immutable, owner codec.Address, salt [32]byte) (uint32, error) {
	v, exists, err := get(ctx, im, NonceKey(owner, salt))
	if err != nil || !exists {
		return 0, err
	}
	if len(v) != 4 {
		return 0, ErrCorruptValue
	}
	return binary.BigEndian.Uint32(v), nil
}

func SetNonce(ctx context.Context, mu state.Mutable, owner codec.Address, salt [32]byte, nonce uint32) error {
	return mu.Insert(ctx, NonceKey(owner, salt), binary.BigEndian.AppendUint32(nil, nonce))
}
