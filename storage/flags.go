// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/hyperdex/state"
)

// The hot path defaults to open and safe mode to off when never written.

func GetHotPathOpen(ctx context.Context, im state.Immutable) (bool, error) {
	v, err := getByte(ctx, im, hotPathKey, 1)
	return v == 1, err
}

func SetHotPathOpen(ctx context.Context, mu state.Mutable, open bool) error {
	return mu.Insert(ctx, hotPathKey, boolByte(open))
}

func GetSafeMode(ctx context.Context, im state.Immutable) (bool, error) {
	v, err := getByte(ctx, im, safeModeKey, 0)
	return v == 1, err
}

func SetSafeMode(ctx context.Context, mu state.Mutable, enabled bool) error {
	return mu.Insert(ctx, safeModeKey, boolByte(enabled))
}

func boolByte(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
