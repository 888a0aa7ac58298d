// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/timelock"
)

const treasuryLen = codec.AddressLen + consts.Uint64Len

func GetTreasury(ctx context.Context, im state.Immutable) (timelock.Treasury, error) {
	var t timelock.Treasury
	v, exists, err := get(ctx, im, treasuryKey)
	if err != nil || !exists {
		return t, err
	}
	err = unpack(v, func(p *codec.Packer) {
		p.UnpackAddress(&t.Address)
		t.ActivatesAt = p.UnpackInt64()
	})
	return t, err
}

func SetTreasury(ctx context.Context, mu state.Mutable, t timelock.Treasury) error {
	p := codec.NewWriter(treasuryLen, treasuryLen)
	p.PackAddress(t.Address)
	p.PackInt64(t.ActivatesAt)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, treasuryKey, p.Bytes())
}
