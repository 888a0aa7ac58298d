// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/state"
)

const poolLen = templateLen + consts.ByteLen + consts.Uint64Len

// Pool is an instantiated pool. Its parameters are copied from the template
// at creation, so later template changes never reach it.
type Pool struct {
	Template

	TakeRate uint8  `json:"takeRate"`
	Cursor   uint64 `json:"cursor"`
}

func GetPool(ctx context.Context, im state.Immutable, base, quote codec.Address, idx uint64) (*Pool, bool, error) {
	v, exists, err := get(ctx, im, PoolKey(base, quote, idx))
	if err != nil || !exists {
		return nil, false, err
	}
	var pool Pool
	err = unpack(v, func(p *codec.Packer) {
		pool.Template.unmarshal(p)
		pool.TakeRate = p.UnpackByte()
		pool.Cursor = p.UnpackUint64(false)
	})
	if err != nil {
		return nil, false, err
	}
	return &pool, true, nil
}

func SetPool(ctx context.Context, mu state.Mutable, base, quote codec.Address, idx uint64, pool *Pool) error {
	p := codec.NewWriter(poolLen, poolLen)
	pool.Template.marshal(p)
	p.PackByte(pool.TakeRate)
	p.PackUint64(pool.Cursor)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, PoolKey(base, quote, idx), p.Bytes())
}
