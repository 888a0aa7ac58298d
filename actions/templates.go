// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

var (
	_ Action = (*SetTemplate)(nil)
	_ Action = (*DisableTemplate)(nil)
	_ Action = (*RevisePool)(nil)
)

func validateCurve(r Rules, feeRate, tickSize uint16) error {
	if feeRate > r.MaxFeeRate {
		return fmt.Errorf("%w: %d > %d", ErrInvalidFeeRate, feeRate, r.MaxFeeRate)
	}
	if tickSize == 0 {
		return ErrInvalidTickSize
	}
	return nil
}

// SetTemplate writes (or overwrites) the pool template at [Index]. Writing a
// disabled template enables it again.
type SetTemplate struct {
	Index         uint64       `json:"index"`
	FeeRate       uint16       `json:"feeRate"`
	TickSize      uint16       `json:"tickSize"`
	JITThresh     uint8        `json:"jitThresh"`
	KnockoutFlags uint8        `json:"knockoutFlags"`
	OracleFlags   uint8        `json:"oracleFlags"`
	PriceFloor    *uint256.Int `json:"priceFloor"`
	PriceCeiling  *uint256.Int `json:"priceCeiling"`
	IsStableSwap  bool         `json:"isStableSwap"`
}

func (s *SetTemplate) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if err := validateCurve(r, s.FeeRate, s.TickSize); err != nil {
		return nil, err
	}
	floor, ceiling := orZero(s.PriceFloor), orZero(s.PriceCeiling)
	if floor.Gt(ceiling) {
		return nil, fmt.Errorf("%w: floor %s above ceiling %s", ErrInvalidPriceRange, floor, ceiling)
	}
	if r.MaxSqrtPrice != nil && ceiling.Gt(r.MaxSqrtPrice) {
		return nil, fmt.Errorf("%w: ceiling %s above %s", ErrInvalidPriceRange, ceiling, r.MaxSqrtPrice)
	}
	t := &storage.Template{
		FeeRate:       s.FeeRate,
		TickSize:      s.TickSize,
		JITThresh:     s.JITThresh,
		KnockoutFlags: s.KnockoutFlags,
		OracleFlags:   s.OracleFlags,
		PriceFloor:    floor,
		PriceCeiling:  ceiling,
		IsStableSwap:  s.IsStableSwap,
	}
	if err := storage.SetTemplate(ctx, mu, s.Index, t); err != nil {
		return nil, err
	}
	return t, nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v.Clone()
}

func (*SetTemplate) Size() int {
	return consts.Uint64Len + 2*consts.Uint16Len + 3*consts.ByteLen + 2*consts.Uint256Len + consts.BoolLen
}

func (s *SetTemplate) Marshal(p *codec.Packer) {
	p.PackUint64(s.Index)
	p.PackUint16(s.FeeRate)
	p.PackUint16(s.TickSize)
	p.PackByte(s.JITThresh)
	p.PackByte(s.KnockoutFlags)
	p.PackByte(s.OracleFlags)
	p.PackUint256(s.PriceFloor)
	p.PackUint256(s.PriceCeiling)
	p.PackBool(s.IsStableSwap)
}

func UnmarshalSetTemplate(p *codec.Packer) (Action, error) {
	var s SetTemplate
	s.Index = p.UnpackUint64(false)
	s.FeeRate = p.UnpackUint16()
	s.TickSize = p.UnpackUint16()
	s.JITThresh = p.UnpackByte()
	s.KnockoutFlags = p.UnpackByte()
	s.OracleFlags = p.UnpackByte()
	s.PriceFloor = p.UnpackUint256()
	s.PriceCeiling = p.UnpackUint256()
	s.IsStableSwap = p.UnpackBool()
	return &s, p.Err()
}

// DisableTemplate stops new pools from being created off [Index]. Pools that
// already use it keep their own snapshot and are not touched.
type DisableTemplate struct {
	Index uint64 `json:"index"`
}

func (d *DisableTemplate) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	t, exists, err := storage.GetTemplate(ctx, mu, d.Index)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrTemplateNotFound, d.Index)
	}
	t.Disabled = true
	if err := storage.SetTemplate(ctx, mu, d.Index, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (*DisableTemplate) Size() int {
	return consts.Uint64Len
}

func (d *DisableTemplate) Marshal(p *codec.Packer) {
	p.PackUint64(d.Index)
}

func UnmarshalDisableTemplate(p *codec.Packer) (Action, error) {
	var d DisableTemplate
	d.Index = p.UnpackUint64(false)
	return &d, p.Err()
}

// RevisePool changes the fee and liquidity parameters of a single live pool.
// The template it came from is left as is.
type RevisePool struct {
	Base          codec.Address `json:"base"`
	Quote         codec.Address `json:"quote"`
	Index         uint64        `json:"index"`
	FeeRate       uint16        `json:"feeRate"`
	TickSize      uint16        `json:"tickSize"`
	JITThresh     uint8         `json:"jitThresh"`
	KnockoutFlags uint8         `json:"knockoutFlags"`
}

func (rp *RevisePool) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if err := validateCurve(r, rp.FeeRate, rp.TickSize); err != nil {
		return nil, err
	}
	pool, err := loadPool(ctx, mu, rp.Base, rp.Quote, rp.Index)
	if err != nil {
		return nil, err
	}
	pool.FeeRate = rp.FeeRate
	pool.TickSize = rp.TickSize
	pool.JITThresh = rp.JITThresh
	pool.KnockoutFlags = rp.KnockoutFlags
	if err := storage.SetPool(ctx, mu, rp.Base, rp.Quote, rp.Index, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func loadPool(ctx context.Context, im state.Immutable, base, quote codec.Address, idx uint64) (*storage.Pool, error) {
	pool, exists, err := storage.GetPool(ctx, im, base, quote, idx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s/%s:%d", ErrPoolNotFound, base, quote, idx)
	}
	return pool, nil
}

func (*RevisePool) Size() int {
	return 2*codec.AddressLen + consts.Uint64Len + 2*consts.Uint16Len + 2*consts.ByteLen
}

func (rp *RevisePool) Marshal(p *codec.Packer) {
	p.PackAddress(rp.Base)
	p.PackAddress(rp.Quote)
	p.PackUint64(rp.Index)
	p.PackUint16(rp.FeeRate)
	p.PackUint16(rp.TickSize)
	p.PackByte(rp.JITThresh)
	p.PackByte(rp.KnockoutFlags)
}

func UnmarshalRevisePool(p *codec.Packer) (Action, error) {
	var rp RevisePool
	p.UnpackAddress(&rp.Base)
	p.UnpackAddress(&rp.Quote)
	rp.Index = p.UnpackUint64(false)
	rp.FeeRate = p.UnpackUint16()
	rp.TickSize = p.UnpackUint16()
	rp.JITThresh = p.UnpackByte()
	rp.KnockoutFlags = p.UnpackByte()
	return &rp, p.Err()
}
