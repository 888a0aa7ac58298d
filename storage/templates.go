// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/state"
)

const templateLen = 2*consts.Uint16Len + 3*consts.ByteLen + 2*consts.Uint256Len + 2*consts.BoolLen

// Template is the parameter bundle new pools are instantiated from.
type Template struct {
	FeeRate       uint16       `json:"feeRate"`
	TickSize      uint16       `json:"tickSize"`
	JITThresh     uint8        `json:"jitThresh"`
	KnockoutFlags uint8        `json:"knockoutFlags"`
	OracleFlags   uint8        `json:"oracleFlags"`
	PriceFloor    *uint256.Int `json:"priceFloor"`
	PriceCeiling  *uint256.Int `json:"priceCeiling"`
	IsStableSwap  bool         `json:"isStableSwap"`
	Disabled      bool         `json:"disabled"`
}

func (t *Template) marshal(p *codec.Packer) {
	p.PackUint16(t.FeeRate)
	p.PackUint16(t.TickSize)
	p.PackByte(t.JITThresh)
	p.PackByte(t.KnockoutFlags)
	p.PackByte(t.OracleFlags)
	p.PackUint256(t.PriceFloor)
	p.PackUint256(t.PriceCeiling)
	p.PackBool(t.IsStableSwap)
	p.PackBool(t.Disabled)
}

func (t *Template) unmarshal(p *codec.Packer) {
	t.FeeRate = p.UnpackUint16()
	t.TickSize = p.UnpackUint16()
	t.JITThresh = p.UnpackByte()
	t.KnockoutFlags = p.UnpackByte()
	t.OracleFlags = p.UnpackByte()
	t.PriceFloor = p.UnpackUint256()
	t.PriceCeiling = p.UnpackUint256()
	t.IsStableSwap = p.UnpackBool()
	t.Disabled = p.UnpackBool()
}

// GetTemplate returns false if no template was ever written at [idx].
func GetTemplate(ctx context.Context, im state.Immutable, idx uint64) (*Template, bool, error) {
	v, exists, err := get(ctx, im, TemplateKey(idx))
	if err != nil || !exists {
		return nil, false, err
	}
	var t Template
	if err := unpack(v, t.unmarshal); err != nil {
		return nil, false, err
	}
	return &t, true, nil
}

func SetTemplate(ctx context.Context, mu state.Mutable, idx uint64, t *Template) error {
	p := codec.NewWriter(templateLen, templateLen)
	t.marshal(p)
	if err := p.Err(); err != nil {
		return err
	}
	return mu.Insert(ctx, TemplateKey(idx), p.Bytes())
}
