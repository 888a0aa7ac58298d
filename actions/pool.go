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

var _ Action = (*InitPool)(nil)

// InitPool creates the (Base, Quote, Index) pool from the template at Index
// and opens its curve at [Price]. The caller pays for the liquidity that is
// locked into the pool forever.
type InitPool struct {
	Base  codec.Address `json:"base"`
	Quote codec.Address `json:"quote"`
	Index uint64        `json:"index"`
	Price *uint256.Int  `json:"price"`

	// WrapNative settles a native base leg in the wrapped native token.
	WrapNative bool `json:"wrapNative"`
}

type InitPoolResult struct {
	Cursor        external.PoolCursor `json:"cursor"`
	InitLiquidity uint64              `json:"initLiquidity"`
	BaseFlow      int64               `json:"baseFlow"`
	QuoteFlow     int64               `json:"quoteFlow"`
}

func (i *InitPool) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	if i.Base.Compare(i.Quote) >= 0 {
		return nil, fmt.Errorf("%w: %s >= %s", ErrUnsortedTokens, i.Base, i.Quote)
	}
	t, exists, err := storage.GetTemplate(ctx, mu, i.Index)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrTemplateNotFound, i.Index)
	}
	if t.Disabled {
		return nil, fmt.Errorf("%w: %d", ErrTemplateDisabled, i.Index)
	}
	_, exists, err = storage.GetPool(ctx, mu, i.Base, i.Quote, i.Index)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s/%s:%d", ErrPoolExists, i.Base, i.Quote, i.Index)
	}
	price := orZero(i.Price)
	if price.IsZero() || price.Lt(t.PriceFloor) || price.Gt(t.PriceCeiling) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]", ErrPriceOutOfRange, price, t.PriceFloor, t.PriceCeiling)
	}
	takeRate, err := storage.GetTakeRate(ctx, mu)
	if err != nil {
		return nil, err
	}
	initLiq, err := storage.GetNewPoolLiquidity(ctx, mu)
	if err != nil {
		return nil, err
	}

	desc := external.PoolDescriptor{
		Base:         i.Base,
		Quote:        i.Quote,
		TemplateIdx:  i.Index,
		FeeRate:      t.FeeRate,
		TickSize:     t.TickSize,
		IsStableSwap: t.IsStableSwap,
	}
	cursor, minLiq, err := ext.Curve.RegisterPool(ctx, desc)
	if err != nil {
		return nil, collaboratorErr("register pool", err)
	}
	// The engine may require more than the protocol minimum.
	initLiq = max(initLiq, minLiq)
	baseFlow, quoteFlow, err := ext.Curve.InitCurve(ctx, cursor, price, initLiq)
	if err != nil {
		return nil, collaboratorErr("init curve", err)
	}
	if i.WrapNative && i.Base == codec.EmptyAddress {
		err = ext.Settlement.SettleWrapped(ctx, actor, i.Base, baseFlow, i.Quote, quoteFlow)
	} else {
		err = ext.Settlement.Settle(ctx, actor, i.Base, baseFlow, i.Quote, quoteFlow)
	}
	if err != nil {
		return nil, collaboratorErr("settle", err)
	}

	pool := &storage.Pool{
		Template: *t,
		TakeRate: takeRate,
		Cursor:   uint64(cursor),
	}
	if err := storage.SetPool(ctx, mu, i.Base, i.Quote, i.Index, pool); err != nil {
		return nil, err
	}
	return &InitPoolResult{
		Cursor:        cursor,
		InitLiquidity: initLiq,
		BaseFlow:      baseFlow,
		QuoteFlow:     quoteFlow,
	}, nil
}

func (*InitPool) Size() int {
	return 2*codec.AddressLen + consts.Uint64Len + consts.Uint256Len + consts.BoolLen
}

func (i *InitPool) Marshal(p *codec.Packer) {
	p.PackAddress(i.Base)
	p.PackAddress(i.Quote)
	p.PackUint64(i.Index)
	p.PackUint256(i.Price)
	p.PackBool(i.WrapNative)
}

func UnmarshalInitPool(p *codec.Packer) (Action, error) {
	var i InitPool
	p.UnpackAddress(&i.Base)
	p.UnpackAddress(&i.Quote)
	i.Index = p.UnpackUint64(false)
	i.Price = p.UnpackUint256()
	i.WrapNative = p.UnpackBool()
	return &i, p.Err()
}
