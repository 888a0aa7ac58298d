// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

var (
	_ Action = (*SetTakeRate)(nil)
	_ Action = (*SetRelayerTakeRate)(nil)
	_ Action = (*ResyncTakeRate)(nil)
	_ Action = (*SetNewPoolLiq)(nil)
)

// RateChange is the result of every global parameter update.
type RateChange struct {
	Previous uint64 `json:"previous"`
	Current  uint64 `json:"current"`
}

func checkTakeRate(r Rules, rate uint8) error {
	if rate > r.MaxTakeRate {
		return fmt.Errorf("%w: %d > %d", ErrInvalidTakeRate, rate, r.MaxTakeRate)
	}
	return nil
}

// SetTakeRate sets the protocol share of swap fees for pools created from now
// on. Existing pools pick it up through ResyncTakeRate.
type SetTakeRate struct {
	Rate uint8 `json:"rate"`
}

func (s *SetTakeRate) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if err := checkTakeRate(r, s.Rate); err != nil {
		return nil, err
	}
	prev, err := storage.GetTakeRate(ctx, mu)
	if err != nil {
		return nil, err
	}
	if err := storage.SetTakeRate(ctx, mu, s.Rate); err != nil {
		return nil, err
	}
	return &RateChange{Previous: uint64(prev), Current: uint64(s.Rate)}, nil
}

func (*SetTakeRate) Size() int {
	return consts.ByteLen
}

func (s *SetTakeRate) Marshal(p *codec.Packer) {
	p.PackByte(s.Rate)
}

func UnmarshalSetTakeRate(p *codec.Packer) (Action, error) {
	var s SetTakeRate
	s.Rate = p.UnpackByte()
	return &s, p.Err()
}

// SetRelayerTakeRate sets the share of fees paid to relayers.
type SetRelayerTakeRate struct {
	Rate uint8 `json:"rate"`
}

func (s *SetRelayerTakeRate) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if err := checkTakeRate(r, s.Rate); err != nil {
		return nil, err
	}
	prev, err := storage.GetRelayerTakeRate(ctx, mu)
	if err != nil {
		return nil, err
	}
	if err := storage.SetRelayerTakeRate(ctx, mu, s.Rate); err != nil {
		return nil, err
	}
	return &RateChange{Previous: uint64(prev), Current: uint64(s.Rate)}, nil
}

func (*SetRelayerTakeRate) Size() int {
	return consts.ByteLen
}

func (s *SetRelayerTakeRate) Marshal(p *codec.Packer) {
	p.PackByte(s.Rate)
}

func UnmarshalSetRelayerTakeRate(p *codec.Packer) (Action, error) {
	var s SetRelayerTakeRate
	s.Rate = p.UnpackByte()
	return &s, p.Err()
}

// ResyncTakeRate copies the current protocol take rate into one pool.
type ResyncTakeRate struct {
	Base  codec.Address `json:"base"`
	Quote codec.Address `json:"quote"`
	Index uint64        `json:"index"`
}

func (rs *ResyncTakeRate) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	pool, err := loadPool(ctx, mu, rs.Base, rs.Quote, rs.Index)
	if err != nil {
		return nil, err
	}
	rate, err := storage.GetTakeRate(ctx, mu)
	if err != nil {
		return nil, err
	}
	res := &RateChange{Previous: uint64(pool.TakeRate), Current: uint64(rate)}
	pool.TakeRate = rate
	if err := storage.SetPool(ctx, mu, rs.Base, rs.Quote, rs.Index, pool); err != nil {
		return nil, err
	}
	return res, nil
}

func (*ResyncTakeRate) Size() int {
	return 2*codec.AddressLen + consts.Uint64Len
}

func (rs *ResyncTakeRate) Marshal(p *codec.Packer) {
	p.PackAddress(rs.Base)
	p.PackAddress(rs.Quote)
	p.PackUint64(rs.Index)
}

func UnmarshalResyncTakeRate(p *codec.Packer) (Action, error) {
	var rs ResyncTakeRate
	p.UnpackAddress(&rs.Base)
	p.UnpackAddress(&rs.Quote)
	rs.Index = p.UnpackUint64(false)
	return &rs, p.Err()
}

// SetNewPoolLiq sets the liquidity every new pool locks permanently.
type SetNewPoolLiq struct {
	Liquidity uint64 `json:"liquidity"`
}

func (s *SetNewPoolLiq) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if s.Liquidity == 0 {
		return nil, ErrInvalidNewPoolLiq
	}
	prev, err := storage.GetNewPoolLiquidity(ctx, mu)
	if err != nil {
		return nil, err
	}
	if err := storage.SetNewPoolLiquidity(ctx, mu, s.Liquidity); err != nil {
		return nil, err
	}
	return &RateChange{Previous: prev, Current: s.Liquidity}, nil
}

func (*SetNewPoolLiq) Size() int {
	return consts.Uint64Len
}

func (s *SetNewPoolLiq) Marshal(p *codec.Packer) {
	p.PackUint64(s.Liquidity)
}

func UnmarshalSetNewPoolLiq(p *codec.Packer) (Action, error) {
	var s SetNewPoolLiq
	s.Liquidity = p.UnpackUint64(false)
	return &s, p.Err()
}
