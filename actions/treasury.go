// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
	"github.com/ava-labs/hyperdex/timelock"
)

var (
	_ Action = (*SetTreasury)(nil)
	_ Action = (*CollectTreasury)(nil)
)

// SetTreasury nominates the account that receives protocol fees. The
// nomination only becomes payable after the treasury delay, and a new
// nomination restarts the clock.
type SetTreasury struct {
	Treasury codec.Address `json:"treasury"`
}

func (s *SetTreasury) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	timestamp int64,
	_ codec.Address,
) (any, error) {
	if !s.Treasury.IsContract() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTreasury, s.Treasury)
	}
	t, err := timelock.Schedule(s.Treasury, timestamp, r.TreasuryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTimelock, err)
	}
	if err := storage.SetTreasury(ctx, mu, t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (*SetTreasury) Size() int {
	return codec.AddressLen
}

func (s *SetTreasury) Marshal(p *codec.Packer) {
	p.PackAddress(s.Treasury)
}

func UnmarshalSetTreasury(p *codec.Packer) (Action, error) {
	var s SetTreasury
	p.UnpackAddress(&s.Treasury)
	return &s, p.Err()
}

// CollectTreasury pays every accrued protocol fee in [Token] to the active
// treasury. The empty token selects the native asset.
type CollectTreasury struct {
	Token codec.Address `json:"token"`
}

type CollectTreasuryResult struct {
	Recipient codec.Address `json:"recipient"`
	Token     codec.Address `json:"token"`
	Amount    uint64        `json:"amount"`
}

func (c *CollectTreasury) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	ext external.Collaborators,
	timestamp int64,
	_ codec.Address,
) (any, error) {
	t, err := storage.GetTreasury(ctx, mu)
	if err != nil {
		return nil, err
	}
	if err := t.Require(timestamp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreasuryInactive, err)
	}
	amount, err := storage.DrainProtocolFees(ctx, mu, c.Token)
	if err != nil {
		return nil, err
	}
	if amount > 0 {
		if err := ext.Settlement.Payout(ctx, t.Address, c.Token, amount); err != nil {
			return nil, collaboratorErr("payout", err)
		}
	}
	return &CollectTreasuryResult{
		Recipient: t.Address,
		Token:     c.Token,
		Amount:    amount,
	}, nil
}

func (*CollectTreasury) Size() int {
	return codec.AddressLen
}

func (c *CollectTreasury) Marshal(p *codec.Packer) {
	p.PackAddress(c.Token)
}

func UnmarshalCollectTreasury(p *codec.Packer) (Action, error) {
	var c CollectTreasury
	p.UnpackAddress(&c.Token)
	return &c, p.Err()
}
