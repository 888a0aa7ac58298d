// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
)

var (
	_ Action = (*DepositSurplus)(nil)
	_ Action = (*DisburseSurplus)(nil)
	_ Action = (*TransferSurplus)(nil)
	_ Action = (*SidePocketSurplus)(nil)
)

// SurplusFlow is the result of every surplus command. Amounts are signed and
// interpreted by the ledger.
type SurplusFlow struct {
	Owner     codec.Address `json:"owner"`
	Recipient codec.Address `json:"recipient"`
	Token     codec.Address `json:"token"`
	Amount    int64         `json:"amount"`
}

// recipientOr defaults an empty recipient to the caller.
func recipientOr(recipient, actor codec.Address) codec.Address {
	if recipient == codec.EmptyAddress {
		return actor
	}
	return recipient
}

// surplusMove is the shared wire shape of deposit, disburse and transfer.
type surplusMove struct {
	Recipient codec.Address `json:"recipient"`
	Token     codec.Address `json:"token"`
	Amount    int64         `json:"amount"`
}

func (*surplusMove) Size() int {
	return 2*codec.AddressLen + consts.Uint64Len
}

func (s *surplusMove) Marshal(p *codec.Packer) {
	p.PackAddress(s.Recipient)
	p.PackAddress(s.Token)
	p.PackInt64(s.Amount)
}

func (s *surplusMove) unmarshal(p *codec.Packer) {
	p.UnpackAddress(&s.Recipient)
	p.UnpackAddress(&s.Token)
	s.Amount = p.UnpackInt64()
}

// DepositSurplus moves tokens from the caller into [Recipient]'s surplus
// balance.
type DepositSurplus struct {
	surplusMove
}

func (d *DepositSurplus) Execute(
	ctx context.Context,
	_ Rules,
	_ state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	if d.Amount <= 0 {
		return nil, ErrZeroDeposit
	}
	recipient := recipientOr(d.Recipient, actor)
	if err := ext.Surplus.DepositSurplus(ctx, actor, recipient, d.Token, d.Amount); err != nil {
		return nil, collaboratorErr("deposit surplus", err)
	}
	return &SurplusFlow{Owner: actor, Recipient: recipient, Token: d.Token, Amount: d.Amount}, nil
}

func UnmarshalDepositSurplus(p *codec.Packer) (Action, error) {
	var d DepositSurplus
	d.unmarshal(p)
	return &d, p.Err()
}

// DisburseSurplus pays the caller's surplus out to [Recipient].
type DisburseSurplus struct {
	surplusMove
}

func (d *DisburseSurplus) Execute(
	ctx context.Context,
	_ Rules,
	_ state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	recipient := recipientOr(d.Recipient, actor)
	if err := ext.Surplus.DisburseSurplus(ctx, actor, recipient, d.Token, d.Amount); err != nil {
		return nil, collaboratorErr("disburse surplus", err)
	}
	return &SurplusFlow{Owner: actor, Recipient: recipient, Token: d.Token, Amount: d.Amount}, nil
}

func UnmarshalDisburseSurplus(p *codec.Packer) (Action, error) {
	var d DisburseSurplus
	d.unmarshal(p)
	return &d, p.Err()
}

// TransferSurplus moves surplus between two internal balances.
type TransferSurplus struct {
	surplusMove
}

func (t *TransferSurplus) Execute(
	ctx context.Context,
	_ Rules,
	_ state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	if t.Recipient == codec.EmptyAddress || t.Recipient == actor {
		return nil, ErrSelfTransfer
	}
	if err := ext.Surplus.TransferSurplus(ctx, actor, t.Recipient, t.Token, t.Amount); err != nil {
		return nil, collaboratorErr("transfer surplus", err)
	}
	return &SurplusFlow{Owner: actor, Recipient: t.Recipient, Token: t.Token, Amount: t.Amount}, nil
}

func UnmarshalTransferSurplus(p *codec.Packer) (Action, error) {
	var t TransferSurplus
	t.unmarshal(p)
	return &t, p.Err()
}

// SidePocketSurplus moves surplus between two salted sub-accounts of the
// caller.
type SidePocketSurplus struct {
	FromSalt uint64        `json:"fromSalt"`
	ToSalt   uint64        `json:"toSalt"`
	Token    codec.Address `json:"token"`
	Amount   int64         `json:"amount"`
}

type SidePocketResult struct {
	Owner    codec.Address `json:"owner"`
	FromSalt uint64        `json:"fromSalt"`
	ToSalt   uint64        `json:"toSalt"`
	Token    codec.Address `json:"token"`
	Amount   int64         `json:"amount"`
}

func (s *SidePocketSurplus) Execute(
	ctx context.Context,
	_ Rules,
	_ state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	if s.FromSalt == s.ToSalt {
		return nil, ErrSameSidePocket
	}
	if err := ext.Surplus.SidePocketSurplus(ctx, actor, s.FromSalt, s.ToSalt, s.Token, s.Amount); err != nil {
		return nil, collaboratorErr("side pocket surplus", err)
	}
	return &SidePocketResult{
		Owner:    actor,
		FromSalt: s.FromSalt,
		ToSalt:   s.ToSalt,
		Token:    s.Token,
		Amount:   s.Amount,
	}, nil
}

func (*SidePocketSurplus) Size() int {
	return 2*consts.Uint64Len + codec.AddressLen + consts.Uint64Len
}

func (s *SidePocketSurplus) Marshal(p *codec.Packer) {
	p.PackUint64(s.FromSalt)
	p.PackUint64(s.ToSalt)
	p.PackAddress(s.Token)
	p.PackInt64(s.Amount)
}

func UnmarshalSidePocketSurplus(p *codec.Packer) (Action, error) {
	var s SidePocketSurplus
	s.FromSalt = p.UnpackUint64(false)
	s.ToSalt = p.UnpackUint64(false)
	p.UnpackAddress(&s.Token)
	s.Amount = p.UnpackInt64()
	return &s, p.Err()
}
