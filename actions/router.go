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

var _ Action = (*ApproveRouter)(nil)

// ApproveRouter lets [Router] act for the caller on each listed callpath, up
// to [Calls] times. Zero calls revokes. The administrative callpath can never
// be delegated; listing it rejects the whole approval.
type ApproveRouter struct {
	Router    codec.Address `json:"router"`
	Calls     uint32        `json:"calls"`
	Callpaths []uint16      `json:"callpaths"`
}

type ApproveRouterResult struct {
	Router    codec.Address `json:"router"`
	Calls     uint32        `json:"calls"`
	Callpaths []uint16      `json:"callpaths"`
}

func (a *ApproveRouter) Execute(
	ctx context.Context,
	r Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	if a.Router == codec.EmptyAddress {
		return nil, ErrInvalidRouter
	}
	if len(a.Callpaths) == 0 {
		return nil, ErrNoCallpaths
	}
	for _, cp := range a.Callpaths {
		if cp == r.AdminCallpath {
			return nil, fmt.Errorf("%w: %d", ErrAdminCallpath, cp)
		}
	}
	for _, cp := range a.Callpaths {
		if err := storage.SetRouterBudget(ctx, mu, actor, a.Router, cp, a.Calls); err != nil {
			return nil, err
		}
	}
	return &ApproveRouterResult{
		Router:    a.Router,
		Calls:     a.Calls,
		Callpaths: a.Callpaths,
	}, nil
}

func (a *ApproveRouter) Size() int {
	return codec.AddressLen + consts.IntLen + consts.Uint16Len + len(a.Callpaths)*consts.Uint16Len
}

func (a *ApproveRouter) Marshal(p *codec.Packer) {
	p.PackAddress(a.Router)
	p.PackUint32(a.Calls)
	p.PackUint16(uint16(len(a.Callpaths)))
	for _, cp := range a.Callpaths {
		p.PackUint16(cp)
	}
}

func UnmarshalApproveRouter(p *codec.Packer) (Action, error) {
	var a ApproveRouter
	p.UnpackAddress(&a.Router)
	a.Calls = p.UnpackUint32()
	n := int(p.UnpackUint16())
	if err := p.Err(); err != nil {
		return nil, err
	}
	if n > MaxCallpaths {
		return nil, fmt.Errorf("%w: %d callpaths > %d", codec.ErrTooManyItems, n, MaxCallpaths)
	}
	if n > 0 {
		a.Callpaths = make([]uint16, n)
		for i := range a.Callpaths {
			a.Callpaths[i] = p.UnpackUint16()
		}
	}
	return &a, p.Err()
}
