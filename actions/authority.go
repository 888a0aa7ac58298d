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

// Roles a transfer can hand over.
const (
	GeneralRole uint8 = iota
	SudoRole
)

var _ Action = (*AuthorityTransfer)(nil)

// AuthorityTransfer moves a role to [Target]. The target must be a contract
// that explicitly accepts authority, so a role can never be parked on an
// account that cannot use it.
type AuthorityTransfer struct {
	Role   uint8         `json:"role"`
	Target codec.Address `json:"target"`
}

type AuthorityTransferResult struct {
	Role     uint8         `json:"role"`
	Previous codec.Address `json:"previous"`
	Current  codec.Address `json:"current"`
}

func (a *AuthorityTransfer) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	ext external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	if a.Role != GeneralRole && a.Role != SudoRole {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, a.Role)
	}
	if !a.Target.IsContract() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAuthority, a.Target)
	}
	if !acceptsAuthority(ctx, ext.Directory, a.Target) {
		return nil, fmt.Errorf("%w: %s", ErrAuthorityNotAccepted, a.Target)
	}
	roles, err := storage.GetRoles(ctx, mu)
	if err != nil {
		return nil, err
	}
	res := &AuthorityTransferResult{Role: a.Role, Current: a.Target}
	if a.Role == SudoRole {
		res.Previous = roles.Sudo
		err = storage.SetSudo(ctx, mu, a.Target)
	} else {
		res.Previous = roles.Authority
		err = storage.SetAuthority(ctx, mu, a.Target)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func acceptsAuthority(ctx context.Context, dir external.Directory, addr codec.Address) bool {
	if dir == nil {
		return false
	}
	obj, ok := dir.Lookup(ctx, addr)
	if !ok {
		return false
	}
	acceptor, ok := obj.(external.AuthorityAcceptor)
	return ok && acceptor.AcceptsAuthority(ctx)
}

func (*AuthorityTransfer) Size() int {
	return consts.ByteLen + codec.AddressLen
}

func (a *AuthorityTransfer) Marshal(p *codec.Packer) {
	p.PackByte(a.Role)
	p.PackAddress(a.Target)
}

func UnmarshalAuthorityTransfer(p *codec.Packer) (Action, error) {
	var a AuthorityTransfer
	a.Role = p.UnpackByte()
	p.UnpackAddress(&a.Target)
	return &a, p.Err()
}
