// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/state"
)

// Roles are the two privileged identities of the exchange.
type Roles struct {
	Authority codec.Address `json:"authority"`
	Sudo      codec.Address `json:"sudo"`
}

func GetRoles(ctx context.Context, im state.Immutable) (Roles, error) {
	authority, err := getAddress(ctx, im, authorityKey)
	if err != nil {
		return Roles{}, err
	}
	sudo, err := getAddress(ctx, im, sudoKey)
	if err != nil {
		return Roles{}, err
	}
	return Roles{Authority: authority, Sudo: sudo}, nil
}

func SetAuthority(ctx context.Context, mu state.Mutable, addr codec.Address) error {
	return mu.Insert(ctx, authorityKey, addr[:])
}

func SetSudo(ctx context.Context, mu state.Mutable, addr codec.Address) error {
	return mu.Insert(ctx, sudoKey, addr[:])
}
