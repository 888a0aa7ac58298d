// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
)

var (
	_ Action = (*SetHotPath)(nil)
	_ Action = (*SetSafeMode)(nil)
)

// SetHotPath opens or closes the direct trading entry point.
type SetHotPath struct {
	Open bool `json:"open"`
}

func (s *SetHotPath) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	t, err := emergency.SetHotPathOpen(ctx, mu, s.Open)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (*SetHotPath) Size() int {
	return consts.BoolLen
}

func (s *SetHotPath) Marshal(p *codec.Packer) {
	p.PackBool(s.Open)
}

func UnmarshalSetHotPath(p *codec.Packer) (Action, error) {
	var s SetHotPath
	s.Open = p.UnpackBool()
	return &s, p.Err()
}

// SetSafeMode enters or leaves the emergency lockdown. It stays in effect
// until another SetSafeMode flips it back.
type SetSafeMode struct {
	Enabled bool `json:"enabled"`
}

func (s *SetSafeMode) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	_ codec.Address,
) (any, error) {
	t, err := emergency.SetSafeMode(ctx, mu, s.Enabled)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (*SetSafeMode) Size() int {
	return consts.BoolLen
}

func (s *SetSafeMode) Marshal(p *codec.Packer) {
	p.PackBool(s.Enabled)
}

func UnmarshalSetSafeMode(p *codec.Packer) (Action, error) {
	var s SetSafeMode
	s.Enabled = p.UnpackBool()
	return &s, p.Err()
}
