// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
	"github.com/ava-labs/hyperdex/timelock"
	"github.com/ava-labs/hyperdex/trace"
)

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	sudo := codectest.NewContractAddress()
	authority := codectest.NewContractAddress()
	treasury := codectest.NewContractAddress()
	g := NewDefaultGenesis(sudo, authority)
	g.TakeRate = 32
	g.Treasury = treasury
	g.Templates = []*TemplateAllocation{{
		Index:        36,
		FeeRate:      30,
		TickSize:     1,
		PriceFloor:   uint256.NewInt(1),
		PriceCeiling: uint256.NewInt(1 << 60),
	}}

	mu := state.NewInMemoryStore()
	require.NoError(g.InitializeState(ctx, trace.Noop("test"), actions.DefaultRules(), mu))

	roles, err := storage.GetRoles(ctx, mu)
	require.NoError(err)
	require.Equal(storage.Roles{Authority: authority, Sudo: sudo}, roles)

	mode, err := emergency.Load(ctx, mu)
	require.NoError(err)
	require.Equal(emergency.Baseline, mode)

	rate, err := storage.GetTakeRate(ctx, mu)
	require.NoError(err)
	require.Equal(uint8(32), rate)

	tmpl, exists, err := storage.GetTemplate(ctx, mu, 36)
	require.NoError(err)
	require.True(exists)
	require.Equal(uint16(30), tmpl.FeeRate)

	tr, err := storage.GetTreasury(ctx, mu)
	require.NoError(err)
	require.Equal(timelock.Active, tr.Status(0))

	require.ErrorIs(g.InitializeState(ctx, trace.Noop("test"), actions.DefaultRules(), mu), ErrAlreadyInitialized)
}

func TestInitializeStateRejects(t *testing.T) {
	ctx := context.Background()
	sudo := codectest.NewContractAddress()

	tests := []struct {
		name    string
		genesis *Genesis
		err     error
	}{
		{
			name:    "no sudo",
			genesis: NewDefaultGenesis(codec.EmptyAddress, codec.EmptyAddress),
			err:     ErrMissingSudo,
		},
		{
			name: "take rate above maximum",
			genesis: func() *Genesis {
				g := NewDefaultGenesis(sudo, sudo)
				g.TakeRate = 200
				return g
			}(),
			err: actions.ErrInvalidTakeRate,
		},
		{
			name: "zero tick template",
			genesis: func() *Genesis {
				g := NewDefaultGenesis(sudo, sudo)
				g.Templates = []*TemplateAllocation{{Index: 1}}
				return g
			}(),
			err: actions.ErrInvalidTickSize,
		},
		{
			name: "bare key treasury",
			genesis: func() *Genesis {
				g := NewDefaultGenesis(sudo, sudo)
				g.Treasury = codectest.NewExternalAddress()
				return g
			}(),
			err: actions.ErrInvalidTreasury,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.genesis.InitializeState(ctx, trace.Noop("test"), actions.DefaultRules(), state.NewInMemoryStore())
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)
	sudo := codectest.NewContractAddress()

	g, err := Load([]byte(`{"sudo":"` + sudo.String() + `","takeRate":4,"templates":[{"index":2,"tickSize":1,"priceFloor":"1","priceCeiling":"100"}]}`))
	require.NoError(err)
	require.Equal(sudo, g.Sudo)
	require.True(g.HotPathOpen)
	require.Equal(uint8(4), g.TakeRate)
	require.Len(g.Templates, 1)
	require.Equal(uint256.NewInt(100), g.Templates[0].PriceCeiling)
}
