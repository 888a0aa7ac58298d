// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/timelock"
)

func TestFlagDefaults(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	open, err := GetHotPathOpen(ctx, mu)
	require.NoError(err)
	require.True(open)
	safe, err := GetSafeMode(ctx, mu)
	require.NoError(err)
	require.False(safe)

	require.NoError(SetHotPathOpen(ctx, mu, false))
	require.NoError(SetSafeMode(ctx, mu, true))
	open, err = GetHotPathOpen(ctx, mu)
	require.NoError(err)
	require.False(open)
	safe, err = GetSafeMode(ctx, mu)
	require.NoError(err)
	require.True(safe)
}

func TestTreasury(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	treasury, err := GetTreasury(ctx, mu)
	require.NoError(err)
	require.Equal(timelock.Unset, treasury.Status(0))

	want := timelock.Treasury{
		Address:     codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID()),
		ActivatesAt: 12_345,
	}
	require.NoError(SetTreasury(ctx, mu, want))
	treasury, err = GetTreasury(ctx, mu)
	require.NoError(err)
	require.Equal(want, treasury)
}

func TestTemplateAndPool(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	_, exists, err := GetTemplate(ctx, mu, 36000)
	require.NoError(err)
	require.False(exists)

	tmpl := &Template{
		FeeRate:       2500,
		TickSize:      16,
		JITThresh:     3,
		KnockoutFlags: 0x24,
		OracleFlags:   1,
		PriceFloor:    uint256.NewInt(1),
		PriceCeiling:  new(uint256.Int).Lsh(uint256.NewInt(1), 100),
		IsStableSwap:  true,
	}
	require.NoError(SetTemplate(ctx, mu, 36000, tmpl))
	got, exists, err := GetTemplate(ctx, mu, 36000)
	require.NoError(err)
	require.True(exists)
	require.Equal(tmpl, got)

	base := codec.EmptyAddress
	quote := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	pool := &Pool{Template: *tmpl, TakeRate: 64, Cursor: 9}
	require.NoError(SetPool(ctx, mu, base, quote, 36000, pool))
	gotPool, exists, err := GetPool(ctx, mu, base, quote, 36000)
	require.NoError(err)
	require.True(exists)
	require.Equal(pool, gotPool)

	_, exists, err = GetPool(ctx, mu, quote, base, 36000)
	require.NoError(err)
	require.False(exists)
}

func TestCorruptValue(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	require.NoError(mu.Insert(ctx, TemplateKey(1), []byte{1, 2, 3}))
	_, _, err := GetTemplate(ctx, mu, 1)
	require.ErrorIs(err, ErrCorruptValue)

	require.NoError(mu.Insert(ctx, safeModeKey, []byte{1, 1}))
	_, err = GetSafeMode(ctx, mu)
	require.ErrorIs(err, ErrCorruptValue)
}

func TestRouterBudget(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()
	owner := codec.CreateAddress(consts.ExternalAddressID, ids.GenerateTestID())
	router := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())

	require.NoError(SetRouterBudget(ctx, mu, owner, router, 1, 10))
	calls, err := GetRouterBudget(ctx, mu, owner, router, 1)
	require.NoError(err)
	require.Equal(uint32(10), calls)

	calls, err = GetRouterBudget(ctx, mu, owner, router, 2)
	require.NoError(err)
	require.Zero(calls)

	require.NoError(SetRouterBudget(ctx, mu, owner, router, 1, 0))
	require.Empty(mu.Storage)
}

func TestProtocolFees(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()
	token := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())

	bal, err := AccrueProtocolFees(ctx, mu, token, 100)
	require.NoError(err)
	require.Equal(uint64(100), bal)
	bal, err = AccrueProtocolFees(ctx, mu, token, 50)
	require.NoError(err)
	require.Equal(uint64(150), bal)

	_, err = AccrueProtocolFees(ctx, mu, token, consts.MaxUint64)
	require.ErrorIs(err, ErrInvalidFees)

	drained, err := DrainProtocolFees(ctx, mu, token)
	require.NoError(err)
	require.Equal(uint64(150), drained)
	bal, err = GetProtocolFees(ctx, mu, token)
	require.NoError(err)
	require.Zero(bal)
}
