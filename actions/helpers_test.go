// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

// ActionTest is a single parameterized test. It calls Execute on the action
// with the passed parameters and checks that all assertions pass.
type ActionTest struct {
	Name string

	Action Action

	Rules     *Rules
	State     state.Mutable
	Ext       external.Collaborators
	Timestamp int64
	Actor     codec.Address

	ExpectedOutput any
	ExpectedErr    error

	Assertion func(context.Context, *testing.T, state.Mutable)
}

func (test *ActionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		rules := DefaultRules()
		if test.Rules != nil {
			rules = *test.Rules
		}
		mu := test.State
		if mu == nil {
			mu = state.NewInMemoryStore()
		}
		output, err := test.Action.Execute(ctx, rules, mu, test.Ext, test.Timestamp, test.Actor)

		require.ErrorIs(err, test.ExpectedErr)
		if test.ExpectedErr != nil {
			require.Nil(output)
		} else if test.ExpectedOutput != nil {
			require.Equal(test.ExpectedOutput, output)
		}
		if test.Assertion != nil {
			test.Assertion(ctx, t, mu)
		}
	})
}

var (
	sudo      = codectest.NewContractAddress()
	authority = codectest.NewContractAddress()
	alice     = codectest.NewExternalAddress()
	bob       = codectest.NewExternalAddress()

	tokenA = codectest.NewContractAddress()
	tokenB = codectest.NewContractAddress()
)

// sortedPair returns two tokens with base < quote.
func sortedPair() (codec.Address, codec.Address) {
	if tokenA.Compare(tokenB) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

func testTemplate() *storage.Template {
	return &storage.Template{
		FeeRate:      30,
		TickSize:     4,
		JITThresh:    2,
		PriceFloor:   uint256.NewInt(100),
		PriceCeiling: uint256.NewInt(1_000_000),
	}
}

// seeded returns a store holding roles, a template at index 36 and an
// optional pool built from it.
func seeded(t *testing.T, withPool bool) *state.InMemoryStore {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()
	require.NoError(storage.SetSudo(ctx, mu, sudo))
	require.NoError(storage.SetAuthority(ctx, mu, authority))
	require.NoError(storage.SetTemplate(ctx, mu, 36, testTemplate()))
	require.NoError(storage.SetNewPoolLiquidity(ctx, mu, 1_000))
	if withPool {
		base, quote := sortedPair()
		require.NoError(storage.SetPool(ctx, mu, base, quote, 36, &storage.Pool{
			Template: *testTemplate(),
			TakeRate: 8,
			Cursor:   1,
		}))
	}
	return mu
}
