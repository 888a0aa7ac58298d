// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
	"github.com/ava-labs/hyperdex/timelock"
)

const week = int64(7 * 24 * time.Hour / time.Millisecond)

func TestSetTreasury(t *testing.T) {
	ctx := context.Background()
	treasury := codectest.NewContractAddress()
	other := codectest.NewContractAddress()
	now := int64(1_700_000_000_000)

	tests := []ActionTest{
		{
			Name:        "bare key",
			Action:      &SetTreasury{Treasury: alice},
			ExpectedErr: ErrInvalidTreasury,
		},
		{
			Name:        "empty",
			Action:      &SetTreasury{Treasury: codec.EmptyAddress},
			ExpectedErr: ErrInvalidTreasury,
		},
		{
			Name:        "activation past the end of time",
			Action:      &SetTreasury{Treasury: treasury},
			Timestamp:   math.MaxInt64 - 1_000,
			ExpectedErr: ErrInvalidTimelock,
		},
		{
			Name:      "schedules a week out",
			Action:    &SetTreasury{Treasury: treasury},
			Timestamp: now,
			ExpectedOutput: &timelock.Treasury{
				Address:     treasury,
				ActivatesAt: now + week,
			},
		},
		{
			Name:      "overwrite restarts the clock",
			Action:    &SetTreasury{Treasury: other},
			Timestamp: now + week - 1,
			State: func() state.Mutable {
				mu := state.NewInMemoryStore()
				require.NoError(t, storage.SetTreasury(ctx, mu, timelock.Treasury{Address: treasury, ActivatesAt: now + week}))
				return mu
			}(),
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				tr, err := storage.GetTreasury(ctx, mu)
				require.NoError(t, err)
				require.Equal(t, other, tr.Address)
				require.Equal(t, now+2*week-1, tr.ActivatesAt)
				require.Equal(t, timelock.Pending, tr.Status(now+week))
			},
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestCollectTreasury(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	treasury := codectest.NewContractAddress()
	now := int64(1_700_000_000_000)

	withTreasury := func(fees uint64) state.Mutable {
		mu := state.NewInMemoryStore()
		require.NoError(t, storage.SetTreasury(ctx, mu, timelock.Treasury{Address: treasury, ActivatesAt: now + week}))
		if fees > 0 {
			_, err := storage.AccrueProtocolFees(ctx, mu, codec.EmptyAddress, fees)
			require.NoError(t, err)
		}
		return mu
	}
	settlement := external.NewMockSettlement(ctrl)
	ext := external.Collaborators{Settlement: settlement}

	payoutFailure := external.NewMockSettlement(ctrl)
	payoutFailure.EXPECT().Payout(gomock.Any(), treasury, codec.EmptyAddress, uint64(5)).Return(errors.New("paused"))

	settlement.EXPECT().Payout(gomock.Any(), treasury, codec.EmptyAddress, uint64(250)).Return(nil)

	tests := []ActionTest{
		{
			Name:        "unset",
			Action:      &CollectTreasury{},
			Ext:         ext,
			Timestamp:   now,
			ExpectedErr: timelock.ErrTreasuryUnset,
		},
		{
			Name:        "one millisecond early",
			Action:      &CollectTreasury{},
			State:       withTreasury(250),
			Ext:         ext,
			Timestamp:   now + week - 1,
			ExpectedErr: ErrTreasuryInactive,
		},
		{
			Name:        "one second early",
			Action:      &CollectTreasury{},
			State:       withTreasury(250),
			Ext:         ext,
			Timestamp:   now + week - 1_000,
			ExpectedErr: timelock.ErrTreasuryPending,
		},
		{
			Name:      "exactly at activation",
			Action:    &CollectTreasury{Token: codec.EmptyAddress},
			State:     withTreasury(250),
			Ext:       ext,
			Timestamp: now + week,
			ExpectedOutput: &CollectTreasuryResult{
				Recipient: treasury,
				Token:     codec.EmptyAddress,
				Amount:    250,
			},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				fees, err := storage.GetProtocolFees(ctx, mu, codec.EmptyAddress)
				require.NoError(t, err)
				require.Zero(t, fees)
			},
		},
		{
			Name:      "nothing accrued skips payout",
			Action:    &CollectTreasury{Token: tokenA},
			State:     withTreasury(0),
			Ext:       ext,
			Timestamp: now + week + 1_000,
			ExpectedOutput: &CollectTreasuryResult{
				Recipient: treasury,
				Token:     tokenA,
			},
		},
		{
			Name:        "payout failure",
			Action:      &CollectTreasury{},
			State:       withTreasury(5),
			Ext:         external.Collaborators{Settlement: payoutFailure},
			Timestamp:   now + 2*week,
			ExpectedErr: ErrExternalCapability,
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
