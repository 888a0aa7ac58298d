// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

func TestApproveRouter(t *testing.T) {
	ctx := context.Background()
	router := codectest.NewContractAddress()

	noBudget := func(ctx context.Context, t *testing.T, mu state.Mutable) {
		for _, cp := range []uint16{1, 2, DefaultAdminCallpath, 4} {
			calls, err := storage.GetRouterBudget(ctx, mu, alice, router, cp)
			require.NoError(t, err)
			require.Zero(t, calls)
		}
	}

	tests := []ActionTest{
		{
			Name:        "empty router",
			Action:      &ApproveRouter{Calls: 1, Callpaths: []uint16{1}},
			Actor:       alice,
			ExpectedErr: ErrInvalidRouter,
		},
		{
			Name:        "no callpaths",
			Action:      &ApproveRouter{Router: router, Calls: 1},
			Actor:       alice,
			ExpectedErr: ErrNoCallpaths,
		},
		{
			Name:        "admin callpath rejects everything",
			Action:      &ApproveRouter{Router: router, Calls: 5, Callpaths: []uint16{1, 2, DefaultAdminCallpath, 4}},
			Actor:       alice,
			ExpectedErr: ErrAdminCallpath,
			Assertion:   noBudget,
		},
		{
			Name:   "approves each callpath",
			Action: &ApproveRouter{Router: router, Calls: 5, Callpaths: []uint16{1, 4}},
			Actor:  alice,
			ExpectedOutput: &ApproveRouterResult{
				Router:    router,
				Calls:     5,
				Callpaths: []uint16{1, 4},
			},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				for cp, want := range map[uint16]uint32{1: 5, 2: 0, 4: 5} {
					calls, err := storage.GetRouterBudget(ctx, mu, alice, router, cp)
					require.NoError(t, err)
					require.Equal(t, want, calls)
				}
				calls, err := storage.GetRouterBudget(ctx, mu, bob, router, 1)
				require.NoError(t, err)
				require.Zero(t, calls)
			},
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestNonces(t *testing.T) {
	ctx := context.Background()
	salt := codec.Hash{0xaa}

	approving := codectest.NewContractAddress()
	rejecting := codectest.NewContractAddress()
	failing := codectest.NewContractAddress()
	gate := codectest.NewContractAddress()

	var seenArgs []byte
	dir := external.NewMapDirectory()
	dir.Deploy(approving, external.NonceOracleFunc(
		func(_ context.Context, user codec.Address, s [32]byte, nonce uint32, args []byte) (bool, error) {
			seenArgs = args
			return user == alice && s == salt && nonce == 12, nil
		},
	))
	dir.Deploy(rejecting, external.NonceOracleFunc(
		func(context.Context, codec.Address, [32]byte, uint32, []byte) (bool, error) {
			return false, nil
		},
	))
	dir.Deploy(failing, external.NonceOracleFunc(
		func(context.Context, codec.Address, [32]byte, uint32, []byte) (bool, error) {
			return false, errors.New("stale")
		},
	))
	dir.Deploy(gate, external.CondOracleFunc(
		func(_ context.Context, _ codec.Address, args []byte) (bool, error) {
			return len(args) > 0, nil
		},
	))
	ext := external.Collaborators{Directory: dir}

	nonceIs := func(want uint32) func(context.Context, *testing.T, state.Mutable) {
		return func(ctx context.Context, t *testing.T, mu state.Mutable) {
			nonce, err := storage.GetNonce(ctx, mu, alice, salt)
			require.NoError(t, err)
			require.Equal(t, want, nonce)
		}
	}

	tests := []ActionTest{
		{
			Name:           "reset",
			Action:         &ResetNonce{Salt: salt, Nonce: 4},
			Actor:          alice,
			ExpectedOutput: &NonceResult{Salt: salt, Previous: 0, Current: 4},
			Assertion:      nonceIs(4),
		},
		{
			Name:           "conditional reset approved",
			Action:         &ResetNonceCond{Salt: salt, Nonce: 12, Oracle: approving, Args: []byte{1}},
			Ext:            ext,
			Actor:          alice,
			ExpectedOutput: &NonceResult{Salt: salt, Previous: 0, Current: 12},
			Assertion: func(ctx context.Context, t *testing.T, mu state.Mutable) {
				nonceIs(12)(ctx, t, mu)
				require.Equal(t, []byte{1}, seenArgs)
			},
		},
		{
			Name:        "conditional reset rejected",
			Action:      &ResetNonceCond{Salt: salt, Nonce: 12, Oracle: rejecting},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrOracleRejected,
			Assertion:   nonceIs(0),
		},
		{
			Name:        "oracle error",
			Action:      &ResetNonceCond{Salt: salt, Nonce: 12, Oracle: failing},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrCollaborator,
			Assertion:   nonceIs(0),
		},
		{
			Name:        "oracle is a bare key",
			Action:      &ResetNonceCond{Salt: salt, Nonce: 12, Oracle: bob},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrInvalidOracle,
		},
		{
			Name:        "oracle lacks capability",
			Action:      &ResetNonceCond{Salt: salt, Nonce: 12, Oracle: gate},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrOracleUnavailable,
		},
		{
			Name:           "gate passes",
			Action:         &GateOracleCond{Oracle: gate, Args: []byte{1}},
			Ext:            ext,
			Actor:          alice,
			ExpectedOutput: &GateResult{Oracle: gate, Passed: true},
		},
		{
			Name:        "gate blocks",
			Action:      &GateOracleCond{Oracle: gate},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrOracleRejected,
		},
		{
			Name:        "gate without directory",
			Action:      &GateOracleCond{Oracle: gate},
			Actor:       alice,
			ExpectedErr: ErrExternalCapability,
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestSurplus(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	ledger := external.NewMockSurplusLedger(ctrl)
	ext := external.Collaborators{Surplus: ledger}

	ledger.EXPECT().DepositSurplus(gomock.Any(), alice, alice, tokenA, int64(10)).Return(nil)
	ledger.EXPECT().DisburseSurplus(gomock.Any(), alice, bob, codec.EmptyAddress, int64(-1)).Return(nil)
	ledger.EXPECT().TransferSurplus(gomock.Any(), alice, bob, tokenB, int64(3)).Return(errors.New("insufficient surplus"))
	ledger.EXPECT().SidePocketSurplus(gomock.Any(), alice, uint64(0), uint64(2), tokenA, int64(8)).Return(nil)

	tests := []ActionTest{
		{
			Name:        "zero deposit",
			Action:      &DepositSurplus{surplusMove{Token: tokenA}},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrZeroDeposit,
		},
		{
			Name:        "negative deposit",
			Action:      &DepositSurplus{surplusMove{Token: tokenA, Amount: -4}},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrZeroDeposit,
		},
		{
			Name:           "deposit defaults to caller",
			Action:         &DepositSurplus{surplusMove{Token: tokenA, Amount: 10}},
			Ext:            ext,
			Actor:          alice,
			ExpectedOutput: &SurplusFlow{Owner: alice, Recipient: alice, Token: tokenA, Amount: 10},
		},
		{
			Name:           "disburse passes signed amount",
			Action:         &DisburseSurplus{surplusMove{Recipient: bob, Amount: -1}},
			Ext:            ext,
			Actor:          alice,
			ExpectedOutput: &SurplusFlow{Owner: alice, Recipient: bob, Token: codec.EmptyAddress, Amount: -1},
		},
		{
			Name:        "transfer to self",
			Action:      &TransferSurplus{surplusMove{Recipient: alice, Token: tokenB, Amount: 3}},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrSelfTransfer,
		},
		{
			Name:        "transfer rejected by ledger",
			Action:      &TransferSurplus{surplusMove{Recipient: bob, Token: tokenB, Amount: 3}},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrCollaborator,
		},
		{
			Name:        "side pocket to same salt",
			Action:      &SidePocketSurplus{FromSalt: 2, ToSalt: 2, Token: tokenA, Amount: 8},
			Ext:         ext,
			Actor:       alice,
			ExpectedErr: ErrSameSidePocket,
		},
		{
			Name:   "side pocket",
			Action: &SidePocketSurplus{FromSalt: 0, ToSalt: 2, Token: tokenA, Amount: 8},
			Ext:    ext,
			Actor:  alice,
			ExpectedOutput: &SidePocketResult{
				Owner:    alice,
				FromSalt: 0,
				ToSalt:   2,
				Token:    tokenA,
				Amount:   8,
			},
		},
	}
	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}
