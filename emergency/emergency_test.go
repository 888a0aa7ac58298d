// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package emergency

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/state"
)

func TestActiveRegistry(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected Registry
	}{
		{Mode{HotPathOpen: true, InSafeMode: false}, FullRegistry},
		{Mode{HotPathOpen: false, InSafeMode: false}, FullRegistry},
		{Mode{HotPathOpen: true, InSafeMode: true}, SafeRegistry},
		{Mode{HotPathOpen: false, InSafeMode: true}, SafeRegistry},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.mode.Active(), "mode %+v", tt.mode)
	}
}

func TestTransitions(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := state.NewInMemoryStore()

	mode, err := Load(ctx, mu)
	require.NoError(err)
	require.Equal(Baseline, mode)

	tr, err := SetSafeMode(ctx, mu, true)
	require.NoError(err)
	require.Equal(Transition{Flag: SafeModeFlag, Previous: false, Current: true}, tr)

	tr, err = SetHotPathOpen(ctx, mu, false)
	require.NoError(err)
	require.Equal(Transition{Flag: HotPathFlag, Previous: true, Current: false}, tr)

	mode, err = Load(ctx, mu)
	require.NoError(err)
	require.Equal(Mode{HotPathOpen: false, InSafeMode: true}, mode)
	require.Equal(SafeRegistry, mode.Active())

	// recovery is a plain flip back
	_, err = SetSafeMode(ctx, mu, false)
	require.NoError(err)
	mode, err = Load(ctx, mu)
	require.NoError(err)
	require.Equal(FullRegistry, mode.Active())
	require.False(mode.HotPathOpen)
}
