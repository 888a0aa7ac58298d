// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"math"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
)

func TestTreasuryActivation(t *testing.T) {
	addr := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	setAt := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	treasury, err := Schedule(addr, setAt, DefaultDelay)
	require.NoError(t, err)
	activation := setAt + DefaultDelay.Milliseconds()
	require.Equal(t, activation, treasury.ActivatesAt)

	tests := []struct {
		name        string
		now         int64
		status      Status
		expectedErr error
	}{
		{
			name:        "immediately after set",
			now:         setAt,
			status:      Pending,
			expectedErr: ErrTreasuryPending,
		},
		{
			name:        "one second before activation",
			now:         activation - time.Second.Milliseconds(),
			status:      Pending,
			expectedErr: ErrTreasuryPending,
		},
		{
			name:   "exactly at activation",
			now:    activation,
			status: Active,
		},
		{
			name:   "after activation",
			now:    activation + time.Hour.Milliseconds(),
			status: Active,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			require.Equal(tt.status, treasury.Status(tt.now))
			require.ErrorIs(treasury.Require(tt.now), tt.expectedErr)
		})
	}
}

func TestTreasuryUnset(t *testing.T) {
	require := require.New(t)
	var treasury Treasury
	require.Equal(Unset, treasury.Status(1_000))
	require.ErrorIs(treasury.Require(1_000), ErrTreasuryUnset)
}

func TestScheduleRestartsClock(t *testing.T) {
	require := require.New(t)
	first := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	second := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())

	t1, err := Schedule(first, 0, DefaultDelay)
	require.NoError(err)
	t2, err := Schedule(second, time.Hour.Milliseconds(), DefaultDelay)
	require.NoError(err)

	require.Equal(second, t2.Address)
	require.Equal(t1.ActivatesAt+time.Hour.Milliseconds(), t2.ActivatesAt)
	require.Equal(Pending, t2.Status(t1.ActivatesAt))

	_, err = Schedule(first, 0, -time.Second)
	require.ErrorIs(err, ErrInvalidDelay)
}

func TestScheduleBounds(t *testing.T) {
	addr := codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	tests := []struct {
		name        string
		now         int64
		delay       time.Duration
		expectedErr error
	}{
		{
			name:  "latest representable activation",
			now:   math.MaxInt64 - DefaultDelay.Milliseconds(),
			delay: DefaultDelay,
		},
		{
			name:        "activation overflows",
			now:         math.MaxInt64 - 1_000,
			delay:       DefaultDelay,
			expectedErr: ErrInvalidTime,
		},
		{
			name:        "negative timestamp",
			now:         -1,
			delay:       DefaultDelay,
			expectedErr: ErrInvalidTime,
		},
		{
			name:        "negative delay",
			now:         0,
			delay:       -time.Second,
			expectedErr: ErrInvalidDelay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			treasury, err := Schedule(addr, tt.now, tt.delay)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}
			require.Equal(Pending, treasury.Status(tt.now))
			require.Equal(Active, treasury.Status(treasury.ActivatesAt))
		})
	}
}
