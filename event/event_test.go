// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errAccept = errors.New("accept failed")

func TestNotifyAll(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	seen := 0
	counting := SubscriptionFunc[*Event]{
		AcceptF: func(context.Context, *Event) error {
			seen++
			return nil
		},
	}
	failing := SubscriptionFunc[*Event]{
		AcceptF: func(context.Context, *Event) error {
			return errAccept
		},
	}

	err := NotifyAll(ctx, &Event{Name: "setTreasury"}, counting, failing, counting)
	require.ErrorIs(err, errAccept)
	require.Equal(2, seen)
}

func TestRecorderLimit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	r := NewRecorder(2)

	for i := uint8(0); i < 3; i++ {
		require.NoError(r.Accept(ctx, &Event{Opcode: i}))
	}
	events := r.Events()
	require.Len(events, 2)
	require.Equal(uint8(1), events[0].Opcode)
	require.Equal(uint8(2), events[1].Opcode)
}
