// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/trace"
)

type storeReader struct {
	*state.InMemoryStore
}

func (s storeReader) Read(f func(state.Immutable) error) error {
	return f(s.InMemoryStore)
}

func TestReadState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	store := state.NewInMemoryStore()
	require.NoError(store.Insert(ctx, []byte{1}, []byte{9}))

	s := NewJSONRPCStateServer(trace.Noop("test"), storeReader{store})
	res := new(ReadStateResponse)
	req := httptest.NewRequest("POST", "/", nil)
	require.NoError(s.ReadState(req, &ReadStateRequest{Keys: []codec.Bytes{{1}, {2}}}, res))
	require.Equal([]codec.Bytes{{9}, nil}, res.Values)
	require.Equal([]bool{true, false}, res.Found)

	require.ErrorIs(s.ReadState(req, &ReadStateRequest{Keys: make([]codec.Bytes, MaxKeys+1)}, res), ErrTooManyKeys)
}
