// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/state"
)

var (
	testKey  = []byte("key")
	testKey2 = []byte("key2")
	testVal  = []byte("value")
	testVal2 = []byte("value2")
)

func TestViewReadsThrough(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	parent := state.NewInMemoryStore()
	require.NoError(parent.Insert(ctx, testKey, testVal))

	ts := NewView(parent)
	v, err := ts.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, v)

	_, err = ts.GetValue(ctx, testKey2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestViewIsolatesUntilCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	parent := state.NewInMemoryStore()
	require.NoError(parent.Insert(ctx, testKey, testVal))

	ts := NewView(parent)
	require.NoError(ts.Insert(ctx, testKey2, testVal2))
	require.NoError(ts.Remove(ctx, testKey))
	require.Equal(2, ts.PendingChanges())

	_, err := ts.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)

	// parent untouched
	v, err := parent.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, v)
	_, err = parent.GetValue(ctx, testKey2)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(ts.Commit(ctx, parent))
	require.Zero(ts.PendingChanges())

	_, err = parent.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	v, err = parent.GetValue(ctx, testKey2)
	require.NoError(err)
	require.Equal(testVal2, v)
}

func TestViewCopiesValues(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ts := NewView(state.NewInMemoryStore())

	val := []byte{1, 2, 3}
	require.NoError(ts.Insert(ctx, testKey, val))
	val[0] = 9

	v, err := ts.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, v)
}

type recordingBatcher struct {
	*state.InMemoryStore
	writes int
}

func (r *recordingBatcher) NewBatch() state.Batch {
	return &recordingBatch{parent: r}
}

type recordingBatch struct {
	parent *recordingBatcher
	ops    []func()
}

func (b *recordingBatch) Insert(_ context.Context, key []byte, value []byte) error {
	b.ops = append(b.ops, func() { _ = b.parent.Insert(context.Background(), key, value) })
	return nil
}

func (b *recordingBatch) Remove(_ context.Context, key []byte) error {
	b.ops = append(b.ops, func() { _ = b.parent.Remove(context.Background(), key) })
	return nil
}

func (b *recordingBatch) Write() error {
	for _, op := range b.ops {
		op()
	}
	b.parent.writes++
	return nil
}

func TestCommitUsesBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	parent := &recordingBatcher{InMemoryStore: state.NewInMemoryStore()}
	require.NoError(parent.Insert(ctx, testKey2, testVal2))

	ts := NewView(parent)
	require.NoError(ts.Insert(ctx, testKey, testVal))
	require.NoError(ts.Remove(ctx, testKey2))
	require.NoError(ts.Commit(ctx, parent))

	require.Equal(1, parent.writes)
	require.Equal(map[string][]byte{string(testKey): testVal}, parent.Storage)
}
