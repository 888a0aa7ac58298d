// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"slices"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperdex/state"
)

var _ state.Mutable = (*TStateView)(nil)

type op struct {
	value  []byte
	delete bool
}

// TStateView buffers every write made by a single command on top of a
// parent state. Nothing reaches the parent until [Commit]; dropping the view
// discards the command's effects.
type TStateView struct {
	parent  state.Immutable
	changes map[string]*op
}

func NewView(parent state.Immutable) *TStateView {
	return &TStateView{
		parent:  parent,
		changes: make(map[string]*op),
	}
}

func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	if o, ok := ts.changes[string(key)]; ok {
		if o.delete {
			return nil, database.ErrNotFound
		}
		return slices.Clone(o.value), nil
	}
	return ts.parent.GetValue(ctx, key)
}

func (ts *TStateView) Insert(_ context.Context, key []byte, value []byte) error {
	ts.changes[string(key)] = &op{value: slices.Clone(value)}
	return nil
}

func (ts *TStateView) Remove(_ context.Context, key []byte) error {
	ts.changes[string(key)] = &op{delete: true}
	return nil
}

// PendingChanges returns the number of keys touched since the view was created.
func (ts *TStateView) PendingChanges() int {
	return len(ts.changes)
}

// Commit writes the buffered changes to [mu] in key order. If [mu] is a
// [state.Batcher] the changes land in a single batch.
func (ts *TStateView) Commit(ctx context.Context, mu state.Mutable) error {
	var w state.Batch = mutableBatch{mu}
	if b, ok := mu.(state.Batcher); ok {
		w = b.NewBatch()
	}
	keys := maps.Keys(ts.changes)
	slices.Sort(keys)
	for _, k := range keys {
		o := ts.changes[k]
		var err error
		if o.delete {
			err = w.Remove(ctx, []byte(k))
		} else {
			err = w.Insert(ctx, []byte(k), o.value)
		}
		if err != nil {
			return err
		}
	}
	if err := w.Write(); err != nil {
		return err
	}
	clear(ts.changes)
	return nil
}

// mutableBatch applies writes directly.
type mutableBatch struct {
	state.Mutable
}

func (mutableBatch) Write() error {
	return nil
}
