// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

// Immutable returns database.ErrNotFound for missing keys.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Batch collects writes that become visible together on [Write].
type Batch interface {
	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
	Write() error
}

// Batcher is a Mutable that can apply a set of writes atomically.
type Batcher interface {
	Mutable

	NewBatch() Batch
}
