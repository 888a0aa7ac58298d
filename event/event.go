// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
)

var _ Subscription[*Event] = (*SubscriptionFunc[*Event])(nil)

// SubscriptionFactory builds a subscription when the dispatcher starts.
type SubscriptionFactory[T any] interface {
	New() (Subscription[T], error)
}

// Subscription consumes committed events. Accept is only ever called after
// the command's state changes are final.
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

// SubscriptionFunc adapts a function into a Subscription (and into its own
// factory).
type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
}

func (s SubscriptionFunc[T]) New() (Subscription[T], error) {
	return s, nil
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (SubscriptionFunc[_]) Close() error {
	return nil
}

// NotifyAll delivers [e] to every subscriber, even after one fails.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every subscriber and joins their errors.
func CloseAll[T any](subs ...Subscription[T]) error {
	errs := make([]error, 0, len(subs))
	for _, sub := range subs {
		errs = append(errs, sub.Close())
	}
	return errors.Join(errs...)
}
