// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package emergency tracks the two process-wide emergency flags and decides
// which command registry is active.
package emergency

import (
	"context"

	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

// Mode is the pair of emergency flags read before every dispatch.
type Mode struct {
	HotPathOpen bool `json:"hotPathOpen"`
	InSafeMode  bool `json:"inSafeMode"`
}

// Baseline is the mode of a freshly initialized exchange.
var Baseline = Mode{HotPathOpen: true}

type Registry uint8

const (
	FullRegistry Registry = iota
	SafeRegistry
)

func (r Registry) String() string {
	if r == SafeRegistry {
		return "safe"
	}
	return "full"
}

// Active returns the registry dispatch must use. Safe mode dominates the hot
// path flag.
func (m Mode) Active() Registry {
	if m.InSafeMode {
		return SafeRegistry
	}
	return FullRegistry
}

// Transition records a single flag flip.
type Transition struct {
	Flag     string `json:"flag"`
	Previous bool   `json:"previous"`
	Current  bool   `json:"current"`
}

const (
	HotPathFlag  = "hotPathOpen"
	SafeModeFlag = "inSafeMode"
)

func Load(ctx context.Context, im state.Immutable) (Mode, error) {
	open, err := storage.GetHotPathOpen(ctx, im)
	if err != nil {
		return Mode{}, err
	}
	safe, err := storage.GetSafeMode(ctx, im)
	if err != nil {
		return Mode{}, err
	}
	return Mode{HotPathOpen: open, InSafeMode: safe}, nil
}

// SetHotPathOpen writes the hot path flag. Setting the current value again is
// allowed and still reported.
func SetHotPathOpen(ctx context.Context, mu state.Mutable, open bool) (Transition, error) {
	prev, err := storage.GetHotPathOpen(ctx, mu)
	if err != nil {
		return Transition{}, err
	}
	if err := storage.SetHotPathOpen(ctx, mu, open); err != nil {
		return Transition{}, err
	}
	return Transition{Flag: HotPathFlag, Previous: prev, Current: open}, nil
}

// SetSafeMode writes the safe mode flag. Leaving safe mode only ever happens
// through another call to this function.
func SetSafeMode(ctx context.Context, mu state.Mutable, enabled bool) (Transition, error) {
	prev, err := storage.GetSafeMode(ctx, mu)
	if err != nil {
		return Transition{}, err
	}
	if err := storage.SetSafeMode(ctx, mu, enabled); err != nil {
		return Transition{}, err
	}
	return Transition{Flag: SafeModeFlag, Previous: prev, Current: enabled}, nil
}
