// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ava-labs/hyperdex/codec"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// DefaultDelay is the cooldown between assigning a treasury and paying into it.
const DefaultDelay = 7 * 24 * time.Hour

var (
	ErrTreasuryUnset   = errors.New("treasury not set")
	ErrTreasuryPending = errors.New("treasury timelock pending")
	ErrInvalidDelay    = errors.New("invalid timelock delay")
	ErrInvalidTime     = errors.New("invalid timelock start")
)

type Status uint8

const (
	Unset Status = iota
	Pending
	Active
)

func (s Status) String() string {
	switch s {
	case Unset:
		return "unset"
	case Pending:
		return "pending"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Treasury is the payout address and the time (unix ms) it becomes usable.
type Treasury struct {
	Address     codec.Address `json:"address"`
	ActivatesAt int64         `json:"activatesAt"`
}

// Schedule returns the record produced by assigning [addr] at [now]. It
// replaces whatever was pending, so the clock always restarts. An activation
// time past [math.MaxInt64] is rejected rather than wrapped.
func Schedule(addr codec.Address, now int64, delay time.Duration) (Treasury, error) {
	if delay < 0 {
		return Treasury{}, ErrInvalidDelay
	}
	if now < 0 {
		return Treasury{}, fmt.Errorf("%w: negative timestamp %d", ErrInvalidTime, now)
	}
	activatesAt, err := smath.Add(uint64(now), uint64(delay.Milliseconds()))
	if err != nil || activatesAt > math.MaxInt64 {
		return Treasury{}, fmt.Errorf("%w: %d + %s overflows", ErrInvalidTime, now, delay)
	}
	return Treasury{
		Address:     addr,
		ActivatesAt: int64(activatesAt),
	}, nil
}

// Status is evaluated lazily; there is no timer behind it.
func (t Treasury) Status(now int64) Status {
	switch {
	case t.Address == codec.EmptyAddress:
		return Unset
	case now < t.ActivatesAt:
		return Pending
	default:
		return Active
	}
}

// Require returns nil only if the treasury can receive a payout at [now].
func (t Treasury) Require(now int64) error {
	switch t.Status(now) {
	case Unset:
		return ErrTreasuryUnset
	case Pending:
		return fmt.Errorf("%w: %dms remaining", ErrTreasuryPending, t.ActivatesAt-now)
	default:
		return nil
	}
}
