// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"errors"
	"fmt"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/storage"
)

var (
	ErrUnauthorized = errors.New("insufficient authority")
	ErrEmergency    = errors.New("emergency safe mode")
)

// Level is the authority a command requires.
type Level uint8

const (
	// Owner commands act only on the caller's own account. They are
	// authorized by construction and only reachable from the user entry point.
	Owner Level = iota
	// General commands need the general authority (or sudo).
	General
	// Sudo commands need the sudo authority.
	Sudo
)

func (l Level) String() string {
	switch l {
	case Owner:
		return "owner"
	case General:
		return "general"
	case Sudo:
		return "sudo"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// Authorize checks a protocol command. In safe mode only sudo-level commands
// are consulted at all.
func Authorize(caller codec.Address, level Level, mode emergency.Mode, roles storage.Roles) error {
	if mode.InSafeMode && level != Sudo {
		return fmt.Errorf("%w: %s command during safe mode", ErrUnauthorized, level)
	}
	if caller == codec.EmptyAddress {
		return fmt.Errorf("%w: empty caller", ErrUnauthorized)
	}
	switch level {
	case Sudo:
		if caller == roles.Sudo {
			return nil
		}
	case General:
		if caller == roles.Authority || caller == roles.Sudo {
			return nil
		}
	}
	return fmt.Errorf("%w: %s required", ErrUnauthorized, level)
}

// AuthorizeUser gates the user entry point. It never looks at the payload.
func AuthorizeUser(caller codec.Address, mode emergency.Mode) error {
	if mode.InSafeMode {
		return ErrEmergency
	}
	if caller == codec.EmptyAddress {
		return fmt.Errorf("%w: empty caller", ErrUnauthorized)
	}
	return nil
}
