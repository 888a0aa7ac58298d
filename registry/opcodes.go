// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"golang.org/x/exp/maps"
)

var ErrInvalidOpcodes = errors.New("invalid opcode table")

// Opcodes assigns wire opcodes to command names for each entry point. Safe
// lists the protocol commands that stay reachable during emergency safe mode.
type Opcodes struct {
	Protocol map[string]uint8 `json:"protocol"`
	User     map[string]uint8 `json:"user"`
	Safe     []string         `json:"safe"`
}

// Verify checks that no opcode is assigned twice within an entry point and
// that every safe command is a protocol command.
func (o Opcodes) Verify() error {
	errs := &wrappers.Errs{}
	errs.Add(
		uniqueOpcodes("protocol", o.Protocol),
		uniqueOpcodes("user", o.User),
	)
	seen := map[string]struct{}{}
	for _, name := range o.Safe {
		if _, ok := o.Protocol[name]; !ok {
			errs.Add(fmt.Errorf("%w: safe command %q is not a protocol command", ErrInvalidOpcodes, name))
		}
		if _, ok := seen[name]; ok {
			errs.Add(fmt.Errorf("%w: safe command %q listed twice", ErrInvalidOpcodes, name))
		}
		seen[name] = struct{}{}
	}
	return errs.Err
}

func uniqueOpcodes(path string, table map[string]uint8) error {
	names := maps.Keys(table)
	slices.Sort(names)
	owners := map[uint8]string{}
	for _, name := range names {
		op := table[name]
		if prev, ok := owners[op]; ok {
			return fmt.Errorf("%w: %s opcode %d assigned to %q and %q", ErrInvalidOpcodes, path, op, prev, name)
		}
		owners[op] = name
	}
	return nil
}

// Clone returns a deep copy of the table.
func (o Opcodes) Clone() Opcodes {
	return Opcodes{
		Protocol: maps.Clone(o.Protocol),
		User:     maps.Clone(o.User),
		Safe:     slices.Clone(o.Safe),
	}
}
