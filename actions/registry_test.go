// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/guard"
	"github.com/ava-labs/hyperdex/registry"
)

func TestDefaultRegistries(t *testing.T) {
	require := require.New(t)
	r := defaultRegistries(t)

	require.Len(r.Protocol.Entries(), 12)
	require.Len(r.User.Entries(), 9)

	safe := r.Safe.Entries()
	opcodes := make([]uint8, 0, len(safe))
	for _, e := range safe {
		require.Equal(guard.Sudo, e.Level)
		opcodes = append(opcodes, e.Opcode)
	}
	require.Equal([]uint8{20, 22, 23, 40, 41}, opcodes)

	for _, e := range r.User.Entries() {
		require.Equal(guard.Owner, e.Level)
	}

	e, err := r.Protocol.Lookup(110)
	require.NoError(err)
	require.Equal(SetTemplateName, e.Name)
	require.Equal(guard.General, e.Level)

	_, err = r.Safe.Lookup(110)
	require.ErrorIs(err, registry.ErrInvalidCommand)
	_, err = r.User.Lookup(0)
	require.ErrorIs(err, registry.ErrInvalidCommand)
}

func TestNewRegistriesRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*registry.Opcodes)
		err    error
	}{
		{
			name:   "general command in safe registry",
			mutate: func(o *registry.Opcodes) { o.Safe = append(o.Safe, SetTemplateName) },
			err:    ErrUnsafeCommand,
		},
		{
			name:   "unknown protocol command",
			mutate: func(o *registry.Opcodes) { o.Protocol["mint"] = 200 },
			err:    ErrUnknownCommand,
		},
		{
			name:   "user command on protocol path",
			mutate: func(o *registry.Opcodes) { o.Protocol[InitPoolName] = 201 },
			err:    ErrUnknownCommand,
		},
		{
			name:   "duplicate opcode",
			mutate: func(o *registry.Opcodes) { o.User[ResetNonceName] = 71 },
			err:    registry.ErrInvalidOpcodes,
		},
		{
			name:   "safe command missing from protocol table",
			mutate: func(o *registry.Opcodes) { delete(o.Protocol, SetSafeModeName) },
			err:    registry.ErrInvalidOpcodes,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := DefaultOpcodes()
			tt.mutate(&table)
			_, err := NewRegistries(table)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestRegistriesSharedOpcodes(t *testing.T) {
	require := require.New(t)

	// Opcode spaces are per entry point.
	table := DefaultOpcodes()
	table.User[InitPoolName] = 20
	r, err := NewRegistries(table)
	require.NoError(err)

	e, err := r.User.Lookup(20)
	require.NoError(err)
	require.Equal(InitPoolName, e.Name)
	e, err = r.Protocol.Lookup(20)
	require.NoError(err)
	require.Equal(AuthorityTransferName, e.Name)
}
