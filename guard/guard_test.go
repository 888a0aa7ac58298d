// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package guard

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/storage"
)

var (
	authority = codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	sudo      = codec.CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	stranger  = codec.CreateAddress(consts.ExternalAddressID, ids.GenerateTestID())
	roles     = storage.Roles{Authority: authority, Sudo: sudo}

	normal = emergency.Baseline
	safe   = emergency.Mode{HotPathOpen: true, InSafeMode: true}
	closed = emergency.Mode{HotPathOpen: false}
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name        string
		caller      codec.Address
		level       Level
		mode        emergency.Mode
		expectedErr error
	}{
		{"sudo runs sudo", sudo, Sudo, normal, nil},
		{"authority cannot run sudo", authority, Sudo, normal, ErrUnauthorized},
		{"stranger cannot run sudo", stranger, Sudo, normal, ErrUnauthorized},
		{"authority runs general", authority, General, normal, nil},
		{"sudo runs general", sudo, General, normal, nil},
		{"stranger cannot run general", stranger, General, normal, ErrUnauthorized},
		{"empty caller rejected", codec.EmptyAddress, General, normal, ErrUnauthorized},
		{"owner level is never a protocol level", authority, Owner, normal, ErrUnauthorized},
		{"hot path closed does not gate general", authority, General, closed, nil},
		{"safe mode keeps sudo", sudo, Sudo, safe, nil},
		{"safe mode denies general to authority", authority, General, safe, ErrUnauthorized},
		{"safe mode denies general to sudo", sudo, General, safe, ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, Authorize(tt.caller, tt.level, tt.mode, roles), tt.expectedErr)
		})
	}
}

func TestAuthorizeEmptyRoles(t *testing.T) {
	// an unset role must never match an unset caller
	require.ErrorIs(t, Authorize(codec.EmptyAddress, Sudo, normal, storage.Roles{}), ErrUnauthorized)
}

func TestAuthorizeUser(t *testing.T) {
	require := require.New(t)
	require.NoError(AuthorizeUser(stranger, normal))
	require.NoError(AuthorizeUser(stranger, closed))
	require.ErrorIs(AuthorizeUser(stranger, safe), ErrEmergency)
	require.ErrorIs(AuthorizeUser(sudo, safe), ErrEmergency)
	require.ErrorIs(AuthorizeUser(codec.EmptyAddress, normal), ErrUnauthorized)
}
