// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/json"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/consts"
)

func TestAddress(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	addrStr, err := addr.MarshalText()
	require.NoError(err)

	var parsedAddr Address
	require.NoError(parsedAddr.UnmarshalText(addrStr))
	require.Equal(addr, parsedAddr)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(consts.ExternalAddressID, ids.GenerateTestID())

	addrJSONBytes, err := json.Marshal(addr)
	require.NoError(err)

	var parsedAddr Address
	require.NoError(json.Unmarshal(addrJSONBytes, &parsedAddr))
	require.Equal(addr, parsedAddr)
}

func TestAddressString(t *testing.T) {
	require := require.New(t)
	addr := CreateAddress(consts.ContractAddressID, ids.GenerateTestID())

	originalAddr, err := StringToAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, originalAddr)

	_, err = StringToAddress("0x0102")
	require.ErrorIs(err, ErrInvalidSize)
}

func TestAddressKind(t *testing.T) {
	tests := []struct {
		name     string
		addr     Address
		contract bool
	}{
		{
			name:     "empty",
			addr:     EmptyAddress,
			contract: false,
		},
		{
			name:     "external key",
			addr:     CreateAddress(consts.ExternalAddressID, ids.GenerateTestID()),
			contract: false,
		},
		{
			name:     "contract",
			addr:     CreateAddress(consts.ContractAddressID, ids.GenerateTestID()),
			contract: true,
		},
		{
			name:     "contract kind with empty id",
			addr:     CreateAddress(consts.ContractAddressID, ids.Empty),
			contract: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.contract, tt.addr.IsContract())
		})
	}
}

func TestAddressCompare(t *testing.T) {
	require := require.New(t)
	low := CreateAddress(consts.ContractAddressID, ids.ID{1})
	high := CreateAddress(consts.ContractAddressID, ids.ID{2})
	require.Equal(-1, low.Compare(high))
	require.Equal(1, high.Compare(low))
	require.Zero(low.Compare(low))
	require.Equal(-1, EmptyAddress.Compare(low))
}
