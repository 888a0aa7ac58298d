// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
)

// NewRandomAddress returns a random address of [kind]
// for use during testing
func NewRandomAddress(kind uint8) codec.Address {
	return codec.CreateAddress(kind, ids.GenerateTestID())
}

// NewContractAddress returns a random contract address.
func NewContractAddress() codec.Address {
	return NewRandomAddress(consts.ContractAddressID)
}

// NewExternalAddress returns a random bare key address.
func NewExternalAddress() codec.Address {
	return NewRandomAddress(consts.ExternalAddressID)
}
