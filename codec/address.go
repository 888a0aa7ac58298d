// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/hyperdex/consts"
)

const AddressLen = 33

// Address is the 33 byte address of an account. The first byte is the
// account kind (see consts.ExternalAddressID and consts.ContractAddressID).
//
// The all-zero address is a valid value. In token fields it selects the
// native asset.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// Kind returns the account kind byte.
func (a Address) Kind() uint8 {
	return a[0]
}

// IsContract reports whether [a] is a non-empty contract-capable account.
func (a Address) IsContract() bool {
	return a != EmptyAddress && a[0] == consts.ContractAddressID
}

// Compare orders addresses byte-wise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// StringToAddress parses a hex address, with or without the 0x prefix.
func StringToAddress(s string) (Address, error) {
	b, err := LoadHex(s, AddressLen)
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %q", err, s)
	}
	return Address(b), nil
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := StringToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
