// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "hyperdex"

	IDLen          = 32
	MaxUint8       = ^uint8(0)
	MaxUint8Offset = 7
	MaxUint        = ^uint(0)
	MaxInt         = int(MaxUint >> 1)
	ByteLen        = 1
	BoolLen        = 1
	Uint16Len      = 2
	IntLen         = 4
	Uint64Len      = 8
	Uint256Len     = 32
	MaxUint64      = ^uint64(0)
)

// Address kinds, stored in the first byte of every address.
const (
	// ExternalAddressID marks a bare key. It cannot hold a role or receive treasury payouts.
	ExternalAddressID uint8 = 0x00
	// ContractAddressID marks an account that can execute code (and so can
	// answer capability queries).
	ContractAddressID uint8 = 0x01
)

// MaxCommandSize bounds every payload accepted by the dispatcher.
const MaxCommandSize = 64 * 1024
