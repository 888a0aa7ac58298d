// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"strings"
)

// ToHex returns the 0x-prefixed hex encoding of [b].
func ToHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

// LoadHex converts a hex string, with or without 0x, into bytes. Returns
// ErrInvalidSize if [expectedSize] is not -1 and does not match.
func LoadHex(s string, expectedSize int) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	bytes, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if expectedSize != -1 && len(bytes) != expectedSize {
		return nil, ErrInvalidSize
	}
	return bytes, nil
}

// Bytes is a byte slice that renders as hex in JSON and logs.
type Bytes []byte

func (b Bytes) String() string {
	return ToHex(b)
}

// MarshalText returns the hex representation of b.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText sets b to the bytes represented by text.
func (b *Bytes) UnmarshalText(text []byte) error {
	bytes, err := LoadHex(string(text), -1)
	if err != nil {
		return err
	}
	*b = bytes
	return nil
}

// Hash is a 32 byte word, such as a nonce salt, that encodes as hex text.
type Hash [32]byte

func (h Hash) String() string {
	return ToHex(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	b, err := LoadHex(string(text), len(h))
	if err != nil {
		return err
	}
	copy(h[:], b)
	return nil
}
