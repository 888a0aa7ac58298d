// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/consts"
)

// Packer is a wrapper struct for the Packer struct
// from avalanchego/utils/wrappers/packing.go. Unpacking never fails loudly;
// the first error is recorded and surfaced by [Err] or [Finish].
type Packer struct {
	p *wrappers.Packer
}

// NewReader returns a Packer instance that reads from [src]. [limit] bounds
// the size of any variable-length field.
func NewReader(src []byte, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: src, MaxSize: limit},
	}
}

// NewWriter returns a Packer with [initial] preallocated bytes that never grows
// past [limit].
func NewWriter(initial, limit int) *Packer {
	return &Packer{
		p: &wrappers.Packer{Bytes: make([]byte, 0, initial), MaxSize: limit},
	}
}

// Bytes returns the packed bytes.
func (p *Packer) Bytes() []byte {
	return p.p.Bytes
}

// Offset returns the read position.
func (p *Packer) Offset() int {
	return p.p.Offset
}

// Err returns the first error encountered while packing or unpacking.
func (p *Packer) Err() error {
	return p.p.Err
}

// Empty reports whether every byte of the source has been consumed.
func (p *Packer) Empty() bool {
	return p.p.Offset == len(p.p.Bytes)
}

func (p *Packer) addErr(err error) {
	if p.p.Err == nil {
		p.p.Err = err
	}
}

func (p *Packer) PackByte(b byte) {
	p.p.PackByte(b)
}

func (p *Packer) UnpackByte() byte {
	return p.p.UnpackByte()
}

func (p *Packer) PackUint16(v uint16) {
	p.p.PackShort(v)
}

func (p *Packer) UnpackUint16() uint16 {
	return p.p.UnpackShort()
}

func (p *Packer) PackUint32(v uint32) {
	p.p.PackInt(v)
}

func (p *Packer) UnpackUint32() uint32 {
	return p.p.UnpackInt()
}

func (p *Packer) PackUint64(v uint64) {
	p.p.PackLong(v)
}

// UnpackUint64 unpacks a uint64. If [required] is set a zero value is an error.
func (p *Packer) UnpackUint64(required bool) uint64 {
	v := p.p.UnpackLong()
	if required && v == 0 {
		p.addErr(fmt.Errorf("%w: Uint64 field is not populated", ErrFieldNotPopulated))
	}
	return v
}

func (p *Packer) PackInt64(v int64) {
	p.p.PackLong(uint64(v))
}

func (p *Packer) UnpackInt64() int64 {
	return int64(p.p.UnpackLong())
}

func (p *Packer) PackBool(b bool) {
	p.p.PackBool(b)
}

// UnpackBool rejects any byte other than 0 or 1.
func (p *Packer) UnpackBool() bool {
	return p.p.UnpackBool()
}

func (p *Packer) PackFixedBytes(b []byte) {
	p.p.PackFixedBytes(b)
}

func (p *Packer) UnpackFixedBytes(size int, dest *[]byte) {
	copy((*dest), p.p.UnpackFixedBytes(size))
}

// PackBytes packs [b] behind a uint32 length prefix.
func (p *Packer) PackBytes(b []byte) {
	p.p.PackBytes(b)
}

// UnpackBytes unpacks a length-prefixed field. [limit] caps its size; -1 leaves
// it unbounded.
func (p *Packer) UnpackBytes(limit int, dest *[]byte) {
	size := p.p.UnpackInt()
	if limit >= 0 && int(size) > limit {
		p.addErr(fmt.Errorf("%w: %d > %d", ErrInvalidSize, size, limit))
		*dest = nil
		return
	}
	b := p.p.UnpackFixedBytes(int(size))
	if len(b) == 0 {
		*dest = nil
		return
	}
	*dest = b
}

// PackAddress packs all [AddressLen] bytes, including the empty address.
func (p *Packer) PackAddress(a Address) {
	p.p.PackFixedBytes(a[:])
}

// UnpackAddress unpacks an address. The empty address is a valid value.
func (p *Packer) UnpackAddress(dest *Address) {
	b := p.p.UnpackFixedBytes(AddressLen)
	if len(b) != AddressLen {
		*dest = EmptyAddress
		return
	}
	copy((*dest)[:], b)
}

// PackUint256 packs [v] as 32 big-endian bytes. A nil value packs as zero.
func (p *Packer) PackUint256(v *uint256.Int) {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	p.p.PackFixedBytes(b[:])
}

func (p *Packer) UnpackUint256() *uint256.Int {
	b := p.p.UnpackFixedBytes(consts.Uint256Len)
	if len(b) != consts.Uint256Len {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes32(b)
}

// PackHash packs a 32 byte word such as a nonce salt.
func (p *Packer) PackHash(h Hash) {
	p.p.PackFixedBytes(h[:])
}

func (p *Packer) UnpackHash(dest *Hash) {
	b := p.p.UnpackFixedBytes(consts.Uint256Len)
	if len(b) != consts.Uint256Len {
		*dest = Hash{}
		return
	}
	copy(dest[:], b)
}

// PeekOpcode returns the opcode of [payload] without consuming anything, so that
// callers can route before committing to a command shape.
func PeekOpcode(payload []byte) (uint8, error) {
	if len(payload) == 0 {
		return 0, ErrEmptyPayload
	}
	return payload[0], nil
}

// Finish wraps any unpacking error and rejects trailing bytes.
func (p *Packer) Finish() error {
	if err := p.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if !p.Empty() {
		return fmt.Errorf("%w: %d of %d bytes read", ErrTrailingBytes, p.Offset(), len(p.Bytes()))
	}
	return nil
}
