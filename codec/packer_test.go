// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/consts"
)

func TestPackerRoundTrip(t *testing.T) {
	require := require.New(t)

	addr := CreateAddress(consts.ContractAddressID, ids.GenerateTestID())
	price := uint256.NewInt(1 << 40)
	salt := Hash{7, 7, 7}

	wp := NewWriter(0, consts.MaxCommandSize)
	wp.PackByte(41)
	wp.PackUint16(300)
	wp.PackUint32(70_000)
	wp.PackUint64(1 << 50)
	wp.PackInt64(-42)
	wp.PackBool(true)
	wp.PackAddress(addr)
	wp.PackAddress(EmptyAddress)
	wp.PackUint256(price)
	wp.PackHash(salt)
	wp.PackBytes([]byte("args"))
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), consts.MaxCommandSize)
	require.Equal(byte(41), rp.UnpackByte())
	require.Equal(uint16(300), rp.UnpackUint16())
	require.Equal(uint32(70_000), rp.UnpackUint32())
	require.Equal(uint64(1<<50), rp.UnpackUint64(true))
	require.Equal(int64(-42), rp.UnpackInt64())
	require.True(rp.UnpackBool())
	var gotAddr, gotEmpty Address
	rp.UnpackAddress(&gotAddr)
	rp.UnpackAddress(&gotEmpty)
	require.Equal(addr, gotAddr)
	require.Equal(EmptyAddress, gotEmpty)
	require.True(price.Eq(rp.UnpackUint256()))
	var gotSalt Hash
	rp.UnpackHash(&gotSalt)
	require.Equal(salt, gotSalt)
	var args []byte
	rp.UnpackBytes(-1, &args)
	require.Equal([]byte("args"), args)
	require.NoError(rp.Finish())
}

func TestPackerFinish(t *testing.T) {
	tests := []struct {
		name        string
		payload     []byte
		read        func(*Packer)
		expectedErr error
	}{
		{
			name:    "exact",
			payload: []byte{0, 1},
			read: func(p *Packer) {
				p.UnpackUint16()
			},
		},
		{
			name:    "trailing byte",
			payload: []byte{0, 1, 2},
			read: func(p *Packer) {
				p.UnpackUint16()
			},
			expectedErr: ErrTrailingBytes,
		},
		{
			name:    "missing bytes",
			payload: []byte{0, 1},
			read: func(p *Packer) {
				p.UnpackUint64(false)
			},
			expectedErr: ErrDecode,
		},
		{
			name:    "bad bool",
			payload: []byte{2},
			read: func(p *Packer) {
				p.UnpackBool()
			},
			expectedErr: ErrDecode,
		},
		{
			name:    "required zero",
			payload: make([]byte, 8),
			read: func(p *Packer) {
				p.UnpackUint64(true)
			},
			expectedErr: ErrFieldNotPopulated,
		},
		{
			name:    "bytes over limit",
			payload: []byte{0, 0, 0, 3, 1, 2, 3},
			read: func(p *Packer) {
				var b []byte
				p.UnpackBytes(2, &b)
			},
			expectedErr: ErrInvalidSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewReader(tt.payload, consts.MaxCommandSize)
			tt.read(p)
			require.ErrorIs(t, p.Finish(), tt.expectedErr)
		})
	}
}

func TestPeekOpcode(t *testing.T) {
	require := require.New(t)
	_, err := PeekOpcode(nil)
	require.ErrorIs(err, ErrDecode)

	op, err := PeekOpcode([]byte{110, 1, 2})
	require.NoError(err)
	require.Equal(uint8(110), op)
}
