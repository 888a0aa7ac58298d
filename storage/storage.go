// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/state"
)

// State
// 0x0/ (authority)                  => address
// 0x1/ (sudo authority)             => address
// 0x2/ (hot path open)              => bool
// 0x3/ (safe mode)                  => bool
// 0x4/ (treasury)                   => address|activatesAt
// 0x5/ (template)  [idx]            => template
// 0x6/ (pool)      [base|quote|idx] => pool
// 0x7/ (router)    [owner|router|callpath] => remaining calls
// 0x8/ (nonce)     [owner|salt]     => nonce
// 0x9/ (take rate)                  => uint8
// 0xa/ (relayer take rate)          => uint8
// 0xb/ (new pool liquidity)         => uint64
// 0xc/ (protocol fees) [token]      => uint64
const (
	authorityPrefix byte = iota
	sudoPrefix
	hotPathPrefix
	safeModePrefix
	treasuryPrefix
	templatePrefix
	poolPrefix
	routerPrefix
	noncePrefix
	takeRatePrefix
	relayerTakeRatePrefix
	newPoolLiqPrefix
	protocolFeesPrefix
)

var (
	authorityKey       = []byte{authorityPrefix}
	sudoKey            = []byte{sudoPrefix}
	hotPathKey         = []byte{hotPathPrefix}
	safeModeKey        = []byte{safeModePrefix}
	treasuryKey        = []byte{treasuryPrefix}
	takeRateKey        = []byte{takeRatePrefix}
	relayerTakeRateKey = []byte{relayerTakeRatePrefix}
	newPoolLiqKey      = []byte{newPoolLiqPrefix}
)

// [templatePrefix] + [idx]
func TemplateKey(idx uint64) []byte {
	k := make([]byte, consts.ByteLen+consts.Uint64Len)
	k[0] = templatePrefix
	binary.BigEndian.PutUint64(k[1:], idx)
	return k
}

// [poolPrefix] + [base] + [quote] + [idx]
func PoolKey(base, quote codec.Address, idx uint64) []byte {
	k := make([]byte, consts.ByteLen+2*codec.AddressLen+consts.Uint64Len)
	k[0] = poolPrefix
	copy(k[1:], base[:])
	copy(k[1+codec.AddressLen:], quote[:])
	binary.BigEndian.PutUint64(k[1+2*codec.AddressLen:], idx)
	return k
}

// [routerPrefix] + [owner] + [router] + [callpath]
func RouterKey(owner, router codec.Address, callpath uint16) []byte {
	k := make([]byte, consts.ByteLen+2*codec.AddressLen+consts.Uint16Len)
	k[0] = routerPrefix
	copy(k[1:], owner[:])
	copy(k[1+codec.AddressLen:], router[:])
	binary.BigEndian.PutUint16(k[1+2*codec.AddressLen:], callpath)
	return k
}

// [noncePrefix] + [owner] + [salt]
func NonceKey(owner codec.Address, salt [32]byte) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen+consts.IDLen)
	k[0] = noncePrefix
	copy(k[1:], owner[:])
	copy(k[1+codec.AddressLen:], salt[:])
	return k
}

// [protocolFeesPrefix] + [token]
func ProtocolFeesKey(token codec.Address) []byte {
	k := make([]byte, consts.ByteLen+codec.AddressLen)
	k[0] = protocolFeesPrefix
	copy(k[1:], token[:])
	return k
}

// get returns (nil, false, nil) for missing keys.
func get(ctx context.Context, im state.Immutable, key []byte) ([]byte, bool, error) {
	v, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func getAddress(ctx context.Context, im state.Immutable, key []byte) (codec.Address, error) {
	v, exists, err := get(ctx, im, key)
	if err != nil || !exists {
		return codec.EmptyAddress, err
	}
	if len(v) != codec.AddressLen {
		return codec.EmptyAddress, ErrCorruptValue
	}
	return codec.Address(v), nil
}

func getUint64(ctx context.Context, im state.Immutable, key []byte) (uint64, bool, error) {
	v, exists, err := get(ctx, im, key)
	if err != nil || !exists {
		return 0, false, err
	}
	val, err := database.ParseUInt64(v)
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func getByte(ctx context.Context, im state.Immutable, key []byte, def byte) (byte, error) {
	v, exists, err := get(ctx, im, key)
	if err != nil || !exists {
		return def, err
	}
	if len(v) != 1 {
		return 0, ErrCorruptValue
	}
	return v[0], nil
}

// unpack runs [f] over [v] and requires it to consume every byte.
func unpack(v []byte, f func(*codec.Packer)) error {
	p := codec.NewReader(v, len(v))
	f(p)
	if err := p.Finish(); err != nil {
		return errors.Join(ErrCorruptValue, err)
	}
	return nil
}
