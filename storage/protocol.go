// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// GetTakeRate returns the protocol take rate applied to new pools, in 1/256ths.
func GetTakeRate(ctx context.Context, im state.Immutable) (uint8, error) {
	return getByte(ctx, im, takeRateKey, 0)
}

func SetTakeRate(ctx context.Context, mu state.Mutable, rate uint8) error {
	return mu.Insert(ctx, takeRateKey, []byte{rate})
}

func GetRelayerTakeRate(ctx context.Context, im state.Immutable) (uint8, error) {
	return getByte(ctx, im, relayerTakeRateKey, 0)
}

func SetRelayerTakeRate(ctx context.Context, mu state.Mutable, rate uint8) error {
	return mu.Insert(ctx, relayerTakeRateKey, []byte{rate})
}

// GetNewPoolLiquidity returns the liquidity burned when a pool is created.
func GetNewPoolLiquidity(ctx context.Context, im state.Immutable) (uint64, error) {
	v, _, err := getUint64(ctx, im, newPoolLiqKey)
	return v, err
}

func SetNewPoolLiquidity(ctx context.Context, mu state.Mutable, liq uint64) error {
	return mu.Insert(ctx, newPoolLiqKey, database.PackUInt64(liq))
}

func GetProtocolFees(ctx context.Context, im state.Immutable, token codec.Address) (uint64, error) {
	v, _, err := getUint64(ctx, im, ProtocolFeesKey(token))
	return v, err
}

// AccrueProtocolFees credits [amount] of [token] to the protocol. It is called
// by the trading path, outside the command dispatcher.
func AccrueProtocolFees(ctx context.Context, mu state.Mutable, token codec.Address, amount uint64) (uint64, error) {
	bal, err := GetProtocolFees(ctx, mu, token)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not accrue fees (bal=%d, token=%s, amount=%d)",
			ErrInvalidFees,
			bal,
			token,
			amount,
		)
	}
	return nbal, mu.Insert(ctx, ProtocolFeesKey(token), database.PackUInt64(nbal))
}

// DrainProtocolFees zeroes the accrued fees of [token] and returns what was there.
func DrainProtocolFees(ctx context.Context, mu state.Mutable, token codec.Address) (uint64, error) {
	bal, err := GetProtocolFees(ctx, mu, token)
	if err != nil {
		return 0, err
	}
	return bal, mu.Remove(ctx, ProtocolFeesKey(token))
}
