// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/registry"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/timelock"
)

const (
	// MaxCallpaths bounds the callpath list of a single router approval.
	MaxCallpaths = 64
	// MaxOracleArgs bounds the opaque argument blob passed to oracles.
	MaxOracleArgs = 4 * 1024

	// DefaultAdminCallpath is the callpath slot of the administrative path.
	DefaultAdminCallpath uint16 = 3
	// DefaultMaxTakeRate is 50%, in 1/256ths.
	DefaultMaxTakeRate uint8 = 128
	// DefaultMaxFeeRate is 10%, in hundredths of a basis point.
	DefaultMaxFeeRate uint16 = 10_000
)

// DefaultMaxSqrtPrice is the largest Q64.64 square root price a template may
// allow.
var DefaultMaxSqrtPrice = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

// Action is a decoded command. Execute runs on a view that is discarded on
// error, so a failing action never needs to undo its own writes.
type Action interface {
	// Marshal packs every field after the opcode.
	Marshal(p *codec.Packer)
	// Size is the packed size of the fields after the opcode.
	Size() int
	// Execute validates, mutates [mu] and returns the committed values.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		ext external.Collaborators,
		timestamp int64,
		actor codec.Address,
	) (any, error)
}

// Rules are the protocol constants handlers validate against.
type Rules struct {
	TreasuryDelay time.Duration `json:"treasuryDelay"`
	AdminCallpath uint16        `json:"adminCallpath"`
	MaxTakeRate   uint8         `json:"maxTakeRate"`
	MaxFeeRate    uint16        `json:"maxFeeRate"`
	MaxSqrtPrice  *uint256.Int  `json:"maxSqrtPrice"`
}

func DefaultRules() Rules {
	return Rules{
		TreasuryDelay: timelock.DefaultDelay,
		AdminCallpath: DefaultAdminCallpath,
		MaxTakeRate:   DefaultMaxTakeRate,
		MaxFeeRate:    DefaultMaxFeeRate,
		MaxSqrtPrice:  DefaultMaxSqrtPrice.Clone(),
	}
}

// Encode returns [opcode] followed by the packed fields of [a].
func Encode(opcode uint8, a Action) ([]byte, error) {
	size := consts.ByteLen + a.Size()
	p := codec.NewWriter(size, consts.MaxCommandSize)
	p.PackByte(opcode)
	a.Marshal(p)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// Decode strictly decodes [payload] with [e]. The opcode byte must match and
// every byte must be consumed.
func Decode(payload []byte, e *registry.Entry[Action]) (Action, error) {
	p := codec.NewReader(payload, consts.MaxCommandSize)
	if opcode := p.UnpackByte(); p.Err() == nil && opcode != e.Opcode {
		return nil, fmt.Errorf("%w: got %d, want %d", codec.ErrUnexpectedOpcode, opcode, e.Opcode)
	}
	a, err := e.Decode(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", codec.ErrDecode, e.Name, err)
	}
	if err := p.Finish(); err != nil {
		return nil, fmt.Errorf("%s: %w", e.Name, err)
	}
	return a, nil
}

func collaboratorErr(call string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrCollaborator, call, err)
}
