// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

var (
	_ Action = (*ResetNonce)(nil)
	_ Action = (*ResetNonceCond)(nil)
	_ Action = (*GateOracleCond)(nil)
)

type NonceResult struct {
	Salt     codec.Hash `json:"salt"`
	Previous uint32     `json:"previous"`
	Current  uint32     `json:"current"`
}

func setNonce(ctx context.Context, mu state.Mutable, owner codec.Address, salt codec.Hash, nonce uint32) (*NonceResult, error) {
	prev, err := storage.GetNonce(ctx, mu, owner, salt)
	if err != nil {
		return nil, err
	}
	if err := storage.SetNonce(ctx, mu, owner, salt, nonce); err != nil {
		return nil, err
	}
	return &NonceResult{Salt: salt, Previous: prev, Current: nonce}, nil
}

func resolveOracle[T any](ctx context.Context, dir external.Directory, addr codec.Address) (T, error) {
	var zero T
	if !addr.IsContract() {
		return zero, fmt.Errorf("%w: %s", ErrInvalidOracle, addr)
	}
	if dir == nil {
		return zero, fmt.Errorf("%w: no directory", ErrOracleUnavailable)
	}
	obj, ok := dir.Lookup(ctx, addr)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrOracleUnavailable, addr)
	}
	o, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s has no %T capability", ErrOracleUnavailable, addr, (*T)(nil))
	}
	return o, nil
}

func packArgs(p *codec.Packer, args []byte) {
	p.PackBytes(args)
}

func unpackArgs(p *codec.Packer) []byte {
	var args []byte
	p.UnpackBytes(MaxOracleArgs, &args)
	return args
}

// ResetNonce overwrites the caller's nonce for [Salt].
type ResetNonce struct {
	Salt  codec.Hash `json:"salt"`
	Nonce uint32     `json:"nonce"`
}

func (rn *ResetNonce) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	_ external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	return setNonce(ctx, mu, actor, rn.Salt, rn.Nonce)
}

func (*ResetNonce) Size() int {
	return consts.Uint256Len + consts.IntLen
}

func (rn *ResetNonce) Marshal(p *codec.Packer) {
	p.PackHash(rn.Salt)
	p.PackUint32(rn.Nonce)
}

func UnmarshalResetNonce(p *codec.Packer) (Action, error) {
	var rn ResetNonce
	p.UnpackHash(&rn.Salt)
	rn.Nonce = p.UnpackUint32()
	return &rn, p.Err()
}

// ResetNonceCond resets the nonce only if [Oracle] approves the new value.
type ResetNonceCond struct {
	Salt   codec.Hash    `json:"salt"`
	Nonce  uint32        `json:"nonce"`
	Oracle codec.Address `json:"oracle"`
	Args   codec.Bytes   `json:"args"`
}

func (rn *ResetNonceCond) Execute(
	ctx context.Context,
	_ Rules,
	mu state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	oracle, err := resolveOracle[external.NonceOracle](ctx, ext.Directory, rn.Oracle)
	if err != nil {
		return nil, err
	}
	ok, err := oracle.CheckNonceSet(ctx, actor, rn.Salt, rn.Nonce, rn.Args)
	if err != nil {
		return nil, collaboratorErr("check nonce", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOracleRejected, rn.Oracle)
	}
	return setNonce(ctx, mu, actor, rn.Salt, rn.Nonce)
}

func (rn *ResetNonceCond) Size() int {
	return consts.Uint256Len + consts.IntLen + codec.AddressLen + codec.BytesLen(rn.Args)
}

func (rn *ResetNonceCond) Marshal(p *codec.Packer) {
	p.PackHash(rn.Salt)
	p.PackUint32(rn.Nonce)
	p.PackAddress(rn.Oracle)
	packArgs(p, rn.Args)
}

func UnmarshalResetNonceCond(p *codec.Packer) (Action, error) {
	var rn ResetNonceCond
	p.UnpackHash(&rn.Salt)
	rn.Nonce = p.UnpackUint32()
	p.UnpackAddress(&rn.Oracle)
	rn.Args = unpackArgs(p)
	return &rn, p.Err()
}

// GateOracleCond succeeds only if [Oracle] approves. It writes nothing and
// exists so a caller can bundle an oracle precondition with later commands.
type GateOracleCond struct {
	Oracle codec.Address `json:"oracle"`
	Args   codec.Bytes   `json:"args"`
}

type GateResult struct {
	Oracle codec.Address `json:"oracle"`
	Passed bool          `json:"passed"`
}

func (g *GateOracleCond) Execute(
	ctx context.Context,
	_ Rules,
	_ state.Mutable,
	ext external.Collaborators,
	_ int64,
	actor codec.Address,
) (any, error) {
	oracle, err := resolveOracle[external.CondOracle](ctx, ext.Directory, g.Oracle)
	if err != nil {
		return nil, err
	}
	ok, err := oracle.CheckCond(ctx, actor, g.Args)
	if err != nil {
		return nil, collaboratorErr("check cond", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOracleRejected, g.Oracle)
	}
	return &GateResult{Oracle: g.Oracle, Passed: true}, nil
}

func (g *GateOracleCond) Size() int {
	return codec.AddressLen + codec.BytesLen(g.Args)
}

func (g *GateOracleCond) Marshal(p *codec.Packer) {
	p.PackAddress(g.Oracle)
	packArgs(p, g.Args)
}

func UnmarshalGateOracleCond(p *codec.Packer) (Action, error) {
	var g GateOracleCond
	p.UnpackAddress(&g.Oracle)
	g.Args = unpackArgs(p)
	return &g, p.Err()
}
