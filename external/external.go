// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package external declares the collaborators the control plane drives but
// does not implement: the curve engine, settlement, the surplus collateral
// ledger and the capability objects (authority acceptors and oracles).
//
// Calls are synchronous and must not re-enter the dispatcher.
package external

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/codec"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_external.go . CurveEngine,Settlement,SurplusLedger

// PoolDescriptor identifies a pool and carries the parameters it was
// instantiated with.
type PoolDescriptor struct {
	Base         codec.Address
	Quote        codec.Address
	TemplateIdx  uint64
	FeeRate      uint16
	TickSize     uint16
	IsStableSwap bool
}

// PoolCursor is the curve engine's handle for a registered pool.
type PoolCursor uint64

type CurveEngine interface {
	// RegisterPool creates the pool's curve slot and returns the liquidity that
	// must be locked at initialization.
	RegisterPool(ctx context.Context, pool PoolDescriptor) (PoolCursor, uint64, error)
	// InitCurve sets the opening price and returns the flows the pool creator
	// owes (positive) or receives (negative).
	InitCurve(ctx context.Context, cursor PoolCursor, price *uint256.Int, initLiquidity uint64) (int64, int64, error)
}

type Settlement interface {
	Settle(ctx context.Context, payer codec.Address, base codec.Address, baseFlow int64, quote codec.Address, quoteFlow int64) error
	// SettleWrapped settles the native leg in the wrapped native token.
	SettleWrapped(ctx context.Context, payer codec.Address, base codec.Address, baseFlow int64, quote codec.Address, quoteFlow int64) error
	// Payout sends [amount] of [token] to [recipient]. The empty token is the
	// native asset.
	Payout(ctx context.Context, recipient codec.Address, token codec.Address, amount uint64) error
}

// SurplusLedger holds users' internal balances, keyed by (account, token).
type SurplusLedger interface {
	DepositSurplus(ctx context.Context, payer codec.Address, recipient codec.Address, token codec.Address, amount int64) error
	DisburseSurplus(ctx context.Context, owner codec.Address, recipient codec.Address, token codec.Address, amount int64) error
	TransferSurplus(ctx context.Context, owner codec.Address, recipient codec.Address, token codec.Address, amount int64) error
	SidePocketSurplus(ctx context.Context, owner codec.Address, fromSalt uint64, toSalt uint64, token codec.Address, amount int64) error
}

// Directory resolves an address to the object deployed there, if any.
// Capabilities are discovered by asserting the result against the
// interfaces below.
type Directory interface {
	Lookup(ctx context.Context, addr codec.Address) (any, bool)
}

// AuthorityAcceptor must be implemented by any address that receives a role.
type AuthorityAcceptor interface {
	AcceptsAuthority(ctx context.Context) bool
}

// NonceOracle gates conditional nonce resets.
type NonceOracle interface {
	CheckNonceSet(ctx context.Context, user codec.Address, salt [32]byte, nonce uint32, args []byte) (bool, error)
}

// CondOracle gates arbitrary conditional execution.
type CondOracle interface {
	CheckCond(ctx context.Context, user codec.Address, args []byte) (bool, error)
}

// Collaborators bundles everything a handler may call out to.
type Collaborators struct {
	Curve      CurveEngine
	Settlement Settlement
	Surplus    SurplusLedger
	Directory  Directory
}

var ErrMissingCollaborator = errors.New("missing collaborator")

// Verify reports the first slot left unset.
func (c Collaborators) Verify() error {
	switch {
	case c.Curve == nil:
		return fmt.Errorf("%w: curve engine", ErrMissingCollaborator)
	case c.Settlement == nil:
		return fmt.Errorf("%w: settlement", ErrMissingCollaborator)
	case c.Surplus == nil:
		return fmt.Errorf("%w: surplus ledger", ErrMissingCollaborator)
	case c.Directory == nil:
		return fmt.Errorf("%w: directory", ErrMissingCollaborator)
	default:
		return nil
	}
}
