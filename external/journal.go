// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package external

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ava-labs/hyperdex/codec"
)

var (
	_ CurveEngine   = (*Journal)(nil)
	_ Settlement    = (*Journal)(nil)
	_ SurplusLedger = (*Journal)(nil)
)

// Call is one recorded collaborator invocation.
type Call struct {
	Method string         `json:"method"`
	Fields map[string]any `json:"fields"`
}

// Journal stands in for the trading engine when commands are executed
// offline. It accepts every call, logs it and keeps it for inspection.
// Registered pools lock [minLiquidity] and initialization flows equal the
// locked liquidity on both legs.
type Journal struct {
	log          logging.Logger
	minLiquidity uint64

	l     sync.Mutex
	calls []Call
}

func NewJournal(log logging.Logger, minLiquidity uint64) *Journal {
	return &Journal{log: log, minLiquidity: minLiquidity}
}

// Collaborators wires the journal into every slot except the directory.
func (j *Journal) Collaborators(dir Directory) Collaborators {
	return Collaborators{
		Curve:      j,
		Settlement: j,
		Surplus:    j,
		Directory:  dir,
	}
}

func (j *Journal) record(method string, fields ...zap.Field) {
	j.l.Lock()
	defer j.l.Unlock()

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	j.calls = append(j.calls, Call{Method: method, Fields: enc.Fields})
	j.log.Info(method, fields...)
}

// Calls returns the recorded calls, oldest first.
func (j *Journal) Calls() []Call {
	j.l.Lock()
	defer j.l.Unlock()

	out := make([]Call, len(j.calls))
	copy(out, j.calls)
	return out
}

// Cursor derives the pool handle from the pool's identity.
func Cursor(pool PoolDescriptor) PoolCursor {
	p := codec.NewWriter(2*codec.AddressLen+8, 2*codec.AddressLen+8)
	p.PackAddress(pool.Base)
	p.PackAddress(pool.Quote)
	p.PackUint64(pool.TemplateIdx)
	h := hashing.ComputeHash256(p.Bytes())
	return PoolCursor(binary.BigEndian.Uint64(h))
}

func (j *Journal) RegisterPool(_ context.Context, pool PoolDescriptor) (PoolCursor, uint64, error) {
	cursor := Cursor(pool)
	j.record("registerPool",
		zap.Stringer("base", pool.Base),
		zap.Stringer("quote", pool.Quote),
		zap.Uint64("template", pool.TemplateIdx),
		zap.Uint64("cursor", uint64(cursor)),
	)
	return cursor, j.minLiquidity, nil
}

func (j *Journal) InitCurve(_ context.Context, cursor PoolCursor, price *uint256.Int, initLiquidity uint64) (int64, int64, error) {
	j.record("initCurve",
		zap.Uint64("cursor", uint64(cursor)),
		zap.Stringer("price", price),
		zap.Uint64("liquidity", initLiquidity),
	)
	flow := int64(initLiquidity)
	return flow, flow, nil
}

func (j *Journal) Settle(_ context.Context, payer codec.Address, base codec.Address, baseFlow int64, quote codec.Address, quoteFlow int64) error {
	j.record("settle",
		zap.Stringer("payer", payer),
		zap.Stringer("base", base),
		zap.Int64("baseFlow", baseFlow),
		zap.Stringer("quote", quote),
		zap.Int64("quoteFlow", quoteFlow),
	)
	return nil
}

func (j *Journal) SettleWrapped(_ context.Context, payer codec.Address, base codec.Address, baseFlow int64, quote codec.Address, quoteFlow int64) error {
	j.record("settleWrapped",
		zap.Stringer("payer", payer),
		zap.Stringer("base", base),
		zap.Int64("baseFlow", baseFlow),
		zap.Stringer("quote", quote),
		zap.Int64("quoteFlow", quoteFlow),
	)
	return nil
}

func (j *Journal) Payout(_ context.Context, recipient codec.Address, token codec.Address, amount uint64) error {
	j.record("payout",
		zap.Stringer("recipient", recipient),
		zap.Stringer("token", token),
		zap.Uint64("amount", amount),
	)
	return nil
}

func (j *Journal) DepositSurplus(_ context.Context, payer codec.Address, recipient codec.Address, token codec.Address, amount int64) error {
	j.record("depositSurplus",
		zap.Stringer("payer", payer),
		zap.Stringer("recipient", recipient),
		zap.Stringer("token", token),
		zap.Int64("amount", amount),
	)
	return nil
}

func (j *Journal) DisburseSurplus(_ context.Context, owner codec.Address, recipient codec.Address, token codec.Address, amount int64) error {
	j.record("disburseSurplus",
		zap.Stringer("owner", owner),
		zap.Stringer("recipient", recipient),
		zap.Stringer("token", token),
		zap.Int64("amount", amount),
	)
	return nil
}

func (j *Journal) TransferSurplus(_ context.Context, owner codec.Address, recipient codec.Address, token codec.Address, amount int64) error {
	j.record("transferSurplus",
		zap.Stringer("owner", owner),
		zap.Stringer("recipient", recipient),
		zap.Stringer("token", token),
		zap.Int64("amount", amount),
	)
	return nil
}

func (j *Journal) SidePocketSurplus(_ context.Context, owner codec.Address, fromSalt uint64, toSalt uint64, token codec.Address, amount int64) error {
	j.record("sidePocketSurplus",
		zap.Stringer("owner", owner),
		zap.Uint64("fromSalt", fromSalt),
		zap.Uint64("toSalt", toSalt),
		zap.Stringer("token", token),
		zap.Int64("amount", amount),
	)
	return nil
}
