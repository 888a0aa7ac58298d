// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package indexer persists the audit trail of committed commands and serves
// it back by sequence number.
package indexer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/state/tstate"
)

const (
	Name = "indexer"

	counterPrefix byte = 0x0
	recordPrefix  byte = 0x1

	protocolByte byte = 0x0
	userByte     byte = 0x1

	// MaxList bounds a single ListEvents call.
	MaxList = 1_024
)

var (
	ErrEventNotFound = errors.New("event not found")

	counterKey = []byte{counterPrefix}

	_ event.SubscriptionFactory[*event.Event] = (*Indexer)(nil)
	_ event.Subscription[*event.Event]        = (*Indexer)(nil)
)

// Record is the stored form of an event. The decoded command is not kept:
// [Payload] is the exact dispatched bytes and decodes to it.
type Record struct {
	Sequence  uint64        `json:"sequence"`
	Path      string        `json:"path"`
	Opcode    uint8         `json:"opcode"`
	Actor     codec.Address `json:"actor"`
	Timestamp int64         `json:"timestamp"`
	Payload   codec.Bytes   `json:"payload"`
}

type Indexer struct {
	lock sync.RWMutex
	db   state.Mutable
	next uint64
}

// New resumes indexing after the last record found in [db].
func New(ctx context.Context, db state.Mutable) (*Indexer, error) {
	i := &Indexer{db: db}
	v, err := db.GetValue(ctx, counterKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
	case err != nil:
		return nil, err
	case len(v) != consts.Uint64Len:
		return nil, fmt.Errorf("%w: counter of %d bytes", codec.ErrInvalidSize, len(v))
	default:
		i.next = binary.BigEndian.Uint64(v)
	}
	return i, nil
}

func (i *Indexer) New() (event.Subscription[*event.Event], error) {
	return i, nil
}

func recordKey(seq uint64) []byte {
	k := make([]byte, 1+consts.Uint64Len)
	k[0] = recordPrefix
	binary.BigEndian.PutUint64(k[1:], seq)
	return k
}

// Accept stores [e] and the advanced counter together.
func (i *Indexer) Accept(ctx context.Context, e *event.Event) error {
	i.lock.Lock()
	defer i.lock.Unlock()

	path := userByte
	if e.Path == event.ProtocolPath {
		path = protocolByte
	}
	p := codec.NewWriter(
		2*consts.ByteLen+codec.AddressLen+consts.Uint64Len+consts.IntLen+len(e.Payload),
		consts.MaxCommandSize*2,
	)
	p.PackByte(path)
	p.PackByte(e.Opcode)
	p.PackAddress(e.Actor)
	p.PackInt64(e.Timestamp)
	p.PackBytes(e.Payload)
	if err := p.Err(); err != nil {
		return err
	}

	counter := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(counter, i.next+1)
	view := tstate.NewView(i.db)
	if err := view.Insert(ctx, recordKey(i.next), p.Bytes()); err != nil {
		return err
	}
	if err := view.Insert(ctx, counterKey, counter); err != nil {
		return err
	}
	if err := view.Commit(ctx, i.db); err != nil {
		return err
	}
	i.next++
	return nil
}

func (*Indexer) Close() error {
	return nil
}

// Count returns the number of indexed events.
func (i *Indexer) Count() uint64 {
	i.lock.RLock()
	defer i.lock.RUnlock()

	return i.next
}

func (i *Indexer) GetEvent(ctx context.Context, seq uint64) (*Record, error) {
	i.lock.RLock()
	defer i.lock.RUnlock()

	return i.get(ctx, seq)
}

func (i *Indexer) get(ctx context.Context, seq uint64) (*Record, error) {
	if seq >= i.next {
		return nil, ErrEventNotFound
	}
	v, err := i.db.GetValue(ctx, recordKey(seq))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	p := codec.NewReader(v, consts.MaxCommandSize*2)
	r := &Record{Sequence: seq, Path: event.UserPath}
	if p.UnpackByte() == protocolByte {
		r.Path = event.ProtocolPath
	}
	r.Opcode = p.UnpackByte()
	p.UnpackAddress(&r.Actor)
	r.Timestamp = p.UnpackInt64()
	var payload []byte
	p.UnpackBytes(consts.MaxCommandSize, &payload)
	r.Payload = payload
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return r, nil
}

// ListEvents returns up to [limit] records starting at [from].
func (i *Indexer) ListEvents(ctx context.Context, from uint64, limit int) ([]*Record, error) {
	i.lock.RLock()
	defer i.lock.RUnlock()

	if limit <= 0 || limit > MaxList {
		limit = MaxList
	}
	out := []*Record{}
	for seq := from; seq < i.next && len(out) < limit; seq++ {
		r, err := i.get(ctx, seq)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
