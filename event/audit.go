// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"sync"

	"github.com/ava-labs/hyperdex/codec"
)

var (
	_ Subscription[*Event]        = (*Recorder)(nil)
	_ SubscriptionFactory[*Event] = (*Recorder)(nil)
)

// Entry points a command can arrive through.
const (
	ProtocolPath = "protocol"
	UserPath     = "user"
)

// Event is the audit record of one committed command. [Payload] is the exact
// byte sequence that was dispatched; [Command] and [Result] are its decoded
// arguments and the committed values, so the mutation can be replayed without
// reading state.
type Event struct {
	Path      string        `json:"path"`
	Opcode    uint8         `json:"opcode"`
	Name      string        `json:"name"`
	Actor     codec.Address `json:"actor"`
	Timestamp int64         `json:"timestamp"`
	Payload   codec.Bytes   `json:"payload"`
	Command   any           `json:"command"`
	Result    any           `json:"result"`
}

// Recorder keeps the last [limit] events in memory.
type Recorder struct {
	limit int

	l      sync.Mutex
	events []*Event
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// New returns the recorder itself, so one recorder can be handed to a
// dispatcher and read back afterwards.
func (r *Recorder) New() (Subscription[*Event], error) {
	return r, nil
}

func (r *Recorder) Accept(_ context.Context, e *Event) error {
	r.l.Lock()
	defer r.l.Unlock()

	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
	return nil
}

func (*Recorder) Close() error {
	return nil
}

// Events returns the recorded events, oldest first.
func (r *Recorder) Events() []*Event {
	r.l.Lock()
	defer r.l.Unlock()

	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}
