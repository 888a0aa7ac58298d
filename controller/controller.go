// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package controller is the single entry point for administrative commands.
// It routes a payload to its handler through the active registry, checks
// authority, executes on a private overlay and commits only on success.
package controller

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/config"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/guard"
	"github.com/ava-labs/hyperdex/registry"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/state/tstate"
	"github.com/ava-labs/hyperdex/storage"

	htrace "github.com/ava-labs/hyperdex/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type Option func(*Dispatcher)

func WithLogger(log logging.Logger) Option {
	return func(d *Dispatcher) {
		d.log = log
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

func WithRegisterer(r prometheus.Registerer) Option {
	return func(d *Dispatcher) {
		d.registerer = r
	}
}

// WithSubscriptions adds subscribers notified after every commit.
func WithSubscriptions(factories ...event.SubscriptionFactory[*event.Event]) Option {
	return func(d *Dispatcher) {
		d.factories = append(d.factories, factories...)
	}
}

type Dispatcher struct {
	log        logging.Logger
	tracer     trace.Tracer
	registerer prometheus.Registerer
	metrics    *metrics

	rules      actions.Rules
	registries *actions.Registries
	ext        external.Collaborators

	factories     []event.SubscriptionFactory[*event.Event]
	subscriptions []event.Subscription[*event.Event]

	// busy is held for the whole of a dispatch; a nested or concurrent call
	// fails instead of waiting.
	busy   atomic.Bool
	closed atomic.Bool

	// stateLock orders commits against external readers.
	stateLock sync.RWMutex
	state     state.Mutable
}

func New(
	cfg *config.Config,
	mu state.Mutable,
	ext external.Collaborators,
	opts ...Option,
) (*Dispatcher, error) {
	if err := ext.Verify(); err != nil {
		return nil, err
	}
	registries, err := actions.NewRegistries(cfg.Opcodes)
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		log:        logging.NoLog{},
		tracer:     htrace.Noop(consts.Name),
		registerer: prometheus.NewRegistry(),
		rules:      cfg.Rules(),
		registries: registries,
		ext:        ext,
		state:      mu,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.metrics, err = newMetrics(d.registerer)
	if err != nil {
		return nil, err
	}
	for _, f := range d.factories {
		sub, err := f.New()
		if err != nil {
			return nil, err
		}
		d.subscriptions = append(d.subscriptions, sub)
	}
	mode, err := d.Mode(context.Background())
	if err != nil {
		return nil, err
	}
	d.recordMode(mode)
	return d, nil
}

// ProtocolCmd dispatches a privileged command from [caller].
func (d *Dispatcher) ProtocolCmd(ctx context.Context, caller codec.Address, payload []byte, timestamp int64) (*event.Event, error) {
	return d.dispatch(ctx, event.ProtocolPath, caller, payload, timestamp)
}

// UserCmd dispatches a command that acts on [caller]'s own account.
func (d *Dispatcher) UserCmd(ctx context.Context, caller codec.Address, payload []byte, timestamp int64) (*event.Event, error) {
	return d.dispatch(ctx, event.UserPath, caller, payload, timestamp)
}

func (d *Dispatcher) dispatch(
	ctx context.Context,
	path string,
	caller codec.Address,
	payload []byte,
	timestamp int64,
) (*event.Event, error) {
	ctx, span := d.tracer.Start(ctx, "Dispatcher.Dispatch", oteltrace.WithAttributes(
		attribute.String("path", path),
		attribute.Int("size", len(payload)),
		attribute.Stringer("caller", caller),
	))
	defer span.End()

	if d.closed.Load() {
		return nil, ErrClosed
	}
	if !d.busy.CompareAndSwap(false, true) {
		d.reject(path, caller, ErrReentrant)
		return nil, ErrReentrant
	}
	defer d.busy.Store(false)

	start := time.Now()
	e, err := d.execute(ctx, path, caller, payload, timestamp)
	if err != nil {
		span.RecordError(err)
		d.reject(path, caller, err)
		return nil, err
	}
	d.metrics.execute.Observe(float64(time.Since(start)))
	d.metrics.committed.WithLabelValues(path, e.Name).Inc()
	d.log.Info("committed command",
		zap.String("path", path),
		zap.String("name", e.Name),
		zap.Uint8("opcode", e.Opcode),
		zap.Stringer("actor", caller),
		zap.Int64("timestamp", timestamp),
	)
	if t, ok := e.Result.(*emergency.Transition); ok {
		d.log.Warn("emergency flag changed",
			zap.String("flag", t.Flag),
			zap.Bool("previous", t.Previous),
			zap.Bool("current", t.Current),
			zap.Stringer("actor", caller),
		)
		if mode, err := d.Mode(ctx); err == nil {
			d.recordMode(mode)
		}
	}
	if err := event.NotifyAll(ctx, e, d.subscriptions...); err != nil {
		d.log.Warn("subscriber failed", zap.String("name", e.Name), zap.Error(err))
	}
	return e, nil
}

func (d *Dispatcher) reject(path string, caller codec.Address, err error) {
	category := Category(err)
	d.metrics.rejected.WithLabelValues(path, category.String()).Inc()
	d.log.Debug("rejected command",
		zap.String("path", path),
		zap.Stringer("caller", caller),
		zap.Stringer("category", category),
		zap.Error(err),
	)
}

// execute runs the dispatch pipeline. Nothing is written to the backing state
// unless every step succeeds.
func (d *Dispatcher) execute(
	ctx context.Context,
	path string,
	caller codec.Address,
	payload []byte,
	timestamp int64,
) (*event.Event, error) {
	if len(payload) > consts.MaxCommandSize {
		return nil, fmt.Errorf("%w: %w: payload of %d bytes", codec.ErrDecode, codec.ErrInvalidSize, len(payload))
	}
	opcode, err := codec.PeekOpcode(payload)
	if err != nil {
		return nil, err
	}
	mode, err := emergency.Load(ctx, d.state)
	if err != nil {
		return nil, err
	}

	var entry *registry.Entry[actions.Action]
	switch path {
	case event.ProtocolPath:
		entry, err = d.lookupProtocol(ctx, opcode, caller, mode)
	default:
		entry, err = d.lookupUser(opcode, caller, mode)
	}
	if err != nil {
		return nil, err
	}

	action, err := actions.Decode(payload, entry)
	if err != nil {
		return nil, err
	}

	view := tstate.NewView(d.state)
	result, err := action.Execute(ctx, d.rules, view, d.ext, timestamp, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	changes := view.PendingChanges()
	d.stateLock.Lock()
	err = view.Commit(ctx, d.state)
	d.stateLock.Unlock()
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", entry.Name, err)
	}
	d.metrics.stateChanges.Add(float64(changes))

	return &event.Event{
		Path:      path,
		Opcode:    opcode,
		Name:      entry.Name,
		Actor:     caller,
		Timestamp: timestamp,
		Payload:   slices.Clone(payload),
		Command:   action,
		Result:    result,
	}, nil
}

func (d *Dispatcher) lookupProtocol(
	ctx context.Context,
	opcode uint8,
	caller codec.Address,
	mode emergency.Mode,
) (*registry.Entry[actions.Action], error) {
	entry, err := d.registries.Protocol.Lookup(opcode)
	if err != nil {
		return nil, err
	}
	if mode.Active() == emergency.SafeRegistry {
		if _, err := d.registries.Safe.Lookup(opcode); err != nil {
			return nil, fmt.Errorf("%w: %s unavailable in safe mode", guard.ErrUnauthorized, entry.Name)
		}
	}
	roles, err := storage.GetRoles(ctx, d.state)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(caller, entry.Level, mode, roles); err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	return entry, nil
}

func (d *Dispatcher) lookupUser(
	opcode uint8,
	caller codec.Address,
	mode emergency.Mode,
) (*registry.Entry[actions.Action], error) {
	if mode.InSafeMode {
		return nil, guard.ErrEmergency
	}
	entry, err := d.registries.User.Lookup(opcode)
	if err != nil {
		return nil, err
	}
	if err := guard.AuthorizeUser(caller, mode); err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	return entry, nil
}

// Mode returns the current emergency flags.
func (d *Dispatcher) Mode(ctx context.Context) (emergency.Mode, error) {
	d.stateLock.RLock()
	defer d.stateLock.RUnlock()

	return emergency.Load(ctx, d.state)
}

// HotPathOpen reports whether the direct trading entry point is open. It is
// read by the trading collaborator; dispatch here does not consult it.
func (d *Dispatcher) HotPathOpen(ctx context.Context) (bool, error) {
	mode, err := d.Mode(ctx)
	if err != nil {
		return false, err
	}
	return mode.HotPathOpen, nil
}

// Read runs [f] against committed state.
func (d *Dispatcher) Read(f func(state.Immutable) error) error {
	d.stateLock.RLock()
	defer d.stateLock.RUnlock()

	return f(d.state)
}

// Write runs [f] on an overlay and commits it if [f] succeeds. It is the
// entry point for collaborators that credit state outside of command
// dispatch, such as the trading path accruing protocol fees.
func (d *Dispatcher) Write(ctx context.Context, f func(state.Mutable) error) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrReentrant
	}
	defer d.busy.Store(false)

	view := tstate.NewView(d.state)
	if err := f(view); err != nil {
		return err
	}
	d.stateLock.Lock()
	defer d.stateLock.Unlock()

	return view.Commit(ctx, d.state)
}

func (d *Dispatcher) Registries() *actions.Registries {
	return d.registries
}

func (d *Dispatcher) Rules() actions.Rules {
	return d.rules
}

func (d *Dispatcher) recordMode(mode emergency.Mode) {
	gaugeBool(d.metrics.safeMode, mode.InSafeMode)
	gaugeBool(d.metrics.hotPathOpen, mode.HotPathOpen)
}

// Close stops accepting commands and closes every subscription.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return event.CloseAll(d.subscriptions...)
}
