// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/registry"
	"github.com/ava-labs/hyperdex/server"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
)

const Endpoint = "/admin"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownPath = errors.New("unknown command path")

	_ api.HandlerFactory[Backend] = (*JSONRPCServerFactory)(nil)
)

// Controller is the read side of the dispatcher.
type Controller interface {
	Read(f func(state.Immutable) error) error
	Mode(ctx context.Context) (emergency.Mode, error)
	Registries() *actions.Registries
}

type Backend struct {
	Log        logging.Logger
	Tracer     trace.Tracer
	Controller Controller
	// Events is optional; without it the events method returns nothing.
	Events *event.Recorder
}

type JSONRPCServerFactory struct{}

func (JSONRPCServerFactory) New(b Backend) (api.Handler, error) {
	handler, err := server.NewJSONRPCHandler(api.Name, NewJSONRPCServer(b))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

// JSONRPCServer answers read-only queries. Commands are never accepted over
// this API.
type JSONRPCServer struct {
	b Backend
}

func NewJSONRPCServer(b Backend) *JSONRPCServer {
	return &JSONRPCServer{b}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.b.Log.Info("ping")
	reply.Success = true
	return nil
}

type ModeReply struct {
	HotPathOpen bool   `json:"hotPathOpen"`
	InSafeMode  bool   `json:"inSafeMode"`
	Registry    string `json:"registry"`
}

func (j *JSONRPCServer) Mode(req *http.Request, _ *struct{}, reply *ModeReply) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.Mode")
	defer span.End()

	mode, err := j.b.Controller.Mode(ctx)
	if err != nil {
		return err
	}
	reply.HotPathOpen = mode.HotPathOpen
	reply.InSafeMode = mode.InSafeMode
	reply.Registry = mode.Active().String()
	return nil
}

func (j *JSONRPCServer) Roles(req *http.Request, _ *struct{}, reply *storage.Roles) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.Roles")
	defer span.End()

	return j.b.Controller.Read(func(im state.Immutable) error {
		roles, err := storage.GetRoles(ctx, im)
		if err != nil {
			return err
		}
		*reply = roles
		return nil
	})
}

type TreasuryArgs struct {
	// Timestamp (unix ms) the status is evaluated at.
	Timestamp int64 `json:"timestamp"`
}

type TreasuryReply struct {
	Address     codec.Address `json:"address"`
	ActivatesAt int64         `json:"activatesAt"`
	Status      string        `json:"status"`
}

func (j *JSONRPCServer) Treasury(req *http.Request, args *TreasuryArgs, reply *TreasuryReply) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.Treasury")
	defer span.End()

	return j.b.Controller.Read(func(im state.Immutable) error {
		t, err := storage.GetTreasury(ctx, im)
		if err != nil {
			return err
		}
		reply.Address = t.Address
		reply.ActivatesAt = t.ActivatesAt
		reply.Status = t.Status(args.Timestamp).String()
		return nil
	})
}

type TemplateArgs struct {
	Index uint64 `json:"index"`
}

func (j *JSONRPCServer) Template(req *http.Request, args *TemplateArgs, reply *storage.Template) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.Template")
	defer span.End()

	return j.b.Controller.Read(func(im state.Immutable) error {
		t, ok, err := storage.GetTemplate(ctx, im, args.Index)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		*reply = *t
		return nil
	})
}

type PoolArgs struct {
	Base  codec.Address `json:"base"`
	Quote codec.Address `json:"quote"`
	Index uint64        `json:"index"`
}

func (j *JSONRPCServer) Pool(req *http.Request, args *PoolArgs, reply *storage.Pool) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.Pool")
	defer span.End()

	return j.b.Controller.Read(func(im state.Immutable) error {
		p, ok, err := storage.GetPool(ctx, im, args.Base, args.Quote, args.Index)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		*reply = *p
		return nil
	})
}

type ProtocolFeesArgs struct {
	Token codec.Address `json:"token"`
}

type ProtocolFeesReply struct {
	Amount uint64 `json:"amount"`
}

func (j *JSONRPCServer) ProtocolFees(req *http.Request, args *ProtocolFeesArgs, reply *ProtocolFeesReply) error {
	ctx, span := j.b.Tracer.Start(req.Context(), "JSONRPCServer.ProtocolFees")
	defer span.End()

	return j.b.Controller.Read(func(im state.Immutable) (err error) {
		reply.Amount, err = storage.GetProtocolFees(ctx, im, args.Token)
		return err
	})
}

type OpcodeEntry struct {
	Opcode uint8  `json:"opcode"`
	Name   string `json:"name"`
	Level  string `json:"level"`
}

type OpcodesReply struct {
	Protocol []OpcodeEntry `json:"protocol"`
	User     []OpcodeEntry `json:"user"`
	Safe     []OpcodeEntry `json:"safe"`
}

func (j *JSONRPCServer) Opcodes(_ *http.Request, _ *struct{}, reply *OpcodesReply) error {
	r := j.b.Controller.Registries()
	reply.Protocol = listEntries(r.Protocol)
	reply.User = listEntries(r.User)
	reply.Safe = listEntries(r.Safe)
	return nil
}

func listEntries(r *registry.Registry[actions.Action]) []OpcodeEntry {
	entries := r.Entries()
	out := make([]OpcodeEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, OpcodeEntry{Opcode: e.Opcode, Name: e.Name, Level: e.Level.String()})
	}
	slices.SortFunc(out, func(a, b OpcodeEntry) int {
		return int(a.Opcode) - int(b.Opcode)
	})
	return out
}

type DecodeArgs struct {
	Path    string      `json:"path"`
	Payload codec.Bytes `json:"payload"`
}

type DecodeReply struct {
	Opcode  uint8  `json:"opcode"`
	Name    string `json:"name"`
	Command any    `json:"command"`
}

// Decode parses a payload without executing it.
func (j *JSONRPCServer) Decode(_ *http.Request, args *DecodeArgs, reply *DecodeReply) error {
	var r *registry.Registry[actions.Action]
	switch args.Path {
	case event.ProtocolPath:
		r = j.b.Controller.Registries().Protocol
	case event.UserPath:
		r = j.b.Controller.Registries().User
	default:
		return ErrUnknownPath
	}
	opcode, err := codec.PeekOpcode(args.Payload)
	if err != nil {
		return err
	}
	entry, err := r.Lookup(opcode)
	if err != nil {
		return err
	}
	action, err := actions.Decode(args.Payload, entry)
	if err != nil {
		return err
	}
	reply.Opcode = opcode
	reply.Name = entry.Name
	reply.Command = action
	return nil
}

type EventsArgs struct {
	// Limit caps the number of newest events returned; 0 returns all.
	Limit int `json:"limit"`
}

type EventsReply struct {
	Events []*event.Event `json:"events"`
}

func (j *JSONRPCServer) Events(_ *http.Request, args *EventsArgs, reply *EventsReply) error {
	if j.b.Events == nil {
		return nil
	}
	events := j.b.Events.Events()
	if args.Limit > 0 && len(events) > args.Limit {
		events = events[len(events)-args.Limit:]
	}
	j.b.Log.Debug("serving events", zap.Int("count", len(events)))
	reply.Events = events
	return nil
}
