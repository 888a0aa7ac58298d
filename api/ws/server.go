// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ws streams committed events to websocket clients and, when
// enabled, dispatches commands they send.
package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/controller"
	"github.com/ava-labs/hyperdex/event"
)

const Endpoint = "/ws"

var (
	_ event.SubscriptionFactory[*event.Event] = (*Server)(nil)
	_ event.Subscription[*event.Event]        = (*Server)(nil)

	ErrCommandsDisabled = errors.New("command submission is disabled")
)

// Dispatcher is the part of the controller a stream submits to.
type Dispatcher interface {
	ProtocolCmd(ctx context.Context, caller codec.Address, payload []byte, timestamp int64) (*event.Event, error)
	UserCmd(ctx context.Context, caller codec.Address, payload []byte, timestamp int64) (*event.Event, error)
}

type Config struct {
	MaxPendingMessages int
	AcceptCommands     bool
	ReadBufferSize     int
	WriteBufferSize    int
	// WriteWait bounds a single write to a client.
	WriteWait time.Duration
	// PongWait is how long a client may stay silent before it is dropped.
	PongWait time.Duration
}

func NewDefaultConfig() Config {
	return Config{
		MaxPendingMessages: 1024,
		ReadBufferSize:     1024,
		WriteBufferSize:    1024,
		WriteWait:          10 * time.Second,
		PongWait:           60 * time.Second,
	}
}

func (c Config) PingPeriod() time.Duration {
	return c.PongWait * 9 / 10
}

// Server tracks connected clients. It is registered with the dispatcher as an
// event subscription and mounted on the API server through [Handler].
type Server struct {
	log      logging.Logger
	tracer   trace.Tracer
	cfg      Config
	upgrader websocket.Upgrader

	conns     connections
	listeners connections
}

func NewServer(log logging.Logger, tracer trace.Tracer, cfg Config) *Server {
	return &Server{
		log:    log,
		tracer: tracer,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// Origins are enforced by the API server's CORS and host filters.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler mounts the stream at [Endpoint]. Commands received on it go to [d].
func (s *Server) Handler(d Dispatcher) api.Handler {
	return api.Handler{
		Path: Endpoint,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.serve(w, r, d)
		}),
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, d Dispatcher) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade", zap.Error(err))
		return
	}
	c := &connection{
		s:    s,
		d:    d,
		conn: wsConn,
		send: make(chan []byte, s.cfg.MaxPendingMessages),
	}
	s.conns.Add(c)
	go c.writePump()
	go c.readPump()
}

func (s *Server) remove(c *connection) {
	s.conns.Remove(c)
	s.listeners.Remove(c)
}

// Connections is the number of open clients.
func (s *Server) Connections() int {
	return s.conns.Len()
}

// Listeners is the number of clients subscribed to events.
func (s *Server) Listeners() int {
	return s.listeners.Len()
}

func (s *Server) New() (event.Subscription[*event.Event], error) {
	return s, nil
}

// Accept publishes [e] to every subscribed client. Slow clients miss
// messages instead of holding up the dispatcher.
func (s *Server) Accept(_ context.Context, e *event.Event) error {
	listeners := s.listeners.List()
	if len(listeners) == 0 {
		return nil
	}
	msg, err := packJSON(EventMode, e)
	if err != nil {
		return err
	}
	for _, c := range listeners {
		if !c.Send(msg) {
			s.log.Verbo("dropping event for slow listener",
				zap.String("name", e.Name),
			)
		}
	}
	return nil
}

// Close disconnects every client.
func (s *Server) Close() error {
	for _, c := range s.conns.List() {
		c.deactivate()
	}
	return nil
}

func (s *Server) handle(c *connection, msg []byte) {
	if len(msg) == 0 {
		s.log.Debug("dropping empty message")
		return
	}
	switch msg[0] {
	case EventMode:
		s.listeners.Add(c)
		s.log.Debug("added event listener")
	case CommandMode:
		res := s.submit(c.d, msg)
		b, err := packJSON(CommandMode, res)
		if err != nil {
			s.log.Error("failed to marshal result", zap.Error(err))
			return
		}
		if !c.Send(b) {
			s.log.Debug("dropping result for slow client")
		}
	default:
		s.log.Debug("unexpected message type",
			zap.Int("len", len(msg)),
			zap.Uint8("mode", msg[0]),
		)
	}
}

func (s *Server) submit(d Dispatcher, msg []byte) *Result {
	ctx, span := s.tracer.Start(context.Background(), "WebSocketServer.submit")
	defer span.End()

	if !s.cfg.AcceptCommands || d == nil {
		return failure(ErrCommandsDisabled)
	}
	cmd, err := UnpackCommand(msg)
	if err != nil {
		return failure(err)
	}
	dispatch := d.UserCmd
	if cmd.Path == event.ProtocolPath {
		dispatch = d.ProtocolCmd
	}
	e, err := dispatch(ctx, cmd.Caller, cmd.Payload, cmd.Timestamp)
	if err != nil {
		s.log.Debug("command failed",
			zap.String("path", cmd.Path),
			zap.Stringer("caller", cmd.Caller),
			zap.Error(err),
		)
		return failure(err)
	}
	return &Result{Event: e}
}

func failure(err error) *Result {
	return &Result{
		Error:    err.Error(),
		Category: controller.Category(err).String(),
	}
}
