// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexer

import (
	"net/http"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/server"
)

const Endpoint = "/indexer"

func NewHandler(tracer trace.Tracer, indexer *Indexer) (api.Handler, error) {
	handler, err := server.NewJSONRPCHandler(Name, NewServer(tracer, indexer))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{
		Path:    Endpoint,
		Handler: handler,
	}, nil
}

func NewServer(tracer trace.Tracer, indexer *Indexer) *Server {
	return &Server{
		tracer:  tracer,
		indexer: indexer,
	}
}

type Server struct {
	tracer  trace.Tracer
	indexer *Indexer
}

type GetEventRequest struct {
	Sequence uint64 `json:"sequence"`
}

func (s *Server) GetEvent(req *http.Request, args *GetEventRequest, reply *Record) error {
	ctx, span := s.tracer.Start(req.Context(), "Indexer.GetEvent")
	defer span.End()

	r, err := s.indexer.GetEvent(ctx, args.Sequence)
	if err != nil {
		return err
	}
	*reply = *r
	return nil
}

type ListEventsRequest struct {
	From  uint64 `json:"from"`
	Limit int    `json:"limit"`
}

type ListEventsResponse struct {
	Events []*Record `json:"events"`
	// Count is the total number of indexed events.
	Count uint64 `json:"count"`
}

func (s *Server) ListEvents(req *http.Request, args *ListEventsRequest, reply *ListEventsResponse) error {
	ctx, span := s.tracer.Start(req.Context(), "Indexer.ListEvents")
	defer span.End()

	events, err := s.indexer.ListEvents(ctx, args.From, args.Limit)
	if err != nil {
		return err
	}
	reply.Events = events
	reply.Count = s.indexer.Count()
	return nil
}
