// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state exposes raw key reads for operators that inspect storage
// directly.
package state

import (
	"context"
	"errors"
	"net/http"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/server"
	"github.com/ava-labs/hyperdex/state"
)

const JSONRPCStateEndpoint = "/state"

// MaxKeys bounds a single ReadState call.
const MaxKeys = 256

var ErrTooManyKeys = errors.New("too many keys")

type StateReader interface {
	Read(f func(state.Immutable) error) error
}

type ReadStateRequest struct {
	Keys []codec.Bytes `json:"keys"`
}

// ReadStateResponse holds one value per key. A missing key has a nil value
// and Found set to false.
type ReadStateResponse struct {
	Values []codec.Bytes `json:"values"`
	Found  []bool        `json:"found"`
}

func NewJSONRPCStateServer(tracer trace.Tracer, stateReader StateReader) *JSONRPCStateServer {
	return &JSONRPCStateServer{
		tracer:      tracer,
		stateReader: stateReader,
	}
}

// NewHandler returns the state server mounted at [JSONRPCStateEndpoint].
func NewHandler(tracer trace.Tracer, stateReader StateReader) (api.Handler, error) {
	handler, err := server.NewJSONRPCHandler(api.Name, NewJSONRPCStateServer(tracer, stateReader))
	if err != nil {
		return api.Handler{}, err
	}
	return api.Handler{Path: JSONRPCStateEndpoint, Handler: handler}, nil
}

// JSONRPCStateServer gives direct read access to committed state
type JSONRPCStateServer struct {
	tracer      trace.Tracer
	stateReader StateReader
}

func (s *JSONRPCStateServer) ReadState(req *http.Request, args *ReadStateRequest, res *ReadStateResponse) error {
	ctx, span := s.tracer.Start(req.Context(), "Server.ReadState")
	defer span.End()

	if len(args.Keys) > MaxKeys {
		return ErrTooManyKeys
	}
	return s.stateReader.Read(func(im state.Immutable) error {
		return readKeys(ctx, im, args.Keys, res)
	})
}

func readKeys(ctx context.Context, im state.Immutable, keys []codec.Bytes, res *ReadStateResponse) error {
	res.Values = make([]codec.Bytes, len(keys))
	res.Found = make([]bool, len(keys))
	for i, k := range keys {
		v, err := im.GetValue(ctx, k)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		res.Values[i] = v
		res.Found[i] = true
	}
	return nil
}
