// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsonrpc

import (
	"context"
	"strings"

	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/requester"
	"github.com/ava-labs/hyperdex/storage"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	req := requester.New(uri, api.Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) Mode(ctx context.Context) (*ModeReply, error) {
	resp := new(ModeReply)
	err := cli.requester.SendRequest(ctx, "mode", nil, resp)
	return resp, err
}

func (cli *JSONRPCClient) Roles(ctx context.Context) (storage.Roles, error) {
	resp := new(storage.Roles)
	err := cli.requester.SendRequest(ctx, "roles", nil, resp)
	return *resp, err
}

func (cli *JSONRPCClient) Treasury(ctx context.Context, timestamp int64) (*TreasuryReply, error) {
	resp := new(TreasuryReply)
	err := cli.requester.SendRequest(
		ctx,
		"treasury",
		&TreasuryArgs{Timestamp: timestamp},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Template(ctx context.Context, idx uint64) (*storage.Template, error) {
	resp := new(storage.Template)
	err := cli.requester.SendRequest(
		ctx,
		"template",
		&TemplateArgs{Index: idx},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) Pool(ctx context.Context, base, quote codec.Address, idx uint64) (*storage.Pool, error) {
	resp := new(storage.Pool)
	err := cli.requester.SendRequest(
		ctx,
		"pool",
		&PoolArgs{Base: base, Quote: quote, Index: idx},
		resp,
	)
	return resp, err
}

func (cli *JSONRPCClient) ProtocolFees(ctx context.Context, token codec.Address) (uint64, error) {
	resp := new(ProtocolFeesReply)
	err := cli.requester.SendRequest(
		ctx,
		"protocolFees",
		&ProtocolFeesArgs{Token: token},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Opcodes(ctx context.Context) (*OpcodesReply, error) {
	resp := new(OpcodesReply)
	err := cli.requester.SendRequest(ctx, "opcodes", nil, resp)
	return resp, err
}

// Decode returns the command as generic JSON; use the CLI for typed output.
func (cli *JSONRPCClient) Decode(ctx context.Context, path string, payload []byte) (*DecodeReply, error) {
	resp := new(DecodeReply)
	err := cli.requester.SendRequest(
		ctx,
		"decode",
		&DecodeArgs{Path: path, Payload: payload},
		resp,
	)
	return resp, err
}

// Events returns recorded events. Commands and results arrive as generic JSON.
func (cli *JSONRPCClient) Events(ctx context.Context, limit int) ([]*event.Event, error) {
	resp := new(EventsReply)
	err := cli.requester.SendRequest(
		ctx,
		"events",
		&EventsArgs{Limit: limit},
		resp,
	)
	return resp.Events, err
}
