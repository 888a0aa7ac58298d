// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package indexer

import (
	"context"
	"strings"

	"github.com/ava-labs/hyperdex/requester"
)

type Client struct {
	requester *requester.EndpointRequester
}

func NewClient(uri string) *Client {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &Client{requester: requester.New(uri, Name)}
}

func (c *Client) GetEvent(ctx context.Context, seq uint64) (*Record, error) {
	resp := new(Record)
	err := c.requester.SendRequest(
		ctx,
		"getEvent",
		&GetEventRequest{Sequence: seq},
		resp,
	)
	return resp, err
}

func (c *Client) ListEvents(ctx context.Context, from uint64, limit int) (*ListEventsResponse, error) {
	resp := new(ListEventsResponse)
	err := c.requester.SendRequest(
		ctx,
		"listEvents",
		&ListEventsRequest{From: from, Limit: limit},
		resp,
	)
	return resp, err
}
