// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/hyperdex/event"
)

// Message is one frame received from the server. [Event] is set for
// [EventMode] frames and [Result] for [CommandMode] frames.
type Message struct {
	Mode   byte
	Event  *event.Event
	Result *Result
}

type Client struct {
	conn *websocket.Conn

	writeL sync.Mutex
}

// URI turns an API endpoint such as http://127.0.0.1:9650/ext/dex into the
// stream address.
func URI(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + Endpoint
	return u.String(), nil
}

// NewClient dials [uri], a stream address as returned by [URI].
func NewClient(ctx context.Context, uri string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	return &Client{conn: conn}, nil
}

func (c *Client) write(msg []byte) error {
	c.writeL.Lock()
	defer c.writeL.Unlock()

	return c.conn.WriteMessage(websocket.BinaryMessage, msg)
}

// SubscribeEvents asks the server to forward every committed event.
func (c *Client) SubscribeEvents() error {
	return c.write([]byte{EventMode})
}

// Submit sends [cmd]. Its [Result] arrives through [Listen].
func (c *Client) Submit(cmd Command) error {
	msg, err := PackCommand(cmd)
	if err != nil {
		return err
	}
	return c.write(msg)
}

// Listen blocks for the next frame. It must not be called concurrently.
func (c *Client) Listen() (*Message, error) {
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if len(msg) == 0 {
		return nil, ErrUnknownMode
	}
	m := &Message{Mode: msg[0]}
	switch m.Mode {
	case EventMode:
		m.Event = &event.Event{}
		err = json.Unmarshal(msg[1:], m.Event)
	case CommandMode:
		m.Result = &Result{}
		err = json.Unmarshal(msg[1:], m.Result)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, m.Mode)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Client) Close() error {
	c.writeL.Lock()
	defer c.writeL.Unlock()

	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
