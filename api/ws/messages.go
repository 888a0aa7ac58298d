// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/consts"
	"github.com/ava-labs/hyperdex/event"
)

// The first byte of every frame selects its meaning. A client sends
// [EventMode] to subscribe and [CommandMode] followed by a packed [Command] to
// dispatch. The server answers with the same byte followed by JSON.
const (
	EventMode   byte = 0
	CommandMode byte = 1
)

const (
	protocolPath byte = 0
	userPath     byte = 1

	// mode, path, caller, timestamp and the payload length prefix
	commandOverhead = 1 + 1 + codec.AddressLen + consts.Uint64Len + consts.IntLen
	maxCommandFrame = commandOverhead + consts.MaxCommandSize
)

var (
	ErrUnknownMode = errors.New("unknown message mode")
	ErrUnknownPath = errors.New("unknown command path")
)

// Command asks the server to dispatch [Payload] from [Caller].
type Command struct {
	Path      string
	Caller    codec.Address
	Timestamp int64
	Payload   []byte
}

// Result answers a [Command]. Exactly one of [Event] and [Error] is set.
type Result struct {
	Event    *event.Event `json:"event,omitempty"`
	Error    string       `json:"error,omitempty"`
	Category string       `json:"category,omitempty"`
}

func PackCommand(cmd Command) ([]byte, error) {
	var path byte
	switch cmd.Path {
	case event.ProtocolPath:
		path = protocolPath
	case event.UserPath:
		path = userPath
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPath, cmd.Path)
	}
	p := codec.NewWriter(commandOverhead+len(cmd.Payload), maxCommandFrame)
	p.PackByte(CommandMode)
	p.PackByte(path)
	p.PackAddress(cmd.Caller)
	p.PackInt64(cmd.Timestamp)
	p.PackBytes(cmd.Payload)
	return p.Bytes(), p.Err()
}

// UnpackCommand reads a frame that starts with [CommandMode].
func UnpackCommand(msg []byte) (Command, error) {
	p := codec.NewReader(msg, maxCommandFrame)
	if mode := p.UnpackByte(); p.Err() == nil && mode != CommandMode {
		return Command{}, fmt.Errorf("%w: %d", ErrUnknownMode, mode)
	}
	var cmd Command
	switch path := p.UnpackByte(); path {
	case protocolPath:
		cmd.Path = event.ProtocolPath
	case userPath:
		cmd.Path = event.UserPath
	default:
		if p.Err() == nil {
			return Command{}, fmt.Errorf("%w: %d", ErrUnknownPath, path)
		}
	}
	p.UnpackAddress(&cmd.Caller)
	cmd.Timestamp = p.UnpackInt64()
	p.UnpackBytes(consts.MaxCommandSize, &cmd.Payload)
	if err := p.Finish(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func packJSON(mode byte, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte{mode}, b...), nil
}
