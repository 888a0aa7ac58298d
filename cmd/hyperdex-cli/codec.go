// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/registry"
)

var errUnknownPath = errors.New("path must be protocol or user")

func loadRegistries(cmd *cobra.Command) (*actions.Registries, error) {
	cfg, err := loadControllerConfig(cmd)
	if err != nil {
		return nil, err
	}
	return actions.NewRegistries(cfg.Opcodes)
}

func pathRegistry(r *actions.Registries, path string) (*registry.Registry[actions.Action], error) {
	switch path {
	case event.ProtocolPath:
		return r.Protocol, nil
	case event.UserPath:
		return r.User, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownPath, path)
	}
}

// readJSONArg accepts inline JSON or the name of a file holding it.
func readJSONArg(arg string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(arg), "{") {
		return []byte(arg), nil
	}
	return os.ReadFile(arg)
}

// encodeCommand builds the payload of command [name] from its JSON form.
func encodeCommand(r *actions.Registries, name string, raw []byte) (string, []byte, error) {
	path := event.ProtocolPath
	entry, ok := r.Protocol.LookupName(name)
	if !ok {
		path = event.UserPath
		entry, ok = r.User.LookupName(name)
	}
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", actions.ErrUnknownCommand, name)
	}
	a := entry.New()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(a); err != nil {
		return "", nil, fmt.Errorf("cannot parse %s arguments: %w", name, err)
	}
	payload, err := actions.Encode(entry.Opcode, a)
	if err != nil {
		return "", nil, err
	}
	return path, payload, nil
}

type decodedCommand struct {
	Path    string         `json:"path"`
	Opcode  uint8          `json:"opcode"`
	Name    string         `json:"name"`
	Command actions.Action `json:"command"`
}

func (d decodedCommand) String() string {
	b, err := json.MarshalIndent(d.Command, "", "  ")
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s %s (opcode %d)\n%s", d.Path, d.Name, d.Opcode, b)
}

func decodeCommand(r *actions.Registries, path string, payload []byte) (decodedCommand, error) {
	reg, err := pathRegistry(r, path)
	if err != nil {
		return decodedCommand{}, err
	}
	opcode, err := codec.PeekOpcode(payload)
	if err != nil {
		return decodedCommand{}, err
	}
	entry, err := reg.Lookup(opcode)
	if err != nil {
		return decodedCommand{}, err
	}
	a, err := actions.Decode(payload, entry)
	if err != nil {
		return decodedCommand{}, err
	}
	return decodedCommand{Path: path, Opcode: opcode, Name: entry.Name, Command: a}, nil
}

type encodeCmdResponse struct {
	Path    string      `json:"path"`
	Payload codec.Bytes `json:"payload"`
}

func (r encodeCmdResponse) String() string {
	return r.Payload.String()
}

var encodeCmd = &cobra.Command{
	Use:   "encode [command] [json or file]",
	Short: "Encode a command payload from its JSON arguments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRegistries(cmd)
		if err != nil {
			return err
		}
		raw, err := readJSONArg(args[1])
		if err != nil {
			return err
		}
		path, payload, err := encodeCommand(r, args[0], raw)
		if err != nil {
			return err
		}
		return printValue(cmd, encodeCmdResponse{Path: path, Payload: payload})
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode [protocol|user] [hex or file]",
	Short: "Decode a command payload",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := loadRegistries(cmd)
		if err != nil {
			return err
		}
		payload, err := decodeFileOrHex(args[1])
		if err != nil {
			return err
		}
		d, err := decodeCommand(r, args[0], payload)
		if err != nil {
			return err
		}
		return printValue(cmd, d)
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd, decodeCmd)
}
