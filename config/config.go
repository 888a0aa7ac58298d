// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/registry"
	"github.com/ava-labs/hyperdex/trace"
)

var ErrInvalidConfig = errors.New("invalid config")

type APIConfig struct {
	Enabled        bool          `json:"enabled"`
	ListenAddress  string        `json:"listenAddress"`
	AllowedOrigins []string      `json:"allowedOrigins"`
	AllowedHosts   []string      `json:"allowedHosts"`
	ReadTimeout    time.Duration `json:"readTimeout"`
	WriteTimeout   time.Duration `json:"writeTimeout"`
	ShutdownDelay  time.Duration `json:"shutdownDelay"`
	Stream         StreamConfig  `json:"stream"`
}

// StreamConfig controls the websocket event stream mounted next to the
// JSON-RPC handlers.
type StreamConfig struct {
	Enabled            bool `json:"enabled"`
	MaxPendingMessages int  `json:"maxPendingMessages"`
	// AcceptCommands lets connected clients dispatch commands as any caller.
	AcceptCommands bool `json:"acceptCommands"`
}

type Config struct {
	LogLevel    logging.Level `json:"logLevel"`
	LogDir      string        `json:"logDir"`
	TraceConfig trace.Config  `json:"traceConfig"`

	// Protocol constants
	TreasuryDelay time.Duration `json:"treasuryDelay"`
	AdminCallpath uint16        `json:"adminCallpath"`
	MaxTakeRate   uint8         `json:"maxTakeRate"`
	MaxFeeRate    uint16        `json:"maxFeeRate"`
	MaxSqrtPrice  *uint256.Int  `json:"maxSqrtPrice"`

	// Opcodes replaces the default table per entry point. A table that is
	// omitted keeps its defaults.
	Opcodes registry.Opcodes `json:"opcodes"`

	// EventHistory is how many committed commands the audit recorder keeps.
	EventHistory int `json:"eventHistory"`

	StorageDir string    `json:"storageDir"`
	API        APIConfig `json:"api"`
}

func NewConfig() Config {
	rules := actions.DefaultRules()
	return Config{
		LogLevel:      logging.Info,
		TraceConfig:   trace.Config{Enabled: false, AppName: "hyperdex"},
		TreasuryDelay: rules.TreasuryDelay,
		AdminCallpath: rules.AdminCallpath,
		MaxTakeRate:   rules.MaxTakeRate,
		MaxFeeRate:    rules.MaxFeeRate,
		MaxSqrtPrice:  rules.MaxSqrtPrice,
		Opcodes:       actions.DefaultOpcodes(),
		EventHistory:  1_024,
		API: APIConfig{
			Enabled:        true,
			ListenAddress:  "127.0.0.1:9650",
			AllowedOrigins: []string{"*"},
			AllowedHosts:   []string{"localhost"},
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			ShutdownDelay:  time.Second,
			Stream: StreamConfig{
				Enabled:            true,
				MaxPendingMessages: 1024,
			},
		},
	}
}

// New parses [b] over the defaults and verifies the result. Empty input yields
// the defaults.
func New(b []byte) (*Config, error) {
	c := NewConfig()
	if len(b) > 0 {
		// Opcode tables are replaced, not merged.
		c.Opcodes = registry.Opcodes{}
		if err := json.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
		defaults := actions.DefaultOpcodes()
		if c.Opcodes.Protocol == nil {
			c.Opcodes.Protocol = defaults.Protocol
		}
		if c.Opcodes.User == nil {
			c.Opcodes.User = defaults.User
		}
		if c.Opcodes.Safe == nil {
			c.Opcodes.Safe = defaults.Safe
		}
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Verify() error {
	errs := &wrappers.Errs{}
	if c.TreasuryDelay < 0 {
		errs.Add(fmt.Errorf("%w: negative treasury delay %s", ErrInvalidConfig, c.TreasuryDelay))
	}
	if c.MaxSqrtPrice == nil || c.MaxSqrtPrice.IsZero() {
		errs.Add(fmt.Errorf("%w: max sqrt price must be positive", ErrInvalidConfig))
	}
	if c.API.Stream.Enabled && c.API.Stream.MaxPendingMessages <= 0 {
		errs.Add(fmt.Errorf("%w: stream needs a positive pending message limit", ErrInvalidConfig))
	}
	if c.EventHistory < 0 {
		errs.Add(fmt.Errorf("%w: negative event history", ErrInvalidConfig))
	}
	errs.Add(c.Opcodes.Verify())
	return errs.Err
}

// Rules returns the constants handlers validate against.
func (c *Config) Rules() actions.Rules {
	return actions.Rules{
		TreasuryDelay: c.TreasuryDelay,
		AdminCallpath: c.AdminCallpath,
		MaxTakeRate:   c.MaxTakeRate,
		MaxFeeRate:    c.MaxFeeRate,
		MaxSqrtPrice:  c.MaxSqrtPrice.Clone(),
	}
}
