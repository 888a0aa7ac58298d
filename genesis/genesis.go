// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/holiman/uint256"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/emergency"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
	"github.com/ava-labs/hyperdex/timelock"
)

var (
	ErrMissingSudo        = errors.New("genesis has no sudo authority")
	ErrAlreadyInitialized = errors.New("state already initialized")
)

type TemplateAllocation struct {
	Index         uint64       `json:"index"`
	FeeRate       uint16       `json:"feeRate"`
	TickSize      uint16       `json:"tickSize"`
	JITThresh     uint8        `json:"jitThresh"`
	KnockoutFlags uint8        `json:"knockoutFlags"`
	OracleFlags   uint8        `json:"oracleFlags"`
	PriceFloor    *uint256.Int `json:"priceFloor"`
	PriceCeiling  *uint256.Int `json:"priceCeiling"`
	IsStableSwap  bool         `json:"isStableSwap"`
}

// Genesis is the initial administrative state.
type Genesis struct {
	Sudo      codec.Address `json:"sudo"`
	Authority codec.Address `json:"authority"`

	HotPathOpen bool `json:"hotPathOpen"`
	SafeMode    bool `json:"safeMode"`

	TakeRate         uint8  `json:"takeRate"`
	RelayerTakeRate  uint8  `json:"relayerTakeRate"`
	NewPoolLiquidity uint64 `json:"newPoolLiquidity"`

	// Treasury, if set, is active from genesis.
	Treasury codec.Address `json:"treasury"`

	Templates []*TemplateAllocation `json:"templates"`
}

func NewDefaultGenesis(sudo, authority codec.Address) *Genesis {
	return &Genesis{
		Sudo:             sudo,
		Authority:        authority,
		HotPathOpen:      emergency.Baseline.HotPathOpen,
		SafeMode:         emergency.Baseline.InSafeMode,
		NewPoolLiquidity: 1 << 12,
	}
}

func Load(b []byte) (*Genesis, error) {
	g := &Genesis{HotPathOpen: emergency.Baseline.HotPathOpen}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
	}
	return g, nil
}

// Initialized reports whether [im] already holds a genesis.
func Initialized(ctx context.Context, im state.Immutable) (bool, error) {
	roles, err := storage.GetRoles(ctx, im)
	if err != nil {
		return false, err
	}
	return roles.Sudo != codec.EmptyAddress, nil
}

// InitializeState writes the genesis into [mu]. Parameters go through the
// same handlers as live commands, so genesis can never hold a value a command
// could not set.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, rules actions.Rules, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	if g.Sudo == codec.EmptyAddress {
		return ErrMissingSudo
	}
	initialized, err := Initialized(ctx, mu)
	if err != nil {
		return err
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	if err := storage.SetSudo(ctx, mu, g.Sudo); err != nil {
		return err
	}
	if err := storage.SetAuthority(ctx, mu, g.Authority); err != nil {
		return err
	}

	cmds := []actions.Action{
		&actions.SetHotPath{Open: g.HotPathOpen},
		&actions.SetSafeMode{Enabled: g.SafeMode},
		&actions.SetTakeRate{Rate: g.TakeRate},
		&actions.SetRelayerTakeRate{Rate: g.RelayerTakeRate},
	}
	if g.NewPoolLiquidity > 0 {
		cmds = append(cmds, &actions.SetNewPoolLiq{Liquidity: g.NewPoolLiquidity})
	}
	for _, t := range g.Templates {
		cmds = append(cmds, &actions.SetTemplate{
			Index:         t.Index,
			FeeRate:       t.FeeRate,
			TickSize:      t.TickSize,
			JITThresh:     t.JITThresh,
			KnockoutFlags: t.KnockoutFlags,
			OracleFlags:   t.OracleFlags,
			PriceFloor:    t.PriceFloor,
			PriceCeiling:  t.PriceCeiling,
			IsStableSwap:  t.IsStableSwap,
		})
	}
	for _, cmd := range cmds {
		if _, err := cmd.Execute(ctx, rules, mu, external.Collaborators{}, 0, g.Sudo); err != nil {
			return fmt.Errorf("genesis %T: %w", cmd, err)
		}
	}
	if g.Treasury != codec.EmptyAddress {
		if !g.Treasury.IsContract() {
			return fmt.Errorf("%w: %s", actions.ErrInvalidTreasury, g.Treasury)
		}
		if err := storage.SetTreasury(ctx, mu, timelock.Treasury{Address: g.Treasury}); err != nil {
			return err
		}
	}
	return nil
}
