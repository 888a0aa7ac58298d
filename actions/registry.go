// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/wrappers"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/guard"
	"github.com/ava-labs/hyperdex/registry"
)

// Command names, as used by the opcode table.
const (
	AuthorityTransferName  = "authorityTransfer"
	SetHotPathName         = "setHotPath"
	SetSafeModeName        = "setSafeMode"
	CollectTreasuryName    = "collectTreasury"
	SetTreasuryName        = "setTreasury"
	DisableTemplateName    = "disableTemplate"
	SetTemplateName        = "setTemplate"
	RevisePoolName         = "revisePool"
	SetNewPoolLiqName      = "setNewPoolLiq"
	SetTakeRateName        = "setTakeRate"
	ResyncTakeRateName     = "resyncTakeRate"
	SetRelayerTakeRateName = "setRelayerTakeRate"

	InitPoolName          = "initPool"
	ApproveRouterName     = "approveRouter"
	DepositSurplusName    = "depositSurplus"
	DisburseSurplusName   = "disburseSurplus"
	TransferSurplusName   = "transferSurplus"
	SidePocketSurplusName = "sidePocketSurplus"
	ResetNonceName        = "resetNonce"
	ResetNonceCondName    = "resetNonceCond"
	GateOracleCondName    = "gateOracleCond"
)

type command struct {
	level  guard.Level
	decode func(*codec.Packer) (Action, error)
	new    func() Action
}

var protocolCommands = map[string]command{
	AuthorityTransferName:  {guard.Sudo, UnmarshalAuthorityTransfer, func() Action { return &AuthorityTransfer{} }},
	SetHotPathName:         {guard.Sudo, UnmarshalSetHotPath, func() Action { return &SetHotPath{} }},
	SetSafeModeName:        {guard.Sudo, UnmarshalSetSafeMode, func() Action { return &SetSafeMode{} }},
	CollectTreasuryName:    {guard.Sudo, UnmarshalCollectTreasury, func() Action { return &CollectTreasury{} }},
	SetTreasuryName:        {guard.Sudo, UnmarshalSetTreasury, func() Action { return &SetTreasury{} }},
	DisableTemplateName:    {guard.General, UnmarshalDisableTemplate, func() Action { return &DisableTemplate{} }},
	SetTemplateName:        {guard.General, UnmarshalSetTemplate, func() Action { return &SetTemplate{} }},
	RevisePoolName:         {guard.General, UnmarshalRevisePool, func() Action { return &RevisePool{} }},
	SetNewPoolLiqName:      {guard.General, UnmarshalSetNewPoolLiq, func() Action { return &SetNewPoolLiq{} }},
	SetTakeRateName:        {guard.General, UnmarshalSetTakeRate, func() Action { return &SetTakeRate{} }},
	ResyncTakeRateName:     {guard.General, UnmarshalResyncTakeRate, func() Action { return &ResyncTakeRate{} }},
	SetRelayerTakeRateName: {guard.General, UnmarshalSetRelayerTakeRate, func() Action { return &SetRelayerTakeRate{} }},
}

var userCommands = map[string]command{
	InitPoolName:          {guard.Owner, UnmarshalInitPool, func() Action { return &InitPool{} }},
	ApproveRouterName:     {guard.Owner, UnmarshalApproveRouter, func() Action { return &ApproveRouter{} }},
	DepositSurplusName:    {guard.Owner, UnmarshalDepositSurplus, func() Action { return &DepositSurplus{} }},
	DisburseSurplusName:   {guard.Owner, UnmarshalDisburseSurplus, func() Action { return &DisburseSurplus{} }},
	TransferSurplusName:   {guard.Owner, UnmarshalTransferSurplus, func() Action { return &TransferSurplus{} }},
	SidePocketSurplusName: {guard.Owner, UnmarshalSidePocketSurplus, func() Action { return &SidePocketSurplus{} }},
	ResetNonceName:        {guard.Owner, UnmarshalResetNonce, func() Action { return &ResetNonce{} }},
	ResetNonceCondName:    {guard.Owner, UnmarshalResetNonceCond, func() Action { return &ResetNonceCond{} }},
	GateOracleCondName:    {guard.Owner, UnmarshalGateOracleCond, func() Action { return &GateOracleCond{} }},
}

// DefaultOpcodes returns the standard opcode assignment.
func DefaultOpcodes() registry.Opcodes {
	return registry.Opcodes{
		Protocol: map[string]uint8{
			AuthorityTransferName:  20,
			SetHotPathName:         22,
			SetSafeModeName:        23,
			CollectTreasuryName:    40,
			SetTreasuryName:        41,
			DisableTemplateName:    109,
			SetTemplateName:        110,
			RevisePoolName:         111,
			SetNewPoolLiqName:      112,
			SetTakeRateName:        114,
			ResyncTakeRateName:     115,
			SetRelayerTakeRateName: 116,
		},
		User: map[string]uint8{
			InitPoolName:          71,
			ApproveRouterName:     72,
			DepositSurplusName:    73,
			DisburseSurplusName:   74,
			TransferSurplusName:   75,
			SidePocketSurplusName: 76,
			ResetNonceName:        80,
			ResetNonceCondName:    81,
			GateOracleCondName:    82,
		},
		Safe: []string{
			AuthorityTransferName,
			SetHotPathName,
			SetSafeModeName,
			CollectTreasuryName,
			SetTreasuryName,
		},
	}
}

// Registries holds one registry per entry point plus the safe-mode subset of
// the protocol registry.
type Registries struct {
	Protocol *registry.Registry[Action]
	User     *registry.Registry[Action]
	Safe     *registry.Registry[Action]
}

// NewRegistries builds the registries from [table]. Commands missing from the
// table are not reachable.
func NewRegistries(table registry.Opcodes) (*Registries, error) {
	if err := table.Verify(); err != nil {
		return nil, err
	}
	r := &Registries{
		Protocol: registry.New[Action]("protocol"),
		User:     registry.New[Action]("user"),
		Safe:     registry.New[Action]("safe"),
	}
	errs := &wrappers.Errs{}
	for name, op := range table.Protocol {
		errs.Add(register(r.Protocol, protocolCommands, name, op))
	}
	for name, op := range table.User {
		errs.Add(register(r.User, userCommands, name, op))
	}
	for _, name := range table.Safe {
		cmd, ok := protocolCommands[name]
		if ok && cmd.level != guard.Sudo {
			errs.Add(fmt.Errorf("%w: %s requires %s", ErrUnsafeCommand, name, cmd.level))
			continue
		}
		errs.Add(register(r.Safe, protocolCommands, name, table.Protocol[name]))
	}
	if errs.Errored() {
		return nil, errs.Err
	}
	return r, nil
}

func register(r *registry.Registry[Action], commands map[string]command, name string, op uint8) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %q in %s registry", ErrUnknownCommand, name, r.Name())
	}
	return r.Register(&registry.Entry[Action]{
		Opcode: op,
		Name:   name,
		Level:  cmd.level,
		Decode: cmd.decode,
		New:    cmd.new,
	})
}
