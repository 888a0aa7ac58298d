// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/registry"
)

func defaultRegistries(t *testing.T) *Registries {
	r, err := NewRegistries(DefaultOpcodes())
	require.NoError(t, err)
	return r
}

func entryFor(t *testing.T, r *Registries, a Action) *registry.Entry[Action] {
	if e, ok := r.Protocol.LookupType(a); ok {
		return e
	}
	e, ok := r.User.LookupType(a)
	require.True(t, ok, "%T not registered", a)
	return e
}

// sampleActions holds one populated value of every command shape.
func sampleActions() []Action {
	base, quote := sortedPair()
	oracle := codectest.NewContractAddress()
	return []Action{
		&AuthorityTransfer{Role: SudoRole, Target: codectest.NewContractAddress()},
		&SetHotPath{Open: false},
		&SetSafeMode{Enabled: true},
		&CollectTreasury{Token: codec.EmptyAddress},
		&SetTreasury{Treasury: codectest.NewContractAddress()},
		&DisableTemplate{Index: 36},
		&SetTemplate{
			Index:         36,
			FeeRate:       500,
			TickSize:      16,
			JITThresh:     3,
			KnockoutFlags: 0x21,
			OracleFlags:   1,
			PriceFloor:    uint256.NewInt(1),
			PriceCeiling:  new(uint256.Int).Lsh(uint256.NewInt(1), 96),
			IsStableSwap:  true,
		},
		&RevisePool{Base: base, Quote: quote, Index: 36, FeeRate: 250, TickSize: 8, JITThresh: 1, KnockoutFlags: 2},
		&SetNewPoolLiq{Liquidity: 10_000},
		&SetTakeRate{Rate: 64},
		&ResyncTakeRate{Base: base, Quote: quote, Index: 36},
		&SetRelayerTakeRate{Rate: 12},
		&InitPool{Base: codec.EmptyAddress, Quote: quote, Index: 36, Price: uint256.NewInt(5_000), WrapNative: true},
		&ApproveRouter{Router: codectest.NewContractAddress(), Calls: 10, Callpaths: []uint16{1, 128, 4}},
		&DepositSurplus{surplusMove{Recipient: codec.EmptyAddress, Token: quote, Amount: 7}},
		&DisburseSurplus{surplusMove{Recipient: alice, Token: codec.EmptyAddress, Amount: -5}},
		&TransferSurplus{surplusMove{Recipient: bob, Token: base, Amount: 1 << 40}},
		&SidePocketSurplus{FromSalt: 0, ToSalt: 9, Token: quote, Amount: -1},
		&ResetNonce{Salt: codec.Hash{1, 2, 3}, Nonce: 77},
		&ResetNonceCond{Salt: codec.Hash{9}, Nonce: 1, Oracle: oracle, Args: []byte{0xde, 0xad}},
		&GateOracleCond{Oracle: oracle},
	}
}

func TestRoundTrip(t *testing.T) {
	r := defaultRegistries(t)
	samples := sampleActions()
	require.Len(t, samples, len(protocolCommands)+len(userCommands))

	for _, a := range samples {
		e := entryFor(t, r, a)
		t.Run(e.Name, func(t *testing.T) {
			require := require.New(t)

			payload, err := Encode(e.Opcode, a)
			require.NoError(err)
			require.Len(payload, 1+a.Size())

			op, err := codec.PeekOpcode(payload)
			require.NoError(err)
			require.Equal(e.Opcode, op)

			decoded, err := Decode(payload, e)
			require.NoError(err)
			require.Equal(a, decoded)
		})
	}
}

func TestDecodeStrict(t *testing.T) {
	r := defaultRegistries(t)
	e, ok := r.Protocol.LookupName(SetHotPathName)
	require.True(t, ok)
	valid, err := Encode(e.Opcode, &SetHotPath{Open: true})
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
		err     error
	}{
		{
			name:    "trailing byte",
			payload: append(append([]byte{}, valid...), 0),
			err:     codec.ErrTrailingBytes,
		},
		{
			name:    "missing field",
			payload: valid[:1],
			err:     codec.ErrDecode,
		},
		{
			name:    "bool out of range",
			payload: []byte{e.Opcode, 2},
			err:     codec.ErrDecode,
		},
		{
			name:    "wrong opcode",
			payload: []byte{e.Opcode + 1, 1},
			err:     codec.ErrUnexpectedOpcode,
		},
		{
			name:    "empty",
			payload: nil,
			err:     codec.ErrDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload, e)
			require.ErrorIs(t, err, tt.err)
			require.ErrorIs(t, err, codec.ErrDecode)
		})
	}
}

func TestDecodeBounds(t *testing.T) {
	require := require.New(t)
	r := defaultRegistries(t)

	e, ok := r.User.LookupName(ApproveRouterName)
	require.True(ok)
	p := codec.NewWriter(0, 1<<20)
	p.PackByte(e.Opcode)
	p.PackAddress(alice)
	p.PackUint32(1)
	p.PackUint16(MaxCallpaths + 1)
	_, err := Decode(p.Bytes(), e)
	require.ErrorIs(err, codec.ErrTooManyItems)
	require.ErrorIs(err, codec.ErrDecode)

	e, ok = r.User.LookupName(GateOracleCondName)
	require.True(ok)
	p = codec.NewWriter(0, 1<<20)
	p.PackByte(e.Opcode)
	p.PackAddress(alice)
	p.PackBytes(make([]byte, MaxOracleArgs+1))
	_, err = Decode(p.Bytes(), e)
	require.ErrorIs(err, codec.ErrInvalidSize)
}
