// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/codectest"
	"github.com/ava-labs/hyperdex/config"
	"github.com/ava-labs/hyperdex/controller"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/genesis"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/trace"
)

var (
	sudo  = codectest.NewContractAddress()
	alice = codectest.NewExternalAddress()
)

type testEnv struct {
	s   *Server
	d   *controller.Dispatcher
	uri string
}

func newTestEnv(t *testing.T, acceptCommands bool) *testEnv {
	require := require.New(t)
	ctx := context.Background()

	cfg, err := config.New(nil)
	require.NoError(err)
	store := state.NewInMemoryStore()
	g := genesis.NewDefaultGenesis(sudo, codectest.NewContractAddress())
	g.Templates = []*genesis.TemplateAllocation{{
		Index:        36,
		FeeRate:      30,
		TickSize:     1,
		PriceFloor:   uint256.NewInt(1),
		PriceCeiling: uint256.NewInt(1 << 40),
	}}
	require.NoError(g.InitializeState(ctx, trace.Noop("test"), cfg.Rules(), store))

	wsCfg := NewDefaultConfig()
	wsCfg.AcceptCommands = acceptCommands
	s := NewServer(logging.NoLog{}, trace.Noop("test"), wsCfg)

	collab := external.NewJournal(logging.NoLog{}, 0).Collaborators(external.NewMapDirectory())
	d, err := controller.New(cfg, store, collab, controller.WithSubscriptions(s))
	require.NoError(err)

	h := s.Handler(d)
	require.Equal(Endpoint, h.Path)
	srv := httptest.NewServer(h.Handler)
	t.Cleanup(srv.Close)

	uri, err := URI(srv.URL)
	require.NoError(err)
	return &testEnv{s: s, d: d, uri: uri}
}

func (e *testEnv) dial(t *testing.T) *Client {
	c, err := NewClient(context.Background(), e.uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.Eventually(t, func() bool { return e.s.Connections() > 0 }, 5*time.Second, 10*time.Millisecond)
	return c
}

func (e *testEnv) payload(t *testing.T, a actions.Action) []byte {
	entry, ok := e.d.Registries().Protocol.LookupType(a)
	require.True(t, ok)
	b, err := actions.Encode(entry.Opcode, a)
	require.NoError(t, err)
	return b
}

func TestEventStream(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, false)
	c := env.dial(t)

	require.NoError(c.SubscribeEvents())
	require.Eventually(func() bool { return env.s.Listeners() == 1 }, 5*time.Second, 10*time.Millisecond)

	payload := env.payload(t, &actions.SetSafeMode{Enabled: true})
	e, err := env.d.ProtocolCmd(context.Background(), sudo, payload, 42)
	require.NoError(err)

	msg, err := c.Listen()
	require.NoError(err)
	require.Equal(EventMode, msg.Mode)
	require.Nil(msg.Result)
	require.Equal(e.Path, msg.Event.Path)
	require.Equal(e.Name, msg.Event.Name)
	require.Equal(sudo, msg.Event.Actor)
	require.Equal(int64(42), msg.Event.Timestamp)
	require.Equal(codec.Bytes(payload), msg.Event.Payload)
}

func TestSubmitCommand(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, true)
	c := env.dial(t)

	payload := env.payload(t, &actions.SetSafeMode{Enabled: true})
	require.NoError(c.Submit(Command{
		Path:      event.ProtocolPath,
		Caller:    sudo,
		Timestamp: 7,
		Payload:   payload,
	}))
	msg, err := c.Listen()
	require.NoError(err)
	require.Equal(CommandMode, msg.Mode)
	require.Empty(msg.Result.Error)
	require.Equal(sudo, msg.Result.Event.Actor)
	require.Equal(codec.Bytes(payload), msg.Result.Event.Payload)

	mode, err := env.d.Mode(context.Background())
	require.NoError(err)
	require.True(mode.InSafeMode)

	require.NoError(c.Submit(Command{
		Path:    event.ProtocolPath,
		Caller:  alice,
		Payload: env.payload(t, &actions.SetSafeMode{Enabled: false}),
	}))
	msg, err = c.Listen()
	require.NoError(err)
	require.Nil(msg.Result.Event)
	require.Equal(controller.AuthorizationError.String(), msg.Result.Category)
}

func TestSubmitDisabled(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, false)
	c := env.dial(t)

	require.NoError(c.Submit(Command{
		Path:    event.ProtocolPath,
		Caller:  sudo,
		Payload: env.payload(t, &actions.SetSafeMode{Enabled: true}),
	}))
	msg, err := c.Listen()
	require.NoError(err)
	require.Equal(ErrCommandsDisabled.Error(), msg.Result.Error)

	mode, err := env.d.Mode(context.Background())
	require.NoError(err)
	require.False(mode.InSafeMode)
}

func TestCloseDisconnects(t *testing.T) {
	require := require.New(t)
	env := newTestEnv(t, false)
	c := env.dial(t)

	require.NoError(env.d.Close())
	_, err := c.Listen()
	require.Error(err)
	require.Eventually(func() bool { return env.s.Connections() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestCommandFrame(t *testing.T) {
	require := require.New(t)

	cmd := Command{
		Path:      event.UserPath,
		Caller:    alice,
		Timestamp: -3,
		Payload:   []byte{1, 2, 3},
	}
	b, err := PackCommand(cmd)
	require.NoError(err)
	require.Equal(CommandMode, b[0])
	got, err := UnpackCommand(b)
	require.NoError(err)
	require.Equal(cmd, got)

	_, err = UnpackCommand(append(b, 0))
	require.ErrorIs(err, codec.ErrTrailingBytes)

	b[1] = 9
	_, err = UnpackCommand(b)
	require.ErrorIs(err, ErrUnknownPath)

	_, err = UnpackCommand([]byte{EventMode})
	require.ErrorIs(err, ErrUnknownMode)

	_, err = PackCommand(Command{Path: "admin"})
	require.ErrorIs(err, ErrUnknownPath)
}

func TestURI(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
		err      bool
	}{
		{endpoint: "http://127.0.0.1:9650/ext/dex", want: "ws://127.0.0.1:9650/ext/dex/ws"},
		{endpoint: "https://dex.example/ext/dex/", want: "wss://dex.example/ext/dex/ws"},
		{endpoint: "ftp://dex.example", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := URI(tt.endpoint)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, strings.HasSuffix(got, Endpoint))
			require.Equal(t, tt.want, got)
		})
	}
}
