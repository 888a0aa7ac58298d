// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/hyperdex/api"
	"github.com/ava-labs/hyperdex/api/indexer"
	"github.com/ava-labs/hyperdex/api/jsonrpc"
	"github.com/ava-labs/hyperdex/api/ws"
	"github.com/ava-labs/hyperdex/controller"
	"github.com/ava-labs/hyperdex/server"
	"github.com/ava-labs/hyperdex/utils"

	apistate "github.com/ava-labs/hyperdex/api/state"
)

const (
	baseURL      = "/ext"
	apiBase      = "dex"
	metricsBase  = "metrics"
	metricsRoute = ""
)

var errAPIDisabled = errors.New("api is disabled in the config")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API and event stream over the local data directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		var stream *ws.Server
		n, err := openNode(ctx, cmd, func(n *node) []controller.Option {
			if !n.cfg.API.Stream.Enabled {
				return nil
			}
			stream = newStream(n)
			return []controller.Option{controller.WithSubscriptions(stream)}
		})
		if err != nil {
			return err
		}
		defer n.Close()

		if !n.cfg.API.Enabled {
			return errAPIDisabled
		}
		s, err := newAPIServer(n, stream)
		if err != nil {
			return err
		}
		utils.Outf("{{green}}serving:{{/}} http://%s%s/%s\n", s.Addr(), baseURL, apiBase)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(s.Dispatch)
		g.Go(func() error {
			<-gctx.Done()
			n.log.Info("shutting down api server")
			return s.Shutdown()
		})
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newStream(n *node) *ws.Server {
	cfg := ws.NewDefaultConfig()
	cfg.MaxPendingMessages = n.cfg.API.Stream.MaxPendingMessages
	cfg.AcceptCommands = n.cfg.API.Stream.AcceptCommands
	if cfg.AcceptCommands {
		n.log.Warn("event stream accepts commands from any connected client")
	}
	return ws.NewServer(n.log, n.tracer, cfg)
}

func newAPIServer(n *node, stream *ws.Server) (server.Server, error) {
	listener, err := net.Listen("tcp", n.cfg.API.ListenAddress)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on %s: %w", n.cfg.API.ListenAddress, err)
	}
	cfg := server.NewDefaultConfig()
	cfg.BaseURL = baseURL
	cfg.HTTP.ReadTimeout = n.cfg.API.ReadTimeout
	cfg.HTTP.WriteTimeout = n.cfg.API.WriteTimeout
	cfg.AllowedOrigins = n.cfg.API.AllowedOrigins
	cfg.AllowedHosts = n.cfg.API.AllowedHosts
	cfg.ShutdownTimeout = n.cfg.API.ShutdownDelay
	s := server.New(n.log, listener, cfg)

	handlers := make([]api.Handler, 0, 4)
	h, err := jsonrpc.JSONRPCServerFactory{}.New(jsonrpc.Backend{
		Log:        n.log,
		Tracer:     n.tracer,
		Controller: n.d,
		Events:     n.recorder,
	})
	if err != nil {
		return nil, err
	}
	handlers = append(handlers, h)
	if h, err = apistate.NewHandler(n.tracer, n.d); err != nil {
		return nil, err
	}
	handlers = append(handlers, h)
	if h, err = indexer.NewHandler(n.tracer, n.indexer); err != nil {
		return nil, err
	}
	handlers = append(handlers, h)
	if stream != nil {
		handlers = append(handlers, stream.Handler(n.d))
	}

	for _, h := range handlers {
		if err := s.AddRoute(h.Handler, apiBase, h.Path); err != nil {
			_ = listener.Close()
			return nil, err
		}
	}
	metrics := promhttp.HandlerFor(n.gatherers, promhttp.HandlerOpts{})
	if err := s.AddRoute(metrics, metricsBase, metricsRoute); err != nil {
		_ = listener.Close()
		return nil, err
	}
	n.log.Info("api server ready",
		zap.Stringer("address", s.Addr()),
		zap.Strings("routes", s.Routes()),
	)
	return s, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addNodeFlags(serveCmd)
}
