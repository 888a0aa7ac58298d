// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperdex/api/indexer"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/config"
	"github.com/ava-labs/hyperdex/controller"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/genesis"
	"github.com/ava-labs/hyperdex/pebble"
	"github.com/ava-labs/hyperdex/state/tstate"
	"github.com/ava-labs/hyperdex/utils"

	htrace "github.com/ava-labs/hyperdex/trace"
)

var errNoGenesis = errors.New("state is not initialized and no genesis was provided")

// node is a dispatcher over the local data directory.
type node struct {
	cfg    *config.Config
	logs   *logFactory
	log    logging.Logger
	tracer trace.Tracer

	registry  *prometheus.Registry
	gatherers prometheus.Gatherers

	db       *pebble.Database
	indexDB  *pebble.Database
	indexer  *indexer.Indexer
	recorder *event.Recorder
	journal  *external.Journal

	d *controller.Dispatcher
}

func addNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("genesis", "", "Genesis file applied when the data directory is empty")
	cmd.Flags().StringSlice("acceptor", nil, "Contract address that accepts authority transfers")
	cmd.Flags().StringSlice("oracle", nil, "Contract address of an oracle that approves every check")
	cmd.Flags().Uint64("engine-min-liquidity", 0, "Liquidity the offline curve engine locks per pool")
	cmd.Flags().Bool("quiet", false, "Only write logs to the data directory")
}

// approveAll is an oracle that passes every check.
type approveAll struct{}

func (approveAll) CheckNonceSet(context.Context, codec.Address, [32]byte, uint32, []byte) (bool, error) {
	return true, nil
}

func (approveAll) CheckCond(context.Context, codec.Address, []byte) (bool, error) {
	return true, nil
}

func directoryFromFlags(cmd *cobra.Command) (*external.MapDirectory, error) {
	dir := external.NewMapDirectory()
	acceptors, err := cmd.Flags().GetStringSlice("acceptor")
	if err != nil {
		return nil, err
	}
	for _, s := range acceptors {
		addr, err := codec.StringToAddress(s)
		if err != nil {
			return nil, fmt.Errorf("invalid acceptor %q: %w", s, err)
		}
		dir.Deploy(addr, external.StaticAcceptor(true))
	}
	oracles, err := cmd.Flags().GetStringSlice("oracle")
	if err != nil {
		return nil, err
	}
	for _, s := range oracles {
		addr, err := codec.StringToAddress(s)
		if err != nil {
			return nil, fmt.Errorf("invalid oracle %q: %w", s, err)
		}
		dir.Deploy(addr, approveAll{})
	}
	return dir, nil
}

// nodeOption adds dispatcher options once logging and tracing are set up.
type nodeOption func(n *node) []controller.Option

func openNode(ctx context.Context, cmd *cobra.Command, opts ...nodeOption) (*node, error) {
	n := &node{registry: prometheus.NewRegistry()}
	if err := n.open(ctx, cmd, opts); err != nil {
		_ = n.Close()
		return nil, err
	}
	return n, nil
}

func (n *node) open(ctx context.Context, cmd *cobra.Command, opts []nodeOption) error {
	var err error
	n.cfg, err = loadControllerConfig(cmd)
	if err != nil {
		return err
	}
	dataDir, err := getConfigValue(cmd, "data-dir", true)
	if err != nil {
		return err
	}
	logDir := n.cfg.LogDir
	if logDir == "" {
		logDir, err = utils.InitSubDirectory(dataDir, "logs")
		if err != nil {
			return err
		}
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	n.logs = newLogFactory(newLogConfig(logDir, n.cfg.LogLevel, quiet))
	n.log, err = n.logs.Make("hyperdex")
	if err != nil {
		return err
	}
	if n.cfg.TraceConfig.Enabled {
		n.tracer, err = htrace.New(&n.cfg.TraceConfig)
		if err != nil {
			return err
		}
	} else {
		n.tracer = htrace.Noop(n.cfg.TraceConfig.AppName)
	}

	storageDir := n.cfg.StorageDir
	if storageDir == "" {
		storageDir = dataDir
	}
	stateDir, err := utils.InitSubDirectory(storageDir, "state")
	if err != nil {
		return err
	}
	n.db, err = openDB(n, "state", stateDir)
	if err != nil {
		return err
	}
	if err := n.applyGenesis(ctx, cmd); err != nil {
		return err
	}

	indexDir, err := utils.InitSubDirectory(storageDir, "indexer")
	if err != nil {
		return err
	}
	n.indexDB, err = openDB(n, "indexer", indexDir)
	if err != nil {
		return err
	}
	n.indexer, err = indexer.New(ctx, n.indexDB)
	if err != nil {
		return err
	}
	n.recorder = event.NewRecorder(n.cfg.EventHistory)

	minLiq, err := cmd.Flags().GetUint64("engine-min-liquidity")
	if err != nil {
		return err
	}
	dir, err := directoryFromFlags(cmd)
	if err != nil {
		return err
	}
	n.journal = external.NewJournal(n.log, minLiq)

	dopts := []controller.Option{
		controller.WithLogger(n.log),
		controller.WithTracer(n.tracer),
		controller.WithRegisterer(n.registry),
		controller.WithSubscriptions(n.recorder, n.indexer),
	}
	for _, opt := range opts {
		dopts = append(dopts, opt(n)...)
	}
	n.d, err = controller.New(n.cfg, n.db, n.journal.Collaborators(dir), dopts...)
	if err != nil {
		return err
	}
	n.gatherers = append(prometheus.Gatherers{n.registry}, n.gatherers...)
	return nil
}

// openDB opens a pebble database and collects its metrics.
func openDB(n *node, name string, dir string) (*pebble.Database, error) {
	cfg := pebble.NewDefaultConfig()
	cfg.Name = name
	db, registry, err := pebble.New(dir, cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", dir, err)
	}
	n.gatherers = append(n.gatherers, registry)
	return db, nil
}

func (n *node) applyGenesis(ctx context.Context, cmd *cobra.Command) error {
	initialized, err := genesis.Initialized(ctx, n.db)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}
	path, err := cmd.Flags().GetString("genesis")
	if err != nil {
		return err
	}
	if path == "" {
		return errNoGenesis
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	g, err := genesis.Load(b)
	if err != nil {
		return err
	}
	view := tstate.NewView(n.db)
	if err := g.InitializeState(ctx, n.tracer, n.cfg.Rules(), view); err != nil {
		return err
	}
	if err := view.Commit(ctx, n.db); err != nil {
		return err
	}
	n.log.Info("initialized state from genesis",
		zap.String("path", path),
		zap.Stringer("sudo", g.Sudo),
		zap.Stringer("authority", g.Authority),
	)
	return nil
}

func (n *node) Close() error {
	errs := wrappers.Errs{}
	if n.d != nil {
		errs.Add(n.d.Close())
	}
	if n.indexDB != nil {
		errs.Add(n.indexDB.Close())
	}
	if n.db != nil {
		errs.Add(n.db.Close())
	}
	if n.tracer != nil {
		errs.Add(n.tracer.Close())
	}
	if n.logs != nil {
		n.logs.Close()
	}
	return errs.Err
}
