// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	committed    *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	safeMode     prometheus.Gauge
	hotPathOpen  prometheus.Gauge
	stateChanges prometheus.Counter

	execute metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	execute, err := metric.NewAverager(
		"dispatch_execute",
		"time spent decoding, executing and committing a command",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "committed",
			Help:      "number of commands committed",
		}, []string{"path", "name"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "rejected",
			Help:      "number of commands rejected",
		}, []string{"path", "category"}),
		safeMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emergency",
			Name:      "safe_mode",
			Help:      "1 while emergency safe mode is active",
		}),
		hotPathOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emergency",
			Name:      "hot_path_open",
			Help:      "1 while the hot path is open",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Name:      "state_changes",
			Help:      "number of keys written by committed commands",
		}),
		execute: execute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.committed),
		r.Register(m.rejected),
		r.Register(m.safeMode),
		r.Register(m.hotPathOpen),
		r.Register(m.stateChanges),
	)
	return m, errs.Err
}

func gaugeBool(g prometheus.Gauge, b bool) {
	if b {
		g.Set(1)
		return
	}
	g.Set(0)
}
