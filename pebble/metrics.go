// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsInterval = 10 * time.Second
	namespace       = "pebble"
	dbLabel         = "db"
)

// sampled gauges are refreshed from [pebble.Metrics] every [metricsInterval].
var sampled = []struct {
	name string
	help string
	read func(*pebble.Metrics) float64
}{
	{"tombstone_count", "approximate count of internal tombstones", func(m *pebble.Metrics) float64 {
		return float64(m.Keys.TombstoneCount)
	}},
	{"obsolete_table_size", "bytes in tables no longer referenced by the db", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ObsoleteSize)
	}},
	{"zombie_table_size", "bytes in unreferenced tables still held by iterators", func(m *pebble.Metrics) float64 {
		return float64(m.Table.ZombieSize)
	}},
	{"obsolete_wal_size", "bytes in WAL files no longer needed by the db", func(m *pebble.Metrics) float64 {
		return float64(m.WAL.ObsoletePhysicalSize)
	}},
	{"disk_space_usage", "total bytes used on disk", func(m *pebble.Metrics) float64 {
		return float64(m.DiskSpaceUsage())
	}},
}

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	batchKeys   prometheus.Counter
	compactions *prometheus.CounterVec
	active      prometheus.Gauge
	gauges      []prometheus.Gauge
}

// newMetrics registers every metric under a [dbLabel] of [name] so that the
// registries of several databases can be gathered together.
func newMetrics(name string) (*prometheus.Registry, *metrics, error) {
	registry := prometheus.NewRegistry()
	r := prometheus.WrapRegistererWith(prometheus.Labels{dbLabel: name}, registry)

	writeStall, err := metric.NewAverager("pebble_write_stall", "time spent waiting for disk write", r)
	if err != nil {
		return nil, nil, err
	}
	getLatency, err := metric.NewAverager("pebble_read_latency", "time spent waiting for db get", r)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		writeStall: writeStall,
		getLatency: getLatency,
		batchKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_keys",
			Help:      "number of keys written through committed batches",
		}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compactions",
			Help:      "number of compactions by input level",
		}, []string{"level"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		gauges: make([]prometheus.Gauge, len(sampled)),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batchKeys),
		r.Register(m.compactions),
		r.Register(m.active),
	)
	for i, s := range sampled {
		m.gauges[i] = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      s.name,
			Help:      s.help,
		})
		errs.Add(r.Register(m.gauges[i]))
	}
	return registry, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.active.Inc()
	level := "other"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.active.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) sample() {
	m := db.db.Metrics()
	for i, s := range sampled {
		db.metrics.gauges[i].Set(s.read(m))
	}
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.sample()
		case <-db.closing:
			return
		}
	}
}
