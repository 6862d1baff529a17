package lexgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one callback per index operation, after the
// operation finishes and before its result is returned. Implementations
// bridge to monitoring systems; examples/observability shows a Prometheus
// collector built on this interface.
//
// Callbacks run on the operation's goroutine, so implementations should be
// cheap and must be safe for concurrent use.
type MetricsCollector interface {
	// RecordFit reports a completed fit over docs documents.
	RecordFit(docs int, duration time.Duration, err error)

	// RecordSearch reports a completed search that requested k results.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordSave reports a completed save.
	RecordSave(duration time.Duration, err error)

	// RecordLoad reports a completed load.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector drops every callback. It is the default collector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)        {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)        {}

// BasicMetricsCollector counts operations in memory. It covers debugging
// and smoke tests without pulling in a metrics backend; read it through
// GetStats.
type BasicMetricsCollector struct {
	fitCount         atomic.Int64
	fitErrors        atomic.Int64
	fitDocs          atomic.Int64
	fitTotalNanos    atomic.Int64
	searchCount      atomic.Int64
	searchErrors     atomic.Int64
	searchTotalNanos atomic.Int64
	saveCount        atomic.Int64
	saveErrors       atomic.Int64
	loadCount        atomic.Int64
	loadErrors       atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(docs int, duration time.Duration, err error) {
	b.fitCount.Add(1)
	b.fitDocs.Add(int64(docs))
	b.fitTotalNanos.Add(duration.Nanoseconds())

	if err != nil {
		b.fitErrors.Add(1)
	}
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ int, duration time.Duration, err error) {
	b.searchCount.Add(1)
	b.searchTotalNanos.Add(duration.Nanoseconds())

	if err != nil {
		b.searchErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(_ time.Duration, err error) {
	b.saveCount.Add(1)

	if err != nil {
		b.saveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ time.Duration, err error) {
	b.loadCount.Add(1)

	if err != nil {
		b.loadErrors.Add(1)
	}
}

// GetStats snapshots the counters. Counters advance independently, so a
// snapshot taken under concurrent load is internally approximate.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		FitCount:     b.fitCount.Load(),
		FitErrors:    b.fitErrors.Load(),
		FitDocs:      b.fitDocs.Load(),
		SearchCount:  b.searchCount.Load(),
		SearchErrors: b.searchErrors.Load(),
		SaveCount:    b.saveCount.Load(),
		SaveErrors:   b.saveErrors.Load(),
		LoadCount:    b.loadCount.Load(),
		LoadErrors:   b.loadErrors.Load(),
	}

	if stats.SearchCount > 0 {
		stats.SearchAvgNanos = b.searchTotalNanos.Load() / stats.SearchCount
	}

	return stats
}

// BasicMetricsStats is a point-in-time snapshot of a BasicMetricsCollector.
type BasicMetricsStats struct {
	FitCount       int64
	FitErrors      int64
	FitDocs        int64
	SearchCount    int64
	SearchErrors   int64
	SearchAvgNanos int64
	SaveCount      int64
	SaveErrors     int64
	LoadCount      int64
	LoadErrors     int64
}
