package megahit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implementations must be safe for concurrent use: degree lookups are
// recorded from every goroutine traversing a graph.
type MetricsCollector interface {
	// RecordDegreeCacheHit is called when an out-degree was served from a
	// vertex's cache.
	RecordDegreeCacheHit()

	// RecordDegreeCacheMiss is called when an out-degree had to be derived
	// from the underlying graph.
	RecordDegreeCacheMiss()

	// RecordRefresh is called after each unitig graph refresh. merged counts
	// the vertices absorbed into another vertex, deleted the vertices removed.
	RecordRefresh(vertices, merged, deleted int, duration time.Duration)

	// RecordEdgesWritten is called once when an edge store is finalized.
	RecordEdgesWritten(count int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDegreeCacheHit()                      {}
func (NoopMetricsCollector) RecordDegreeCacheMiss()                     {}
func (NoopMetricsCollector) RecordRefresh(int, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordEdgesWritten(int64)                   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	DegreeCacheHits   atomic.Int64
	DegreeCacheMisses atomic.Int64
	RefreshCount      atomic.Int64
	RefreshTotalNanos atomic.Int64
	VerticesMerged    atomic.Int64
	VerticesDeleted   atomic.Int64
	EdgesWritten      atomic.Int64
}

// RecordDegreeCacheHit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDegreeCacheHit() {
	b.DegreeCacheHits.Add(1)
}

// RecordDegreeCacheMiss implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDegreeCacheMiss() {
	b.DegreeCacheMisses.Add(1)
}

// RecordRefresh implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRefresh(vertices, merged, deleted int, duration time.Duration) {
	b.RefreshCount.Add(1)
	b.RefreshTotalNanos.Add(duration.Nanoseconds())
	b.VerticesMerged.Add(int64(merged))
	b.VerticesDeleted.Add(int64(deleted))
}

// RecordEdgesWritten implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEdgesWritten(count int64) {
	b.EdgesWritten.Add(count)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DegreeCacheHits:   b.DegreeCacheHits.Load(),
		DegreeCacheMisses: b.DegreeCacheMisses.Load(),
		RefreshCount:      b.RefreshCount.Load(),
		RefreshAvgNanos:   b.getAvgRefreshNanos(),
		VerticesMerged:    b.VerticesMerged.Load(),
		VerticesDeleted:   b.VerticesDeleted.Load(),
		EdgesWritten:      b.EdgesWritten.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRefreshNanos() int64 {
	count := b.RefreshCount.Load()
	if count == 0 {
		return 0
	}
	return b.RefreshTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DegreeCacheHits   int64
	DegreeCacheMisses int64
	RefreshCount      int64
	RefreshAvgNanos   int64
	VerticesMerged    int64
	VerticesDeleted   int64
	EdgesWritten      int64
}
