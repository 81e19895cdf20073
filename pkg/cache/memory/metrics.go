package memory

import "sync/atomic"

// Metrics is a point-in-time snapshot of cache performance counters.
type Metrics struct {
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Sets        int64 // Number of Set operations
	Deletes     int64 // Number of Delete operations
	Evictions   int64 // Number of evictions
	Expirations int64 // Number of expirations
	CurrentSize int64 // Current number of entries
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (m Metrics) HitRate() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(total)
}

// AtomicMetrics holds cache performance metrics using lock-free atomic
// operations. Updates never contend; reads may observe slightly stale
// values, which is acceptable for metrics.
type AtomicMetrics struct {
	hits        atomic.Int64
	misses      atomic.Int64
	sets        atomic.Int64
	deletes     atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
	currentSize atomic.Int64
}

// NewAtomicMetrics creates a new lock-free metrics instance.
func NewAtomicMetrics() *AtomicMetrics {
	return &AtomicMetrics{}
}

// RecordHit atomically increments the hit counter.
//
//go:inline
func (m *AtomicMetrics) RecordHit() {
	m.hits.Add(1)
}

// RecordMiss atomically increments the miss counter.
//
//go:inline
func (m *AtomicMetrics) RecordMiss() {
	m.misses.Add(1)
}

// RecordSet atomically increments the set counter.
//
//go:inline
func (m *AtomicMetrics) RecordSet() {
	m.sets.Add(1)
}

// RecordDelete atomically increments the delete counter.
//
//go:inline
func (m *AtomicMetrics) RecordDelete() {
	m.deletes.Add(1)
}

// RecordEviction atomically increments the eviction counter.
//
//go:inline
func (m *AtomicMetrics) RecordEviction() {
	m.evictions.Add(1)
}

// RecordExpiration atomically increments the expiration counter.
//
//go:inline
func (m *AtomicMetrics) RecordExpiration() {
	m.expirations.Add(1)
}

// IncrementSize atomically increments the current size.
//
//go:inline
func (m *AtomicMetrics) IncrementSize() {
	m.currentSize.Add(1)
}

// DecrementSize atomically decrements the current size.
//
//go:inline
func (m *AtomicMetrics) DecrementSize() {
	m.currentSize.Add(-1)
}

// AddExpirations atomically records a batch of expirations from cleanup.
//
//go:inline
func (m *AtomicMetrics) AddExpirations(count int64) {
	m.expirations.Add(count)
	m.currentSize.Add(-count)
}

// ResetSize zeroes the size counter (used by Clear).
func (m *AtomicMetrics) ResetSize() {
	m.currentSize.Store(0)
}

// Snapshot returns a point-in-time snapshot of all metrics.
// Values may not be perfectly consistent with each other due to concurrent
// updates.
func (m *AtomicMetrics) Snapshot() Metrics {
	return Metrics{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Sets:        m.sets.Load(),
		Deletes:     m.deletes.Load(),
		Evictions:   m.evictions.Load(),
		Expirations: m.expirations.Load(),
		CurrentSize: m.currentSize.Load(),
	}
}

// Reset atomically resets all metrics to zero.
// Useful for benchmarking or resetting statistics.
func (m *AtomicMetrics) Reset() {
	m.hits.Store(0)
	m.misses.Store(0)
	m.sets.Store(0)
	m.deletes.Store(0)
	m.evictions.Store(0)
	m.expirations.Store(0)
	m.currentSize.Store(0)
}
