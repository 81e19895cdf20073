package memory

import (
	"context"

	"github.com/watt-toolkit/insulator/pkg/insulator"
)

// ShardedCache partitions a case-insensitive cache across multiple shards,
// each with its own lock, reducing contention on multi-core systems.
//
// Shard selection uses the insulator folded hash — the same hash that
// addresses buckets inside each shard — so every case variant of a key
// lands on the same shard. Selecting shards with a case-sensitive hash
// would silently split "Key" and "KEY" across shards and break the
// cache's equivalence contract.
//
// The number of shards is rounded up to a power of 2. Recommended counts:
//   - 16 shards: 2-4 cores
//   - 32 shards: 4-8 cores
//   - 64 shards: 8-16 cores
type ShardedCache[V any] struct {
	shards    []*Cache[V]
	shardMask uint64
	config    Config
}

// ShardedConfig extends Config with sharding-specific options.
type ShardedConfig struct {
	Config

	// ShardCount is the number of shards. Rounded up to a power of 2.
	// If 0, defaults to 32.
	ShardCount int
}

// NewSharded creates a sharded case-insensitive cache. MaxSize applies to
// the whole cache and is divided across shards.
func NewSharded[V any](config ShardedConfig) *ShardedCache[V] {
	if config.ShardCount <= 0 {
		config.ShardCount = 32
	}
	if config.ShardCount&(config.ShardCount-1) != 0 {
		n := 1
		for n < config.ShardCount {
			n <<= 1
		}
		config.ShardCount = n
	}

	sc := &ShardedCache[V]{
		shards:    make([]*Cache[V], config.ShardCount),
		shardMask: uint64(config.ShardCount - 1),
		config:    config.Config,
	}

	shardConfig := config.Config
	if shardConfig.MaxSize > 0 {
		shardConfig.MaxSize = shardConfig.MaxSize / config.ShardCount
		if shardConfig.MaxSize == 0 {
			shardConfig.MaxSize = 100 // Minimum per shard
		}
	}

	for i := range sc.shards {
		sc.shards[i] = New[V](shardConfig)
	}

	return sc
}

// shardFor returns the shard owning every case variant of key.
//
//go:inline
func (sc *ShardedCache[V]) shardFor(key []byte) *Cache[V] {
	return sc.shards[insulator.Hash(key)&sc.shardMask]
}

// Get retrieves the value stored under any case variant of key.
func (sc *ShardedCache[V]) Get(ctx context.Context, key []byte) (V, error) {
	return sc.shardFor(key).Get(ctx, key)
}

// Set stores a value under key.
func (sc *ShardedCache[V]) Set(ctx context.Context, key []byte, value V, opts ...SetOption) error {
	return sc.shardFor(key).Set(ctx, key, value, opts...)
}

// Delete removes the entry stored under any case variant of key.
func (sc *ShardedCache[V]) Delete(ctx context.Context, key []byte) error {
	return sc.shardFor(key).Delete(ctx, key)
}

// Exists checks whether any case variant of key is present and unexpired.
func (sc *ShardedCache[V]) Exists(ctx context.Context, key []byte) (bool, error) {
	return sc.shardFor(key).Exists(ctx, key)
}

// GetOrLoad returns the cached value for key, loading it once across
// concurrent case-variant callers.
func (sc *ShardedCache[V]) GetOrLoad(ctx context.Context, key []byte, loader func(ctx context.Context) (V, error)) (V, error) {
	return sc.shardFor(key).GetOrLoad(ctx, key, loader)
}

// Clear removes all entries from all shards.
func (sc *ShardedCache[V]) Clear(ctx context.Context) error {
	for _, s := range sc.shards {
		if err := s.Clear(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the total number of entries across all shards.
func (sc *ShardedCache[V]) Size() int {
	total := 0
	for _, s := range sc.shards {
		total += s.Size()
	}
	return total
}

// Metrics aggregates metrics across all shards.
func (sc *ShardedCache[V]) Metrics() Metrics {
	var agg Metrics
	for _, s := range sc.shards {
		m := s.Metrics()
		agg.Hits += m.Hits
		agg.Misses += m.Misses
		agg.Sets += m.Sets
		agg.Deletes += m.Deletes
		agg.Evictions += m.Evictions
		agg.Expirations += m.Expirations
		agg.CurrentSize += m.CurrentSize
	}
	return agg
}

// Close shuts down all shards.
func (sc *ShardedCache[V]) Close() error {
	var firstErr error
	for _, s := range sc.shards {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
