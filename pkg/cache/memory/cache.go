package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/watt-toolkit/insulator/pkg/insulator"
)

// Cache is an in-memory cache whose byte keys are matched
// case-insensitively: Set(ctx, []byte("Hello"), v) is retrievable as
// "HELLO", "hello", or any other case variant, while the key's original
// casing is preserved for enumeration. It supports TTL, size limits, and
// LRU eviction.
//
// Key equivalence, ordering, and hashing all go through the insulator fold
// engine, which is exactly what makes the hash table correct: hash and
// equality agree on every byte class.
//
// Example:
//
//	cache := memory.New[*User](memory.Config{
//	    MaxSize:      1000,
//	    DefaultTTL:   5 * time.Minute,
//	    EvictionMode: memory.EvictionLRU,
//	})
//	defer cache.Close()
//
//	cache.Set(ctx, []byte("User:123"), user)
//	user, err := cache.Get(ctx, []byte("USER:123")) // hit
type Cache[V any] struct {
	// Configuration
	config Config

	// Storage: fold-aware open-addressing table with integrated LRU.
	data *foldMap[V]
	mu   sync.Mutex

	// Loader deduplication for GetOrLoad.
	flight singleflight.Group

	// Metrics (lock-free)
	metrics *AtomicMetrics

	// Lifecycle
	closed bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Config holds the configuration for the cache.
type Config struct {
	// MaxSize is the maximum number of entries in the cache.
	// When exceeded, entries are evicted according to EvictionMode.
	// 0 means the default (10000).
	MaxSize int

	// DefaultTTL is the default time-to-live for entries.
	// 0 means no expiration by default.
	DefaultTTL time.Duration

	// EvictionMode determines how entries are evicted when MaxSize is
	// reached.
	EvictionMode EvictionMode

	// CleanupInterval is how often the cleanup goroutine removes expired
	// entries. Negative disables automatic cleanup; 0 means the default
	// (one minute).
	CleanupInterval time.Duration

	// EnableMetrics enables collection of cache metrics.
	EnableMetrics bool
}

// EvictionMode determines the eviction strategy.
type EvictionMode int

const (
	// EvictionNone disables eviction. Set fails when the cache is full.
	EvictionNone EvictionMode = iota

	// EvictionLRU evicts least recently used entries.
	EvictionLRU
)

// String returns the string representation of the eviction mode.
func (m EvictionMode) String() string {
	switch m {
	case EvictionNone:
		return "None"
	case EvictionLRU:
		return "LRU"
	default:
		return "Unknown"
	}
}

// New creates a new case-insensitive in-memory cache with the given
// configuration.
func New[V any](config Config) *Cache[V] {
	// Set defaults
	if config.MaxSize <= 0 {
		config.MaxSize = 10000
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 1 * time.Minute
	}

	cache := &Cache[V]{
		config:  config,
		data:    newFoldMap[V](config.MaxSize),
		metrics: NewAtomicMetrics(),
		stopCh:  make(chan struct{}),
	}

	if config.CleanupInterval > 0 {
		cache.wg.Add(1)
		go cache.cleanupLoop()
	}

	return cache
}

// Get retrieves the value stored under any case variant of key.
// Returns ErrNotFound if the key doesn't exist or has expired.
func (c *Cache[V]) Get(ctx context.Context, key []byte) (V, error) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return zero, ErrClosed
	}

	b, ok := c.data.get(key)
	if !ok {
		if b != nil {
			// Expired: reap in place.
			c.data.deleteKey(key)
			if c.config.EnableMetrics {
				c.metrics.RecordExpiration()
				c.metrics.DecrementSize()
			}
		}
		if c.config.EnableMetrics {
			c.metrics.RecordMiss()
		}
		return zero, ErrNotFound
	}

	if c.config.EvictionMode == EvictionLRU {
		c.data.moveToFront(b)
	}

	if c.config.EnableMetrics {
		c.metrics.RecordHit()
	}
	return b.value, nil
}

// GetString is Get with a string key, without allocating a byte-slice
// copy of the key.
func (c *Cache[V]) GetString(ctx context.Context, key string) (V, error) {
	return c.Get(ctx, unsafeBytes(key))
}

// Set stores a value under key. Any existing case variant of the key is
// updated in place and retains the casing it was first stored with.
func (c *Cache[V]) Set(ctx context.Context, key []byte, value V, opts ...SetOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	options := &setOptions{ttl: c.config.DefaultTTL}
	for _, opt := range opts {
		opt(options)
	}

	// A slot counts as occupied even when its entry has expired; set will
	// reuse it in place.
	b, _ := c.data.get(key)
	occupied := b != nil

	// Evict before inserting a genuinely new key at the size limit.
	if !occupied && c.data.count >= c.config.MaxSize {
		if err := c.evict(); err != nil {
			return err
		}
	}

	c.data.set(key, value, c.calculateExpiration(options.ttl))
	if c.config.EnableMetrics {
		c.metrics.RecordSet()
		if !occupied {
			c.metrics.IncrementSize()
		}
	}
	return nil
}

// Delete removes the entry stored under any case variant of key.
func (c *Cache[V]) Delete(ctx context.Context, key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	if c.data.deleteKey(key) == nil {
		return ErrNotFound
	}

	if c.config.EnableMetrics {
		c.metrics.RecordDelete()
		c.metrics.DecrementSize()
	}
	return nil
}

// Exists checks whether any case variant of key is present and unexpired.
func (c *Cache[V]) Exists(ctx context.Context, key []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false, ErrClosed
	}

	_, ok := c.data.get(key)
	return ok, nil
}

// GetOrLoad returns the cached value for key, or runs loader to produce,
// store, and return it. Concurrent calls for any case variants of the same
// key share a single loader execution (singleflight keyed on the folded
// bytes).
func (c *Cache[V]) GetOrLoad(ctx context.Context, key []byte, loader func(ctx context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		var zero V
		return zero, err
	}

	v, err, _ := c.flight.Do(foldKey(key), func() (interface{}, error) {
		// Double-check: another flight participant may have stored it.
		if v, err := c.Get(ctx, key); err == nil {
			return v, nil
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.Set(ctx, key, v); err != nil {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Keys returns the stored keys in most-recently-used order, each with the
// casing of its first insertion.
func (c *Cache[V]) Keys() []insulator.Buf {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]insulator.Buf, 0, c.data.count)
	for b := c.data.lruHead; b != nil; b = b.next {
		// Expired entries awaiting cleanup are absent from Get and
		// Exists; keep the listing consistent with them.
		if b.isExpired() {
			continue
		}
		keys = append(keys, b.key.Clone())
	}
	return keys
}

// Clear removes all entries from the cache.
func (c *Cache[V]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.data = newFoldMap[V](c.config.MaxSize)
	c.metrics.ResetSize()
	return nil
}

// Size returns the current number of entries in the cache.
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.count
}

// Metrics returns a snapshot of the current metrics.
func (c *Cache[V]) Metrics() Metrics {
	return c.metrics.Snapshot()
}

// Close shuts down the cache and stops background goroutines.
func (c *Cache[V]) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	close(c.stopCh)
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// evict removes one entry according to the eviction mode.
// Must be called with c.mu held.
func (c *Cache[V]) evict() error {
	if c.config.EvictionMode != EvictionLRU {
		return ErrEvictionFailed
	}

	if c.data.evictLRU() == nil {
		return ErrEvictionFailed
	}

	if c.config.EnableMetrics {
		c.metrics.RecordEviction()
		c.metrics.DecrementSize()
	}
	return nil
}

// cleanupLoop runs periodically to remove expired entries.
func (c *Cache[V]) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// cleanup removes expired entries.
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := make([]*foldBucket[V], 0, 10)
	for b := c.data.lruHead; b != nil; b = b.next {
		if b.isExpired() {
			expired = append(expired, b)
		}
	}

	for _, b := range expired {
		c.data.deleteKey(b.key.Bytes())
	}

	if c.config.EnableMetrics && len(expired) > 0 {
		c.metrics.AddExpirations(int64(len(expired)))
	}
}

// calculateExpiration calculates the expiration time based on TTL.
func (c *Cache[V]) calculateExpiration(ttl time.Duration) time.Time {
	if ttl == 0 {
		return time.Time{} // Zero time means no expiration
	}
	return time.Now().Add(ttl)
}

// foldKey folds key to its canonical lowercase form as a string, used as
// the singleflight key so concurrent case variants share one load.
func foldKey(key []byte) string {
	folded := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		folded[i] = insulator.Fold(key[i])
	}
	return string(folded)
}

// SetOption is a functional option for Set operations.
type SetOption func(*setOptions)

type setOptions struct {
	ttl time.Duration
}

// WithTTL sets a custom TTL for this entry.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = ttl
	}
}

// WithNoExpiration sets the entry to never expire.
func WithNoExpiration() SetOption {
	return func(o *setOptions) {
		o.ttl = 0
	}
}
