package memory

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound indicates the key does not exist or has expired.
	ErrNotFound = errors.New("key not found")

	// ErrClosed indicates the cache has been closed.
	ErrClosed = errors.New("cache is closed")

	// ErrEvictionFailed indicates the cache is full and no entry could be
	// evicted. This occurs with EvictionNone when MaxSize is reached.
	ErrEvictionFailed = errors.New("eviction failed to free space")
)

// IsNotFound returns true if the error is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
