package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired. Callers that
// treat the cache as best-effort can match on it to separate misses from
// backend failures.
var ErrMiss = errors.New("cache miss")

// Cache is the port for best-effort key/value memoization. Implementations
// may drop entries at any time; nothing stored here is authoritative.
type Cache interface {
	// Get retrieves a value by key. Returns ErrMiss when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection or storage.
	Close() error
}
