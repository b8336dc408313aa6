// Package cache provides the result cache that makes discovery runs
// idempotent and resumable.
//
// Collector results and final rankings are stored under keys derived from
// every parameter that affects the result (see [Key]). Repeating a request
// with identical parameters is served from the cache without a network
// call; a crashed run picks up where it left off on the next invocation.
//
// Backends:
//   - [FileCache]: JSON files in a directory, for CLI usage
//   - [RedisCache]: shared cache for runs spread across machines
//   - [NullCache]: no-op, for --no-cache and tests
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface all cache backends implement.
//
// Values are opaque byte slices; callers JSON-marshal their records. A TTL
// of 0 means the entry never expires. Implementations must be safe for
// concurrent use, but the discovery dispatcher is the only writer by
// design: workers never touch the cache.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetJSON retrieves and unmarshals a cached value into v.
// Returns false on a miss or on an undecodable entry (treated as a miss).
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := unmarshal(data, v); err != nil {
		// Corrupt entry: drop it and report a miss so the caller refetches.
		_ = c.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
