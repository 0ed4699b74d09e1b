// Package cache stores image measurements between runs.
//
// Measuring an image means fully decoding it, which dominates the runtime of
// a planning pass over a large folder. The pipeline stores each successful
// measurement under a key derived from the file content and the sizing
// options, so re-running with the same inputs skips the decode.
//
// # Backends
//
//   - NullCache: never stores anything (--no-cache, tests)
//   - FileCache: JSON entries under the XDG cache directory (CLI default)
//   - RedisCache: shared cache for several machines (--cache-url redis://...)
//
// Failed measurements are never cached; a decode error must surface on every
// run.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long a measurement stays valid.
const DefaultTTL = 30 * 24 * time.Hour
