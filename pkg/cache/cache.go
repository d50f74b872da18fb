// Package cache provides response caching for oracle round-trips.
//
// Oracle answers are deterministic for a given (query, context) pair at
// the model's temperature floor, and round-trips are the slowest and most
// expensive operation in the system, so answers are cached keyed by a
// hash of both inputs. Implementations:
//   - FileCache: file-based storage for CLI usage
//   - NullCache: no-op cache for tests or --no-cache
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of a cached oracle response.
const DefaultTTL = 24 * time.Hour

// Cache is the storage interface for cached responses.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// OracleKey generates a cache key for an oracle response from the query
// and the context summary it was asked against.
func OracleKey(query, contextSummary string) string {
	return hashKey("oracle", query, contextSummary)
}

// GraphKey generates a cache key for derived graph artifacts from the
// serialized snapshot hash and a discriminator (e.g., "svg", "dot").
func GraphKey(graphHash, kind string) string {
	return hashKey("graph", graphHash, kind)
}
