// Package cache stores serialized search results.
//
// A [Cache] is a byte store with per-entry TTLs. Three backends exist:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis database, for the API server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer]. The default keyer hashes the dataset fingerprint
// together with every query option that changes the result, so two searches
// share an entry only when they would return the same routes:
//
//	key := keyer.SearchKey(datasetHash, cache.SearchKeyOpts{Origin: "WIW", Destination: "RFZ", Bags: 1})
//	data, hit, err := c.Get(ctx, key)
//
// Callers treat cache errors as misses; a broken cache never fails a search.
package cache

import (
	"context"
	"time"
)

// TTLSearch is the default lifetime of a cached search result.
const TTLSearch = 24 * time.Hour

// Cache is a byte store with expiring entries. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
