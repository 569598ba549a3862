package cache

import (
	"context"
	"time"
)

// Store is the backing key-value store for cached query results. Entries are
// disposable projections of server state: a write never merges into an entry,
// it deletes and lets the next read re-fetch.
type Store interface {
	// Get returns the cached value for key, reporting whether a live entry
	// was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the number removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases backend resources.
	Close() error
}
