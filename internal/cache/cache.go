// Package cache implements the keyed query cache the resource layer reads
// through. Cached values are disposable projections of server state: writes
// go through the invalidate-then-refetch path, never in-place mutation.
package cache

import (
	"context"
	"sync"
	"time"

	"hireflow/internal/common/logger"
	"hireflow/internal/common/metrics"
)

// FetchFunc produces the value for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// inflight tracks one in-progress fetch shared by concurrent callers.
type inflight struct {
	done  chan struct{}
	value []byte
	err   error
}

// Cache couples a Store with in-flight request de-duplication and the
// invalidation bus.
type Cache struct {
	store  Store
	bus    *Bus
	logger logger.Logger

	mu      sync.Mutex
	pending map[string]*inflight
}

func New(store Store, log logger.Logger) *Cache {
	return &Cache{
		store:   store,
		bus:     NewBus(),
		logger:  log.WithFields(map[string]interface{}{"component": "cache"}),
		pending: make(map[string]*inflight),
	}
}

// Bus exposes the invalidation bus for subscribers.
func (c *Cache) Bus() *Bus {
	return c.bus
}

// Fetch returns the cached value for key, or runs fn exactly once for all
// concurrent callers of the same key and caches its result. The second
// return value reports whether the value came from cache.
func (c *Cache) Fetch(ctx context.Context, key string, ttl time.Duration, fn FetchFunc) ([]byte, bool, error) {
	resource := resourceOf(key)

	if value, ok, err := c.store.Get(ctx, key); err == nil && ok {
		metrics.CacheHits.WithLabelValues(resource).Inc()
		return value, true, nil
	} else if err != nil {
		c.logger.WithError(err).Warn("cache read failed, falling through to fetch", map[string]interface{}{
			"key": key,
		})
	}

	metrics.CacheMisses.WithLabelValues(resource).Inc()

	c.mu.Lock()
	if call, ok := c.pending[key]; ok {
		c.mu.Unlock()
		metrics.DeduplicatedFetches.Inc()
		select {
		case <-call.done:
			return call.value, false, call.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	call := &inflight{done: make(chan struct{})}
	c.pending[key] = call
	c.mu.Unlock()

	call.value, call.err = fn(ctx)

	if call.err == nil {
		if err := c.store.Set(ctx, key, call.value, ttl); err != nil {
			c.logger.WithError(err).Warn("cache write failed", map[string]interface{}{
				"key": key,
			})
		}
	}

	c.mu.Lock()
	delete(c.pending, key)
	c.mu.Unlock()
	close(call.done)

	return call.value, false, call.err
}

// Invalidate marks every entry under the given prefixes stale and publishes
// one event per prefix, in program order. Re-fetches triggered by the events
// run independently; no completion ordering is guaranteed across views.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		removed, err := c.store.DeletePrefix(ctx, prefix)
		if err != nil {
			c.logger.WithError(err).Warn("cache invalidation failed", map[string]interface{}{
				"prefix": prefix,
			})
			continue
		}

		metrics.CacheInvalidations.WithLabelValues(resourceOf(prefix)).Inc()
		c.logger.Debug("cache invalidated", map[string]interface{}{
			"prefix":  prefix,
			"removed": removed,
		})
		c.bus.Publish(Event{Prefix: prefix})
	}
}

// Close releases the backing store.
func (c *Cache) Close() error {
	return c.store.Close()
}
