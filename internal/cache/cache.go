// Package cache provides an in-memory, time-bounded key/value cache.
package cache

import (
	"sync"
	"time"

	"github.com/vmunix/sparkred/internal/metrics"
)

// SearchTTL is the lifetime of a cached search result set.
const SearchTTL = 5 * time.Minute

type entry[V any] struct {
	value   V
	created time.Time
}

// Cache maps keys to values that expire a fixed duration after they were stored.
// Keys are matched exactly; no normalization is applied.
// A Cache is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time
	name    string
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	now  func() time.Time
	name string
}

// WithClock replaces the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithName sets the label used for the cache's metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// New creates a cache whose entries expire after ttl.
func New[K comparable, V any](ttl time.Duration, opts ...Option) *Cache[K, V] {
	o := options{now: time.Now, name: "default"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		now:     o.now,
		name:    o.name,
	}
}

// Get returns the value stored for key if it is younger than the TTL.
// A stale entry is evicted.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		metrics.CacheOps.WithLabelValues(c.name, "miss").Inc()
		return zero, false
	}
	if c.expired(e, c.now()) {
		delete(c.entries, key)
		metrics.CacheOps.WithLabelValues(c.name, "expired").Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.entries)))
		return zero, false
	}
	metrics.CacheOps.WithLabelValues(c.name, "hit").Inc()
	return e.value, true
}

// Set stores value under key, replacing any previous entry and restarting its TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, created: c.now()}
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.entries)))
}

// Delete removes the entry for key, if any.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		metrics.CacheOps.WithLabelValues(c.name, "evicted").Inc()
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
	metrics.CacheSize.WithLabelValues(c.name).Set(0)
}

// Len returns the number of entries held, including ones that have expired
// but not yet been read or pruned.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Prune removes all expired entries.
// Returns the number of entries removed.
func (c *Cache[K, V]) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues(c.name, "expired").Add(float64(removed))
		metrics.CacheSize.WithLabelValues(c.name).Set(float64(len(c.entries)))
	}
	return removed
}

func (c *Cache[K, V]) expired(e entry[V], now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.Sub(e.created) >= c.ttl
}
