package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 256

// Cache is a bounded LRU cache with hit/miss accounting.
// Eviction is strictly least-recently-used at the capacity bound.
type Cache[K comparable, V any] struct {
	lru    *lru.Cache[K, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	// Hits is the number of successful lookups.
	Hits int64

	// Misses is the number of failed lookups.
	Misses int64

	// Entries is the current number of cached values.
	Entries int
}

// HitRate returns the fraction of lookups served from cache, in [0,1].
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// New creates a cache with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// lru.New only fails on non-positive sizes, which are clamped above.
	inner, _ := lru.New[K, V](capacity)
	return &Cache[K, V]{lru: inner}
}

// Get retrieves a value, marking it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	val, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return val, ok
}

// Put stores a value, evicting the least recently used entry when the
// capacity bound is reached.
func (c *Cache[K, V]) Put(key K, value V) {
	c.lru.Add(key, value)
}

// Len returns the current number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Purge removes all entries and resets accounting.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns a snapshot of cache effectiveness.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.lru.Len(),
	}
}
