package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetPut(t *testing.T) {
	c := New[string, int](4)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Put("a", 1)
	val, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, val)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_Stats(t *testing.T) {
	c := New[string, string](8)

	c.Put("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("absent")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}

func TestCache_Purge(t *testing.T) {
	c := New[string, int](4)
	c.Put("a", 1)
	c.Get("a")

	c.Purge()

	assert.Equal(t, 0, c.Len())
	stats := c.Stats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestCache_NonPositiveCapacity(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)

	val, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, val)
}
