package similarity

import (
	"sync/atomic"

	"github.com/patrickmn/go-cache"
)

// Cache memoizes Ratio for the lifetime of one reconciliation run. It never
// evicts, so it should be dropped with the run that owns it. A nil *Cache
// is valid and computes every ratio directly.
type Cache struct {
	store  *cache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		// No expiration and no janitor goroutine.
		store: cache.New(cache.NoExpiration, 0),
	}
}

// Ratio returns Ratio(a, b), computing it at most once per pair.
func (c *Cache) Ratio(a, b string) float64 {
	if c == nil {
		return Ratio(a, b)
	}
	key := a + "\x00" + b
	if v, found := c.store.Get(key); found {
		c.hits.Add(1)
		return v.(float64)
	}
	c.misses.Add(1)
	r := Ratio(a, b)
	c.store.Set(key, r, cache.NoExpiration)
	return r
}

// Len returns the number of memoized pairs.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// Flush empties the cache.
func (c *Cache) Flush() {
	if c == nil {
		return
	}
	c.store.Flush()
	c.hits.Store(0)
	c.misses.Store(0)
}
