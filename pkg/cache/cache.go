package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a thread-safe in-memory cache with expiration, keyed by string.
type Cache struct {
	items *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose items live for ttl and are purged every
// cleanupInterval. A zero ttl keeps items until deleted.
func New(ttl, cleanupInterval time.Duration) *Cache {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &Cache{
		items: gocache.New(expiration, cleanupInterval),
		ttl:   expiration,
	}
}

// Set adds an item with the default expiration.
func (c *Cache) Set(key string, value any) {
	c.items.Set(key, value, gocache.DefaultExpiration)
}

// SetWithExpiration adds an item with a specific expiration.
func (c *Cache) SetWithExpiration(key string, value any, d time.Duration) {
	c.items.Set(key, value, d)
}

// Get retrieves an unexpired item.
func (c *Cache) Get(key string) (any, bool) {
	return c.items.Get(key)
}

// Delete removes an item.
func (c *Cache) Delete(key string) {
	c.items.Delete(key)
}

// DeletePrefix removes every item whose key starts with prefix and returns
// how many were removed.
func (c *Cache) DeletePrefix(prefix string) int {
	removed := 0
	for key := range c.items.Items() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
			removed++
		}
	}
	return removed
}

// Flush removes all items.
func (c *Cache) Flush() {
	c.items.Flush()
}

// Count returns the number of items, including expired ones not yet purged.
func (c *Cache) Count() int {
	return c.items.ItemCount()
}

// SetOnEvicted sets the callback called when an item is deleted or expires.
func (c *Cache) SetOnEvicted(f func(string, any)) {
	c.items.OnEvicted(f)
}

// TTL returns the default expiration.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
