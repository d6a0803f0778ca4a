// ABOUTME: In-memory key store with TTL-based expiration
// ABOUTME: Backs token revocation, never image data

package cache

import (
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 1 * time.Minute

// Cache holds keys until their TTL passes.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Has reports whether key is present and unexpired.
func (c *Cache) Has(key string) bool {
	_, ok := c.store.Get(key)
	return ok
}

// SetWithTTL stores a value with a custom TTL. A non-positive TTL falls back
// to the cache default.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.store.Set(key, value, ttl)
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}
