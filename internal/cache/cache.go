package cache

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is a cached, already-encoded list response.
type entry struct {
	body      []byte
	expiresAt time.Time
}

// expired returns true if the entry has passed its expiration time.
func (e *entry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// ListCache is an in-memory LRU cache of encoded list responses, keyed by
// (tenant, collection). Writes for a tenant must invalidate its entries;
// the TTL is only a backstop against missed invalidations (e.g. another
// process writing to the same database file).
type ListCache struct {
	memory  *lru.Cache[string, *entry]
	ttl     time.Duration
	enabled bool
}

// New creates a ListCache holding at most maxEntries responses, each valid
// for ttlSeconds. A disabled cache never hits and never stores.
func New(maxEntries, ttlSeconds int, enabled bool) (*ListCache, error) {
	if maxEntries <= 0 {
		maxEntries = 256
	}

	memory, err := lru.New[string, *entry](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("cache: creating LRU: %w", err)
	}

	return &ListCache{
		memory:  memory,
		ttl:     time.Duration(ttlSeconds) * time.Second,
		enabled: enabled,
	}, nil
}

// Enabled reports whether the cache is active.
func (c *ListCache) Enabled() bool {
	return c.enabled
}

// Get returns the cached response for (tenant, collection), or false on a
// miss. Expired entries are evicted on access.
func (c *ListCache) Get(tenant, collection string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	key := cacheKey(tenant, collection)
	e, ok := c.memory.Get(key)
	if !ok {
		return nil, false
	}
	if e.expired() {
		c.memory.Remove(key)
		return nil, false
	}
	return e.body, true
}

// Put stores an encoded response for (tenant, collection).
func (c *ListCache) Put(tenant, collection string, body []byte) {
	if !c.enabled {
		return
	}

	c.memory.Add(cacheKey(tenant, collection), &entry{
		body:      body,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Invalidate drops every cached collection for the tenant. Called after
// any write in the tenant's partition; a single item write can change the
// demands listing through the cascade, so all collections go at once.
func (c *ListCache) Invalidate(tenant string) {
	if !c.enabled {
		return
	}

	prefix := tenant + "\x00"
	for _, key := range c.memory.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.memory.Remove(key)
		}
	}
}

// cacheKey joins tenant and collection with a separator that cannot occur
// in either.
func cacheKey(tenant, collection string) string {
	return tenant + "\x00" + collection
}
