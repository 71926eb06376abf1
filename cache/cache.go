package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded, TTL-based in-memory cache of extraction results.
// It is safe for concurrent use. A nil *Cache is a valid, always-empty cache.
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a Cache holding at most maxEntries values for ttl each.
// It returns nil (caching disabled) when ttl or maxEntries is not positive.
func New[V any](maxEntries int, ttl time.Duration) *Cache[V] {
	if ttl <= 0 || maxEntries <= 0 {
		return nil
	}
	return &Cache[V]{lru: expirable.NewLRU[string, V](maxEntries, nil, ttl)}
}

// Key derives a cache key from its parts.
func Key(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte("|"))
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value for key if it is present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

// Len reports the number of cached entries.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
