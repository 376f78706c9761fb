package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores short text values such as web-search snippets.
type Cache interface {
	GetString(ctx context.Context, key string) (val string, hit bool, err error)
	SetString(ctx context.Context, key, val string, ttl time.Duration) error
}

// maxMemoryItems bounds MemoryCache; expired entries are swept first, then an
// arbitrary live entry is evicted.
const maxMemoryItems = 1024

// MemoryCache is a process-local Cache, used for search results when Redis
// is not configured.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	val       string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: map[string]memoryItem{}, now: time.Now}
}

func (c *MemoryCache) GetString(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return "", false, nil
	}
	if !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt) {
		delete(c.items, key)
		return "", false, nil
	}
	return it.val, true, nil
}

func (c *MemoryCache) SetString(_ context.Context, key, val string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.items[key]; !ok && len(c.items) >= maxMemoryItems {
		c.evict(now)
	}

	it := memoryItem{val: val}
	if ttl > 0 {
		it.expiresAt = now.Add(ttl)
	}
	c.items[key] = it
	return nil
}

func (c *MemoryCache) evict(now time.Time) {
	for k, it := range c.items {
		if !it.expiresAt.IsZero() && !now.Before(it.expiresAt) {
			delete(c.items, k)
		}
	}
	for k := range c.items {
		if len(c.items) < maxMemoryItems {
			return
		}
		delete(c.items, k)
	}
}
