// Package cache provides a small bounded TTL cache for resolved content
// rectangles. The cache is an explicit object owned by its caller; nothing
// here has process lifetime.
package cache

import (
	"fmt"
	"sync"
	"time"

	"tutorgo/pkg/geometry"
)

// RectCache caches ResolveContentRect results keyed by the (natural,
// container) size pair. Entries expire after a TTL and the oldest entry is
// evicted when the bound is reached.
type RectCache struct {
	mu      sync.Mutex
	entries map[string]rectEntry
	max     int
	ttl     time.Duration
	now     func() time.Time
}

type rectEntry struct {
	rect    geometry.Rect
	addedAt time.Time
}

// NewRectCache creates a cache holding at most max entries for at most ttl.
func NewRectCache(max int, ttl time.Duration) *RectCache {
	if max <= 0 {
		max = 64
	}
	return &RectCache{
		entries: make(map[string]rectEntry),
		max:     max,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key builds the cache key for a size pair.
func Key(natural, container geometry.Size) string {
	return fmt.Sprintf("%gx%g|%gx%g", natural.W, natural.H, container.W, container.H)
}

// Get returns a cached rect, or nil on miss or expiry.
func (c *RectCache) Get(key string) *geometry.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.ttl > 0 && c.now().Sub(e.addedAt) > c.ttl {
		delete(c.entries, key)
		return nil
	}
	r := e.rect
	return &r
}

// Set stores a rect, evicting the oldest entry when full. Nil rects (geometry
// unavailable) are never cached; availability can change on the next frame.
func (c *RectCache) Set(key string, r *geometry.Rect) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = rectEntry{rect: *r, addedAt: c.now()}
}

// Resolve is the caching front of geometry.ResolveContentRect.
func (c *RectCache) Resolve(natural, container geometry.Size) *geometry.Rect {
	key := Key(natural, container)
	if r := c.Get(key); r != nil {
		return r
	}
	r := geometry.ResolveContentRect(natural, container)
	c.Set(key, r)
	return r
}

// Len returns the number of live entries.
func (c *RectCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RectCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.addedAt.Before(oldest) {
			oldestKey = k
			oldest = e.addedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
