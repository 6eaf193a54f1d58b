package server

import (
	"container/list"
	"regexp"
	"sync"
)

// matcherCache provides LRU caching of compiled regular expressions keyed by
// the full pattern configuration. It is safe for concurrent use.
type matcherCache struct {
	mu      sync.RWMutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

// cacheEntry holds a cached compiled matcher.
type cacheEntry struct {
	key string
	re  *regexp.Regexp
}

// newMatcherCache creates an LRU cache with the given maximum size.
func newMatcherCache(maxSize int) *matcherCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &matcherCache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves a cached matcher. Returns nil if not found.
func (c *matcherCache) Get(key string) *regexp.Regexp {
	// First check with read lock for cache misses (common case).
	c.mu.RLock()
	_, ok := c.items[key]
	if !ok {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	// Cache hit: need write lock to update LRU order.
	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check in case the entry was evicted between locks.
	elem, ok := c.items[key]
	if !ok {
		return nil
	}

	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).re
}

// Set stores a compiled matcher in the cache.
func (c *matcherCache) Set(key string, re *regexp.Regexp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).re = re
		return
	}

	if c.lru.Len() >= c.maxSize {
		c.evictOldest()
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, re: re})
	c.items[key] = elem
}

// Clear removes all entries from the cache.
func (c *matcherCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of cached entries.
func (c *matcherCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

// evictOldest removes the least recently used entry. Must be called with the
// lock held.
func (c *matcherCache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
}
