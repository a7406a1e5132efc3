// Package cache implements the bounded-TTL translation cache. Keys are the
// exact source text, case-preserving; values are the translated text.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	writtenAt time.Time
	expiresAt time.Time
}

type TranslationCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int

	now func() time.Time // overridable in tests
}

func New(ttl time.Duration, maxEntries int) *TranslationCache {
	return &TranslationCache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached translation for text. Expired entries report a miss;
// they are removed lazily by the next overflow sweep, not here.
func (c *TranslationCache) Get(text string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[text]
	if !ok {
		return "", false
	}
	if c.now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

// Set stores a successful translation. Failed translations must never be
// cached; callers retry them from scratch on the next request.
func (c *TranslationCache) Set(text, translation string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.items[text] = entry{
		value:     translation,
		writtenAt: now,
		expiresAt: now.Add(c.ttl),
	}

	if c.maxEntries > 0 && len(c.items) > c.maxEntries {
		c.evict()
	}
}

func (c *TranslationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evict first sweeps expired entries, then drops the oldest writes until the
// cache fits the cap again. Caller holds the write lock.
func (c *TranslationCache) evict() {
	now := c.now()
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}

	for len(c.items) > c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		first := true
		for key, e := range c.items {
			if first || e.writtenAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.writtenAt
				first = false
			}
		}
		delete(c.items, oldestKey)
	}
}
