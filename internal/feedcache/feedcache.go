// Package feedcache holds the whole aggregated article list under a single
// shared TTL, with an in-flight guard so concurrent requests trigger at most
// one pipeline execution.
package feedcache

import (
	"context"
	"sync"
	"time"

	"github.com/habarihub/habarihub/internal/feed"
)

// RefreshFunc runs one aggregation cycle.
type RefreshFunc func(ctx context.Context) ([]feed.Article, error)

type FeedCache struct {
	mu              sync.Mutex
	articles        []feed.Article
	lastRefreshed   time.Time
	refreshInFlight bool
	ttl             time.Duration

	now func() time.Time // overridable in tests
}

func New(ttl time.Duration) *FeedCache {
	return &FeedCache{ttl: ttl, now: time.Now}
}

// GetOrRefresh returns the cached list while it is fresh. On staleness the
// calling goroutine runs the refresh itself; callers arriving while a
// refresh is in flight get the previous (possibly stale) list immediately
// instead of blocking. The flag is set before the first blocking call, so at
// most one refresh runs at a time.
func (c *FeedCache) GetOrRefresh(ctx context.Context, refresh RefreshFunc) ([]feed.Article, error) {
	c.mu.Lock()
	if !c.lastRefreshed.IsZero() && c.now().Sub(c.lastRefreshed) < c.ttl {
		articles := c.articles
		c.mu.Unlock()
		return articles, nil
	}
	if c.refreshInFlight {
		articles := c.articles
		c.mu.Unlock()
		return articles, nil
	}
	c.refreshInFlight = true
	c.mu.Unlock()

	// The refresh outcome is shared by every caller for a full TTL window,
	// so it must not die with the one request that happened to trigger it.
	// A disconnected client would otherwise cancel all fetches and poison
	// the cache with the fallback set.
	articles, err := refresh(context.WithoutCancel(ctx))

	c.mu.Lock()
	c.refreshInFlight = false
	if err == nil {
		c.articles = articles
		c.lastRefreshed = c.now()
	}
	stored := c.articles
	c.mu.Unlock()

	if err != nil {
		// A failed cycle keeps the old list and timestamp; the pipeline may
		// still have produced a fallback set worth showing.
		if len(stored) == 0 {
			stored = articles
		}
		return stored, err
	}
	return stored, nil
}

// Invalidate forces the next GetOrRefresh to run the pipeline.
func (c *FeedCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRefreshed = time.Time{}
}

// Age reports how long ago the list was refreshed; ok is false when no
// refresh has completed yet.
func (c *FeedCache) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRefreshed.IsZero() {
		return 0, false
	}
	return c.now().Sub(c.lastRefreshed), true
}

// Len returns the size of the cached list.
func (c *FeedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.articles)
}
