package facts

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache maps DateKeys to their most recent settled result and guarantees at
// most one in-flight fetch per key, however many callers ask concurrently.
type Cache struct {
	store Store

	// sf collapses concurrent misses for the same key into one fetch.
	sf singleflight.Group

	mu       sync.Mutex
	inflight map[DateKey]time.Time // key -> fetch start

	hits    atomic.Int64
	misses  atomic.Int64
	shared  atomic.Int64
	fetches atomic.Int64
}

// CacheStats is a point-in-time view of cache activity.
type CacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Shared   int64 `json:"shared"`
	Fetches  int64 `json:"fetches"`
	Entries  int   `json:"entries"`
	InFlight int   `json:"inFlight"`
}

// NewCache creates a Cache on top of the given store.
func NewCache(store Store) *Cache {
	return &Cache{
		store:    store,
		inflight: make(map[DateKey]time.Time),
	}
}

// GetOrFetch returns the cached result for key, joining an in-flight fetch or
// starting one through fetcher on a miss.
//
// The fetch itself is detached from ctx: a caller that gives up receives
// Unavailable(ReasonCancelled) while the fetch runs to completion and
// populates the cache for everyone else.
func (c *Cache) GetOrFetch(ctx context.Context, key DateKey, fetcher Fetcher) FactResult {
	if entry, ok := c.store.Get(key); ok {
		c.hits.Add(1)
		return entry.Result
	}
	c.misses.Add(1)

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.sf.DoChan(key.Key(), func() (any, error) {
		// A flight for this key may have settled between our miss and now.
		if entry, ok := c.store.Get(key); ok {
			return entry.Result, nil
		}
		return c.fetch(fetchCtx, key, fetcher), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		return res.Val.(FactResult)
	case <-ctx.Done():
		return Unavailable(ReasonCancelled)
	}
}

func (c *Cache) fetch(ctx context.Context, key DateKey, fetcher Fetcher) FactResult {
	c.mu.Lock()
	c.inflight[key] = time.Now().UTC()
	c.mu.Unlock()

	c.fetches.Add(1)
	result := fetcher.Fetch(ctx, key)
	if !result.IsTerminal() {
		result = Unavailable(FallbackReason(key))
	}

	// The entry is written before the in-flight marker is cleared and
	// before any waiter is released.
	if result.cacheable() {
		c.store.Save(CacheEntry{
			Key:       key,
			Result:    result,
			FetchedAt: time.Now().UTC(),
		})
	}

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	return result
}

// Peek reports the current state of key without suspending or fetching:
// the cached result, Pending while a fetch is outstanding, or false when the
// key is unknown.
func (c *Cache) Peek(key DateKey) (FactResult, bool) {
	if entry, ok := c.store.Get(key); ok {
		return entry.Result, true
	}

	c.mu.Lock()
	_, pending := c.inflight[key]
	c.mu.Unlock()

	if pending {
		return Pending(), true
	}
	return FactResult{}, false
}

// Invalidate drops the cached entry for key. An in-flight fetch for the key
// is not cancelled; its result will be written back when it settles.
func (c *Cache) Invalidate(key DateKey) {
	c.store.Delete(key)
}

// InvalidateAll drops every cached entry.
func (c *Cache) InvalidateAll() {
	c.store.Clear()
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	inflight := len(c.inflight)
	c.mu.Unlock()

	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Shared:   c.shared.Load(),
		Fetches:  c.fetches.Load(),
		Entries:  c.store.Len(),
		InFlight: inflight,
	}
}

// FallbackReason is the generic phrase shown in place of a missing fact.
func FallbackReason(key DateKey) string {
	return fmt.Sprintf("No data available for %d/%d", key.Month, key.Day)
}
