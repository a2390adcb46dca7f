package client

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// queryCache is a keyed store of fetched results. Reads with a stale
// window reject entries older than the window; mutations patch entries
// synchronously on success rather than refetching.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]cacheEntry)}
}

// get returns the cached value unless it is absent or older than
// staleAfter. A zero staleAfter means entries never go stale.
func (q *queryCache) get(key string, staleAfter time.Duration) (any, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[key]
	if !ok {
		return nil, false
	}
	if staleAfter > 0 && time.Since(e.storedAt) > staleAfter {
		return nil, false
	}
	return e.value, true
}

func (q *queryCache) set(key string, value any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries[key] = cacheEntry{value: value, storedAt: time.Now()}
}

// update applies fn to the cached value under key, if present. The
// stored timestamp is kept: a local patch is not a fresh fetch.
func (q *queryCache) update(key string, fn func(any) any) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[key]
	if !ok {
		return
	}
	e.value = fn(e.value)
	q.entries[key] = e
}

func (q *queryCache) invalidate(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, key)
}
