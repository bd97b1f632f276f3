package search

import (
	"context"
	"sync"
	"time"

	"github.com/sbergsmann/lookingcom-backend/internal/obs"
)

type cacheEntry struct {
	val     SweepResult
	expiry  time.Time
	ready   bool
	waiters []chan resultOrErr
}

type resultOrErr struct {
	res SweepResult
	err error
}

// Cache is a TTL cache for sweep results with single-flight semantics:
// concurrent requests for the same key share one computation.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	items   map[string]*cacheEntry
	metrics *obs.Metrics
}

func NewCache(ttl time.Duration, m *obs.Metrics) *Cache {
	return &Cache{ttl: ttl, items: make(map[string]*cacheEntry), metrics: m}
}

func (c *Cache) GetOrCompute(ctx context.Context, key string, fn func(ctx context.Context) (SweepResult, error)) (SweepResult, error) {
	c.mu.Lock()
	entry, found := c.items[key]
	now := time.Now()

	// Cached and fresh.
	if found && entry.ready && now.Before(entry.expiry) {
		val := entry.val
		c.mu.Unlock()
		if c.metrics != nil {
			c.metrics.IncCacheHits()
		}
		return val, nil
	}

	// Computation already in flight: join the waiters.
	if found && !entry.ready {
		ch := make(chan resultOrErr, 1)
		entry.waiters = append(entry.waiters, ch)
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return SweepResult{}, ctx.Err()
		case r := <-ch:
			return r.res, r.err
		}
	}

	// Start a new computation and mark it in flight.
	ch := make(chan resultOrErr, 1)
	entry = &cacheEntry{waiters: []chan resultOrErr{ch}}
	c.items[key] = entry
	c.mu.Unlock()

	res, err := fn(ctx)
	result := resultOrErr{res: res, err: err}

	c.mu.Lock()
	if err != nil {
		// Do not cache failures; the next caller recomputes.
		delete(c.items, key)
	} else {
		entry.val = res
		entry.expiry = time.Now().Add(c.ttl)
		entry.ready = true
	}
	waiters := entry.waiters
	entry.waiters = nil
	c.mu.Unlock()

	for _, w := range waiters {
		w <- result
		close(w)
	}

	return res, err
}
