package search

import (
	"sync"
	"time"
)

// Simple token bucket per client IP.
type ipBucket struct {
	tokens     int
	lastRefill time.Time
}

type IPRateLimiter struct {
	mu             sync.Mutex
	buckets        map[string]*ipBucket
	capacity       int
	refillInterval time.Duration
}

func NewIPRateLimiter(capacity int, refillInterval time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		buckets:        make(map[string]*ipBucket),
		capacity:       capacity,
		refillInterval: refillInterval,
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &ipBucket{tokens: rl.capacity - 1, lastRefill: now}
		return true
	}
	if now.Sub(b.lastRefill) >= rl.refillInterval {
		b.tokens = rl.capacity
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
