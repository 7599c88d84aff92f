// Package ratelimit implements a keyed token bucket used to pace dashboard
// API calls under the platform's per-organization request budget.
package ratelimit

import (
	"sync"
	"time"

	"grimm.is/moraine/internal/clock"
)

// Limiter manages rate limiting for multiple keys
type Limiter struct {
	limiters map[string]*bucket
	clk      clock.Clock
	mu       sync.RWMutex
}

// bucket implements a token bucket rate limiter
type bucket struct {
	tokens   int
	limit    int
	interval time.Duration
	lastFill time.Time
	clk      clock.Clock
	mu       sync.Mutex
}

// NewLimiter creates a new rate limiter
func NewLimiter() *Limiter {
	return NewLimiterWithClock(&clock.RealClock{})
}

// NewLimiterWithClock creates a limiter with an injected time source (for tests).
func NewLimiterWithClock(clk clock.Clock) *Limiter {
	return &Limiter{
		limiters: make(map[string]*bucket),
		clk:      clk,
	}
}

// Allow checks if a request for the given key is allowed
// limit: maximum number of requests
// interval: time window (e.g., time.Second for requests per second)
func (l *Limiter) Allow(key string, limit int, interval time.Duration) bool {
	return l.get(key, limit, interval).take()
}

// Wait blocks (via the injected clock) until a token is available for key.
// It is the pacing primitive for sequential API clients: a run that would
// exceed limit requests per interval sleeps instead of getting 429s back.
func (l *Limiter) Wait(key string, limit int, interval time.Duration) {
	b := l.get(key, limit, interval)
	for !b.take() {
		b.clk.Sleep(b.nextRefill())
	}
}

func (l *Limiter) get(key string, limit int, interval time.Duration) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, exists := l.limiters[key]
	if !exists {
		b = &bucket{
			tokens:   limit,
			limit:    limit,
			interval: interval,
			lastFill: l.clk.Now(),
			clk:      l.clk,
		}
		l.limiters[key] = b
	}
	return b
}

// take attempts to take a token from the bucket
func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on elapsed time
	now := b.clk.Now()
	elapsed := now.Sub(b.lastFill)

	if elapsed >= b.interval {
		// Reset tokens after interval
		b.tokens = b.limit
		b.lastFill = now
	}

	// Check if we have tokens available
	if b.tokens <= 0 {
		return false
	}

	// Take a token
	b.tokens--
	return true
}

// nextRefill returns how long until the bucket refills.
func (b *bucket) nextRefill() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.interval - b.clk.Now().Sub(b.lastFill)
	if remaining < time.Millisecond {
		remaining = time.Millisecond
	}
	return remaining
}

