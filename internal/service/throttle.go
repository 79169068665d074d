package service

import (
	"sync"
	"time"
)

// Throttle is an in-memory per-key token bucket guarding the credential
// endpoints against brute-force attempts. It is safe for concurrent
// use. Buckets idle longer than staleAfter are pruned lazily on Allow,
// so no background goroutine is needed.
type Throttle struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      float64 // tokens added per second
	burst     float64 // maximum tokens
	lastPrune time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

const staleAfter = 10 * time.Minute

// NewThrottle creates a throttle allowing bursts of up to burst calls
// per key, refilling at rate tokens per second.
func NewThrottle(rate, burst float64) *Throttle {
	return &Throttle{
		buckets:   make(map[string]*bucket),
		rate:      rate,
		burst:     burst,
		lastPrune: time.Now(),
	}
}

// Allow reports whether the given key may proceed. Each call consumes
// one token; returns false when the bucket is empty.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.prune(now)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: t.burst, last: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*t.rate, t.burst)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// prune drops buckets that have been idle past staleAfter. Runs at most
// once per staleAfter window.
func (t *Throttle) prune(now time.Time) {
	if now.Sub(t.lastPrune) < staleAfter {
		return
	}
	cutoff := now.Add(-staleAfter)
	for key, b := range t.buckets {
		if b.last.Before(cutoff) {
			delete(t.buckets, key)
		}
	}
	t.lastPrune = now
}
