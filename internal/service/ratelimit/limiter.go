package ratelimit

import (
	"context"
	"sync"
	"time"

	"EconDash/internal/domain/repository"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is an in-process token bucket per key.
type Limiter struct {
	capacity   float64
	refillRate float64 // tokens per second
	now        func() time.Time

	mu sync.Mutex
	m  map[string]*bucket
}

// New allows burst submits at once and perMinute on average.
func New(burst, perMinute int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		capacity:   float64(burst),
		refillRate: float64(perMinute) / 60,
		now:        time.Now,
		m:          make(map[string]*bucket),
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, nil
	}
	return false, nil
}

// Prune drops buckets that have refilled completely; they behave exactly
// like fresh ones.
func (l *Limiter) Prune() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, b := range l.m {
		if b.tokens+now.Sub(b.last).Seconds()*l.refillRate >= l.capacity {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Allowed is a limiter that never refuses.
type Allowed struct{}

func (Allowed) Allow(context.Context, string) (bool, error) { return true, nil }

var (
	_ repository.SubmitLimiter = (*Limiter)(nil)
	_ repository.SubmitLimiter = Allowed{}
)
