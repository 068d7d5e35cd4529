package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBurstAndRefill(t *testing.T) {
	l := New(2, 60)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i)
	}

	ok, _ := l.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)
}

func TestLimiterPrune(t *testing.T) {
	l := New(1, 60)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "a")
	assert.Equal(t, 0, l.Prune())
	now = now.Add(2 * time.Second)
	assert.Equal(t, 1, l.Prune())
}

func TestAllowed(t *testing.T) {
	ok, err := Allowed{}.Allow(context.Background(), "x")
	assert.NoError(t, err)
	assert.True(t, ok)
}

type fakeCounter struct {
	mu      sync.Mutex
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCounter) Expire(_ context.Context, key string, d time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires[key] = d
	return redis.NewBoolResult(true, nil)
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	fc := &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}}
	l := NewRedisLimiter(fc, "econdash", 2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "call %d", i)
	}
	key := l.windowKey("1.2.3.4")
	assert.Contains(t, key, "econdash:ratelimit:1.2.3.4:")
	assert.Equal(t, time.Minute, fc.expires[key])
	assert.Len(t, fc.expires, 1)

	now = now.Add(time.Minute)
	ok, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterError(t *testing.T) {
	fc := &fakeCounter{counts: map[string]int64{}, expires: map[string]time.Duration{}, err: errors.New("conn refused")}
	_, err := NewRedisLimiter(fc, "p", 1, time.Minute).Allow(context.Background(), "k")
	assert.ErrorContains(t, err, "redis incr")
}
