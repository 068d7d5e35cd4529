package ratelimit

import (
	"context"
	"fmt"
	"time"

	"EconDash/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

type counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisLimiter is a fixed-window counter shared by every replica.
type RedisLimiter struct {
	rdb    counter
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// RedisOption configures the Redis client.
type RedisOption func(*redis.Options)

func WithPassword(password string) RedisOption {
	return func(o *redis.Options) { o.Password = password }
}

func WithDB(db int) RedisOption {
	return func(o *redis.Options) { o.DB = db }
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(addr string, opts ...RedisOption) (*redis.Client, error) {
	o := &redis.Options{
		Addr:         addr,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 2,
	}
	for _, opt := range opts {
		opt(o)
	}
	client := redis.NewClient(o)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewRedisLimiter allows limit submits per key in each window.
func NewRedisLimiter(rdb counter, prefix string, limit int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key)
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, fmt.Errorf("redis expire: %w", err)
		}
	}
	return n <= l.limit, nil
}

func (l *RedisLimiter) windowKey(key string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:ratelimit:%s:%d", l.prefix, key, slot)
}

var _ repository.SubmitLimiter = (*RedisLimiter)(nil)
