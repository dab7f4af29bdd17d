package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. Expiry is delegated to the server.
type RedisCache struct {
	client *redis.Client
	prefix string
	closed atomic.Bool
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithKeyPrefix prepends prefix to every key sent to Redis.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) { c.prefix = prefix }
}

// NewRedisCache connects lazily to the server named by url, for example
// "redis://localhost:6379/0". No round trip happens until first use.
func NewRedisCache(url string, opts ...RedisOption) (*RedisCache, error) {
	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisCacheFromClient(redis.NewClient(ro), opts...), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Addr returns the server address the client dials.
func (c *RedisCache) Addr() string { return c.client.Options().Addr }

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// Get implements [Cache]. A missing key is a miss, not an error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrClosed
	}
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, c.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		data, hit = b, err == nil
		return transient(err)
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

// Set implements [Cache]. A zero ttl stores the entry without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return RetryWithBackoff(ctx, func() error {
		return transient(c.client.Set(ctx, c.prefix+key, data, ttl).Err())
	})
}

// Delete implements [Cache].
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Close releases the connection pool. Later calls fail with ErrClosed.
func (c *RedisCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
