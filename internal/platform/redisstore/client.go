// Package redisstore wraps a Redis connection for the insight cache and the
// import lock.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/go-redis/redis/v8"

	"github.com/healthnexus/nexus/internal/platform/inference"
)

// ErrLocked is returned when another holder keeps the lock past all retries.
var ErrLocked = errors.New("lock held by another process")

type ReleaseLock func(ctx context.Context) error

type Client struct {
	client redis.UniversalClient
}

// NewClient connects using a redis:// or rediss:// URL.
func NewClient(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MaxRetries = 6
	return &Client{client: redis.NewClient(opts)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get implements inference.KV.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", inference.ErrCacheMiss
	}
	return v, err
}

// Set implements inference.KV.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Lock takes lock:{key} for ttl, retrying once a second up to retries times.
func (c *Client) Lock(ctx context.Context, key string, ttl time.Duration, retries int) (ReleaseLock, error) {
	locker := redislock.New(c.client)
	strategy := redislock.LimitRetry(redislock.LinearBackoff(time.Second), retries)
	lock, err := locker.Obtain(ctx, LockKey(key), ttl, &redislock.Options{RetryStrategy: strategy})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrLocked, key)
	}
	if err != nil {
		return nil, err
	}
	return lock.Release, nil
}

func LockKey(key string) string { return "lock:" + key }

func (c *Client) Close() error {
	return c.client.Close()
}
