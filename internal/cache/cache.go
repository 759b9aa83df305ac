// Package cache wraps the optional Redis page cache for browse results.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "tnplots:"

// Client is a thin wrapper around go-redis. A nil *Client is valid and means
// caching is disabled; every method is a no-op then.
type Client struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// Get returns the cached value for key, or ("", false) on miss, error or
// disabled cache. Cache failures are indistinguishable from misses on
// purpose: the browse path never depends on Redis being up.
func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores value under key for ttl, ignoring errors.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, keyPrefix+key, value, ttl)
}
