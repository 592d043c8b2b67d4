// Package redis dials the Redis instance backing the domain read cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"namemarket/internal/platform/config"
)

// Client is the process-wide Redis handle. The cache is optional: a nil
// *Client means no NAMEMARKET_REDIS_URL was configured and reads go straight
// to the store.
type Client struct {
	*redis.Client
}

// New parses the cache configuration, dials Redis, and verifies the
// connection with a bounded ping. An empty URL returns (nil, nil).
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
