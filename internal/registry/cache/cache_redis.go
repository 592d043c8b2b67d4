// Package cache provides a read-through Redis cache for domain reads. The
// service works without it; when wired it absorbs repeated lookups of hot
// names and is invalidated on every ownership change.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "namemarket/pkg/domain"
)

// DomainView is the assembled read result cached per domain name. Expiry is
// carried so cache hits still honor logical expiry against the caller's
// clock.
type DomainView struct {
	Owner       id.Principal `json:"owner"`
	WebsiteCode string       `json:"website_code"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// RedisCache caches domain views with a bounded TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(name string) string {
	return "namemarket:domain:" + name
}

// Get returns the cached view for name, or ok=false on miss. Cache failures
// degrade to a miss; reads must not fail because the cache is down.
func (c *RedisCache) Get(ctx context.Context, name string) (DomainView, bool) {
	raw, err := c.client.Get(ctx, key(name)).Bytes()
	if err != nil {
		return DomainView{}, false
	}
	var view DomainView
	if err := json.Unmarshal(raw, &view); err != nil {
		return DomainView{}, false
	}
	return view, true
}

// Set stores the view for name under the configured TTL.
func (c *RedisCache) Set(ctx context.Context, name string, view DomainView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal domain view: %w", err)
	}
	if err := c.client.Set(ctx, key(name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache domain view: %w", err)
	}
	return nil
}

// Invalidate drops the cached view for name. Missing keys are not an error.
func (c *RedisCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, key(name)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate domain view: %w", err)
	}
	return nil
}
