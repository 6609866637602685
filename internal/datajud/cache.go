package datajud

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	redisclient "github.com/rafaeldtavares/juristrack-backend/pkg/redis"
)

// Cache is the response cache the client reads through. Implementations must
// treat lookups as best-effort; a broken cache should never fail a search.
type Cache interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name string, value string, ttl time.Duration) error
}

type redisCache struct {
	client *redisclient.Client
}

// NewRedisCache adapts the shared Redis client to the Cache interface,
// translating cache misses out of the error path.
func NewRedisCache(client *redisclient.Client) Cache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.client.CacheKey(name))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (c *redisCache) Set(ctx context.Context, name string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.client.CacheKey(name), value, ttl)
}
