package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a rendered scene is reused.
const DefaultTTL = 6 * time.Hour

// RedisCache stores rendered scene SVGs under "scene:svg:<namespace>:<scene key>". The
// namespace identifies the loaded data so a reload never serves stale drawings.
type RedisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

func NewRedisCache(client *redis.Client, namespace string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (c *RedisCache) key(sceneKey string) string {
	return fmt.Sprintf("scene:svg:%s:%s", c.namespace, sceneKey)
}

// GetSVG reports a miss as ok == false with a nil error.
func (c *RedisCache) GetSVG(ctx context.Context, sceneKey string) ([]byte, bool, error) {
	svg, err := c.client.Get(ctx, c.key(sceneKey)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading scene %s: %w", sceneKey, err)
	}
	return svg, true, nil
}

func (c *RedisCache) SetSVG(ctx context.Context, sceneKey string, svg []byte) error {
	if err := c.client.Set(ctx, c.key(sceneKey), svg, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing scene %s: %w", sceneKey, err)
	}
	return nil
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return client, nil
}
