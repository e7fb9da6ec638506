package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Only cheap, non-authoritative values live here; topic and
// message state is always read from the database.
const (
	TTLReplyPrefix = 1 * time.Hour   // localized "Re:" subject prefix
	TTLDefault     = 5 * time.Minute
	TTLShort       = 1 * time.Minute
)

// Cache key prefixes
const (
	PrefixReplyPrefix = "compose:replyprefix:"
)

// Service Redis cache service interface
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// GetReplyPrefix returns the cached localized reply prefix for a
	// language, or "" on a miss.
	GetReplyPrefix(ctx context.Context, lang string) (string, error)
	SetReplyPrefix(ctx context.Context, lang, prefix string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service. A nil client degrades to
// no-op writes and miss-only reads.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable reports whether Redis is wired.
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping tests the Redis connection.
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get fetches a cached value.
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a cached value.
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes cached values.
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) GetReplyPrefix(ctx context.Context, lang string) (string, error) {
	if c.client == nil {
		return "", nil
	}
	prefix, err := c.client.Get(ctx, PrefixReplyPrefix+lang).Result()
	if err == redis.Nil {
		return "", nil
	}
	return prefix, err
}

func (c *redisCache) SetReplyPrefix(ctx context.Context, lang, prefix string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, PrefixReplyPrefix+lang, prefix, TTLReplyPrefix).Err()
}
