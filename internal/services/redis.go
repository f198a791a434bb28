package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"schemagraph/internal/menu"
)

// RedisCache provides caching functionality using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info("redis connection established", "addr", opt.Addr)
	return &RedisCache{client: client}, nil
}

// Set stores a value in cache with expiration
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get retrieves a value from cache. A missing key reports found=false.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

// Delete removes keys from cache
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// menuCacheKeyPrefix namespaces the detected menu locations.
const menuCacheKeyPrefix = "schemagraph:menu:"

// MenuCacheKey is the Redis key holding the detected location of role.
func MenuCacheKey(role menu.Role) string {
	return menuCacheKeyPrefix + string(role)
}

// MenuCache stores detected menu locations in Redis so every server and the
// worker share one detection result.
type MenuCache struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewMenuCache creates a menu.Cache backed by Redis. A zero ttl keeps
// entries until they are invalidated.
func NewMenuCache(cache *RedisCache, ttl time.Duration) *MenuCache {
	return &MenuCache{cache: cache, ttl: ttl}
}

func (m *MenuCache) Get(ctx context.Context, role menu.Role) (string, bool, error) {
	var location string
	found, err := m.cache.Get(ctx, MenuCacheKey(role), &location)
	return location, found, err
}

func (m *MenuCache) Set(ctx context.Context, role menu.Role, location string) error {
	return m.cache.Set(ctx, MenuCacheKey(role), location, m.ttl)
}

func (m *MenuCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(menu.Roles))
	for _, r := range menu.Roles {
		keys = append(keys, MenuCacheKey(r))
	}
	return m.cache.Delete(ctx, keys...)
}
