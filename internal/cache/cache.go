// Package cache handles Redis caching operations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snaplink/snaplink/internal/config"
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the interface for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in the cache.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks if the cache is healthy.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache client.
func NewRedisCache(ctx context.Context, cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}
	return val, nil
}

// Set stores a value in the cache with a TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Exists checks if a key exists in the cache.
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists check failed: %w", err)
	}
	return n > 0, nil
}

// Ping checks if the cache is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the cache connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// URLCacher defines the interface for URL caching operations.
// This interface enables easy mocking in tests.
type URLCacher interface {
	Get(ctx context.Context, shortCode string) (*CachedURL, error)
	Set(ctx context.Context, url *CachedURL) error
	Delete(ctx context.Context, shortCode string) error
	Ping(ctx context.Context) error
}

// Ensure URLCache implements URLCacher
var _ URLCacher = (*URLCache)(nil)

// URLCache provides URL-specific caching operations.
type URLCache struct {
	cache     Cache
	keyPrefix string
	ttl       time.Duration
}

// NewURLCache creates a new URL-specific cache.
func NewURLCache(cache Cache, keyPrefix string, ttl time.Duration) *URLCache {
	if keyPrefix == "" {
		keyPrefix = "url:"
	}
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &URLCache{
		cache:     cache,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// CachedURL represents a URL stored in cache. It carries everything a
// redirect needs so a cache hit skips the database entirely.
type CachedURL struct {
	ID          int64     `json:"id"`
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      *int64    `json:"user_id,omitempty"`
}

// Get retrieves a URL from cache by short code.
func (c *URLCache) Get(ctx context.Context, shortCode string) (*CachedURL, error) {
	data, err := c.cache.Get(ctx, c.key(shortCode))
	if err != nil {
		return nil, err
	}

	var url CachedURL
	if err := json.Unmarshal(data, &url); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached URL: %w", err)
	}

	return &url, nil
}

// Set stores a URL in cache.
func (c *URLCache) Set(ctx context.Context, url *CachedURL) error {
	data, err := json.Marshal(url)
	if err != nil {
		return fmt.Errorf("failed to marshal URL: %w", err)
	}
	return c.cache.Set(ctx, c.key(url.ShortCode), data, c.ttl)
}

// Delete removes a URL from cache.
func (c *URLCache) Delete(ctx context.Context, shortCode string) error {
	return c.cache.Delete(ctx, c.key(shortCode))
}

// key generates the cache key for a short code.
func (c *URLCache) key(shortCode string) string {
	return c.keyPrefix + shortCode
}

// Ping checks if the cache is healthy.
func (c *URLCache) Ping(ctx context.Context) error {
	return c.cache.Ping(ctx)
}
