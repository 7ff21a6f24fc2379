package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL keeps derived data (journal stats) fresh enough while
	// absorbing repeated dashboard loads
	DefaultCacheTTL = 5 * time.Minute
	// MinCacheTTL is 1 minute
	MinCacheTTL = 1 * time.Minute
	// MaxCacheTTL is 15 minutes
	MaxCacheTTL = 15 * time.Minute
)

// CacheService provides short-lived caching for derived data
type CacheService struct{}

// Get retrieves a value from cache
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key

	val, err := database.RedisClient.Get(ctx, cacheKey).Result()
	if err != nil {
		return false, nil // Cache miss, not an error
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}

	return true, nil
}

// Set stores a value in cache with default TTL
func (c *CacheService) Set(key string, value interface{}) error {
	return c.SetWithTTL(key, value, DefaultCacheTTL)
}

// SetWithTTL stores a value in cache with custom TTL (clamped to 1-15 minutes)
func (c *CacheService) SetWithTTL(key string, value interface{}, ttl time.Duration) error {
	if ttl < MinCacheTTL {
		ttl = MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}

	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return database.RedisClient.Set(ctx, cacheKey, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(key string) error {
	ctx := context.Background()
	cacheKey := CacheKeyPrefix + key
	return database.RedisClient.Del(ctx, cacheKey).Err()
}

// StatsCacheKey is the cache key for a user's journal statistics.
// Invalidated on every journal mutation by that user.
func StatsCacheKey(userID string) string {
	return "journal_stats:" + userID
}

// Global cache service instance
var Cache = &CacheService{}
