package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores place details between requests.
type Cache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, placeID string) (*Place, bool, error)
	Set(ctx context.Context, place *Place, ttl time.Duration) error
	Delete(ctx context.Context, placeID string) error
}

const keyPrefix = "placebook:place:"

func cacheKey(placeID string) string {
	return keyPrefix + placeID
}

// RedisCache keeps places as JSON strings in Redis.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, placeID string) (*Place, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached place: %w", err)
	}
	var place Place
	if err := json.Unmarshal(raw, &place); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached place: %w", err)
	}
	return &place, true, nil
}

func (c *RedisCache) Set(ctx context.Context, place *Place, ttl time.Duration) error {
	raw, err := json.Marshal(place)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey(place.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache place: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, placeID string) error {
	if err := c.client.Del(ctx, cacheKey(placeID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached place: %w", err)
	}
	return nil
}

// MemoryCache is used when no Redis address is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	place     Place
	expiresAt time.Time // zero means no expiry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, placeID string) (*Place, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[placeID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, placeID)
		c.mu.Unlock()
		return nil, false, nil
	}
	place := e.place
	return &place, true, nil
}

func (c *MemoryCache) Set(_ context.Context, place *Place, ttl time.Duration) error {
	e := memoryEntry{place: *place}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[place.ID] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, placeID string) error {
	c.mu.Lock()
	delete(c.entries, placeID)
	c.mu.Unlock()
	return nil
}
