package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CatalogCache holds raw upstream catalog payloads keyed by request.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const catalogKeyPrefix = "catalog:"

type redisCatalogCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCatalogCache(client *redis.Client, log *zap.Logger) CatalogCache {
	return &redisCatalogCache{
		client: client,
		log:    log.With(zap.String("repository", "catalog_cache")),
	}
}

func (c *redisCatalogCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get catalog %s: %w", key, err)
	}
	return data, true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, catalogKeyPrefix+key, value, ttl).Err(); err != nil {
		c.log.Warn("Failed to cache catalog entry", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("set catalog %s: %w", key, err)
	}
	return nil
}

func (c *redisCatalogCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, catalogKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("delete catalog %s: %w", key, err)
	}
	return nil
}

type memoryCatalogCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryCatalogCache() CatalogCache {
	return &memoryCatalogCache{entries: make(map[string]memoryEntry)}
}

func (c *memoryCatalogCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)) {
		return nil, false, nil
	}
	return entry.data, true, nil
}

func (c *memoryCatalogCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *memoryCatalogCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
