package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SearchCachePrefix namespace of cached /api/properties responses.
const SearchCachePrefix = "properties:search"

// QueryCacheKey prefix:md5 of the params as a JSON object. encoding/json
// writes map keys sorted, and quoting keeps values from running together.
func QueryCacheKey(prefix string, params map[string]string) string {
	raw, _ := json.Marshal(params)
	sum := md5.Sum(raw)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// SearchCache JSON-encoded search results in a KVStore. A nil *SearchCache
// is valid and caches nothing. Errors are logged, never returned to callers
// of Load/Store, so the cache can't fail a request.
type SearchCache struct {
	kv     KVStore
	ttl    time.Duration
	logger *zap.Logger
}

func NewSearchCache(kv KVStore, ttl time.Duration, logger *zap.Logger) *SearchCache {
	if kv == nil || ttl <= 0 {
		return nil
	}
	return &SearchCache{kv: kv, ttl: ttl, logger: logger}
}

// Load decodes the cached value into dest; false on miss or any error.
func (c *SearchCache) Load(ctx context.Context, params map[string]string, dest any) bool {
	if c == nil {
		return false
	}
	key := QueryCacheKey(SearchCachePrefix, params)
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Search cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.logger.Warn("Search cache entry undecodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *SearchCache) Store(ctx context.Context, params map[string]string, value any) {
	if c == nil {
		return
	}
	key := QueryCacheKey(SearchCachePrefix, params)
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Search cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Warn("Search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached search.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	n, err := c.kv.DeletePrefix(ctx, SearchCachePrefix+":")
	if err != nil {
		return fmt.Errorf("failed to invalidate search cache: %w", err)
	}
	c.logger.Debug("Search cache invalidated", zap.Int("keys", n))
	return nil
}
