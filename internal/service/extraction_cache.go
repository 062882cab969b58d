package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/recipe-chatbot/backend/internal/metrics"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const extractionKeyPrefix = "chatbot:extraction:"

// ExtractionCache stores successful extraction results by message
type ExtractionCache interface {
	Get(ctx context.Context, message string) (types.ParsedQuery, bool, error)
	Set(ctx context.Context, message string, query types.ParsedQuery) error
}

// RedisExtractionCache keeps extraction results in Redis with a TTL
type RedisExtractionCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisExtractionCache creates a new RedisExtractionCache instance
func NewRedisExtractionCache(client *redis.Client, ttl time.Duration) *RedisExtractionCache {
	return &RedisExtractionCache{redis: client, ttl: ttl}
}

func extractionKey(message string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(message)))
	return extractionKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached result for message, if any
func (c *RedisExtractionCache) Get(ctx context.Context, message string) (types.ParsedQuery, bool, error) {
	data, err := c.redis.Get(ctx, extractionKey(message)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.ParsedQuery{}, false, nil
	}
	if err != nil {
		return types.ParsedQuery{}, false, fmt.Errorf("failed to read extraction cache: %w", err)
	}

	var query types.ParsedQuery
	if err := json.Unmarshal(data, &query); err != nil {
		return types.ParsedQuery{}, false, fmt.Errorf("failed to decode cached extraction: %w", err)
	}
	return query, true, nil
}

// Set stores the result for message
func (c *RedisExtractionCache) Set(ctx context.Context, message string, query types.ParsedQuery) error {
	data, err := json.Marshal(query)
	if err != nil {
		return fmt.Errorf("failed to encode extraction: %w", err)
	}
	if err := c.redis.Set(ctx, extractionKey(message), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write extraction cache: %w", err)
	}
	return nil
}

// CachedExtractor serves repeated messages from the cache. Cache errors are logged and
// never surface to callers.
type CachedExtractor struct {
	next   PreferenceExtractor
	cache  ExtractionCache
	logger *zap.Logger
}

// NewCachedExtractor wraps next with cache
func NewCachedExtractor(next PreferenceExtractor, cache ExtractionCache, logger *zap.Logger) *CachedExtractor {
	return &CachedExtractor{next: next, cache: cache, logger: logger}
}

// Extract implements PreferenceExtractor
func (c *CachedExtractor) Extract(ctx context.Context, text string) (types.ParsedQuery, error) {
	query, ok, err := c.cache.Get(ctx, text)
	if err != nil {
		c.logger.Warn("extraction cache unavailable", zap.Error(err))
	}
	if ok {
		metrics.ExtractionCacheHits.Inc()
		return query, nil
	}
	metrics.ExtractionCacheMisses.Inc()

	query, err = c.next.Extract(ctx, text)
	if err != nil {
		return query, err
	}

	if err := c.cache.Set(ctx, text, query); err != nil {
		c.logger.Warn("failed to cache extraction", zap.Error(err))
	}
	return query, nil
}
