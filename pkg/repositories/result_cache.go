package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ekaya-inc/ekaya-profiler/pkg/models"
)

// ResultCache stores finished runs keyed by the fingerprint of their input.
type ResultCache interface {
	// Get returns the cached run, or nil when there is none.
	Get(ctx context.Context, kind models.ProfileRunKind, fingerprint string) (*models.ProfileRun, error)

	// Put stores a run until the cache TTL expires.
	Put(ctx context.Context, kind models.ProfileRunKind, fingerprint string, run *models.ProfileRun) error
}

const resultCacheKeyPrefix = "ekaya-profiler:run"

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisResultCache creates a Redis-backed cache. A non-positive ttl keeps
// entries until evicted.
func NewRedisResultCache(client *redis.Client, ttl time.Duration) ResultCache {
	if ttl < 0 {
		ttl = 0
	}
	return &redisResultCache{client: client, ttl: ttl}
}

func resultCacheKey(kind models.ProfileRunKind, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", resultCacheKeyPrefix, kind, fingerprint)
}

func (c *redisResultCache) Get(ctx context.Context, kind models.ProfileRunKind, fingerprint string) (*models.ProfileRun, error) {
	data, err := c.client.Get(ctx, resultCacheKey(kind, fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached run: %w", err)
	}

	var run models.ProfileRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode cached run: %w", err)
	}
	return &run, nil
}

func (c *redisResultCache) Put(ctx context.Context, kind models.ProfileRunKind, fingerprint string, run *models.ProfileRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	if err := c.client.Set(ctx, resultCacheKey(kind, fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache run: %w", err)
	}
	return nil
}

// Ensure redisResultCache implements ResultCache at compile time.
var _ ResultCache = (*redisResultCache)(nil)
