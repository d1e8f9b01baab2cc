package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/course-catalog/internal/config"
)

// CourseCache is a read-through cache for query results. Every key embeds the
// catalog version; Invalidate bumps the version so all older entries become
// unreachable and expire on their own TTL.
//
// A nil *CourseCache, or one built without a Redis client, is a valid no-op cache.
type CourseCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// NewCourseCache creates a CourseCache. rdb may be nil.
func NewCourseCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CourseCache {
	return &CourseCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With().Str("component", "course_cache").Logger(),
	}
}

func (c *CourseCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// version reads the current catalog version. A missing key is version 0.
func (c *CourseCache) version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, config.CacheKey.CatalogVersionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Fetch returns the cached value for the key built by keyFn, or calls load and
// stores its result. Cache failures are logged and never fail the request.
func Fetch[T any](ctx context.Context, c *CourseCache, keyFn func(version int64) string, load func() (T, error)) (T, error) {
	if !c.enabled() {
		return load()
	}

	version, err := c.version(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to read catalog version, bypassing cache")
		return load()
	}
	key := keyFn(version)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to encode cache entry")
		return value, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return value, nil
}

// Invalidate orphans every cached query result.
func (c *CourseCache) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	v, err := c.rdb.Incr(ctx, config.CacheKey.CatalogVersionKey()).Result()
	if err != nil {
		return err
	}
	c.log.Debug().Int64("version", v).Msg("Catalog cache invalidated")
	return nil
}

// digest returns a short stable fingerprint of v's JSON encoding.
func digest(v interface{}) string {
	raw, _ := json.Marshal(v)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:12])
}
