package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "REDIS_URL", "CACHE_TTL_SECONDS", "MAX_UPLOAD_SIZE_MB", "INGEST_TOKEN", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Nil(t, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("INGEST_TOKEN", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.Equal(t, int32(16), cfg.MaxDBConns)
	assert.Equal(t, "s3cret", cfg.IngestToken)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "courses:v3:list:abc", CacheKey.CourseListKey(3, "abc"))
	assert.Equal(t, "courses:v0:ask:x", CacheKey.CourseAskKey(0, "x"))
	assert.Equal(t, "courses:v1:compare:y", CacheKey.CourseCompareKey(1, "y"))
}
