package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CatalogVersionKey holds a counter bumped after every successful ingest.
// Query keys embed the counter so a bump orphans every cached result at once.
func (r *CacheKeyStruct) CatalogVersionKey() string {
	return "courses:version"
}

// CourseListKey returns the cache key for one filtered, paginated list query.
func (r *CacheKeyStruct) CourseListKey(version int64, digest string) string {
	return fmt.Sprintf("courses:v%d:list:%s", version, digest)
}

// CourseCompareKey returns the cache key for a compare query over a set of ids.
func (r *CacheKeyStruct) CourseCompareKey(version int64, digest string) string {
	return fmt.Sprintf("courses:v%d:compare:%s", version, digest)
}

// CourseAskKey returns the cache key for an ask query, keyed by its extracted filters.
func (r *CacheKeyStruct) CourseAskKey(version int64, digest string) string {
	return fmt.Sprintf("courses:v%d:ask:%s", version, digest)
}

var CacheKey = NewCacheKeyStruct()
