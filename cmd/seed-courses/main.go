package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stemsi/course-catalog/internal/config"
	"github.com/stemsi/course-catalog/internal/database"
	"github.com/stemsi/course-catalog/internal/logger"
	"github.com/stemsi/course-catalog/internal/repository"
	"github.com/stemsi/course-catalog/internal/service"
	"github.com/stemsi/course-catalog/internal/validator"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "data/courses.csv", "CSV file to load")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Cached query results are orphaned when Redis is configured.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, cached results will expire on their own")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	courseRepo := repository.NewCourseRepository(pool)
	ingestService := service.NewIngestService(courseRepo, service.NewCourseCache(rdb, cfg.CacheTTL, log), log)

	f, err := os.Open(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to open CSV")
	}
	defer f.Close()

	fmt.Printf("=== Seeding courses from %s ===\n", file)

	n, err := ingestService.Ingest(ctx, f)
	if err != nil {
		log.Fatal().Err(err).Msg("Seed failed")
	}

	fmt.Printf("Done. %d courses upserted.\n", n)
}
