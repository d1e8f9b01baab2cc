package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/course-catalog/internal/config"
	"github.com/stemsi/course-catalog/internal/handler"
	"github.com/stemsi/course-catalog/internal/middleware"
	"github.com/stemsi/course-catalog/internal/response"
)

// catalogMaxAge is how long clients may reuse a list or compare response.
const catalogMaxAge = 30

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health *handler.HealthHandler
	Course *handler.CourseHandler
	Ingest *handler.IngestHandler
}

// Limiters holds the per-IP rate limiters applied to write-heavy routes.
type Limiters struct {
	Ask    *middleware.RateLimiter
	Ingest *middleware.RateLimiter
}

// NewLimiters builds the limiters from config. Ingest is allowed a tenth of
// the ask rate, with a floor of one request per minute. A non-positive rate
// disables both.
func NewLimiters(cfg *config.Config) *Limiters {
	if cfg.AskRatePerMinute <= 0 {
		return &Limiters{}
	}
	ingestRate := cfg.AskRatePerMinute / 10
	if ingestRate < 1 {
		ingestRate = 1
	}
	return &Limiters{
		Ask:    middleware.NewRateLimiter(cfg.AskRatePerMinute, time.Minute),
		Ingest: middleware.NewRateLimiter(ingestRate, time.Minute),
	}
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, limiters *Limiters, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Request ID first so the logger and every error body can see it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.HeaderIngestToken, response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	api := router.Group("/api")

	// ─── Health ────────────────────────────────────────────────────────
	health := api.Group("/health", middleware.NoStore())
	{
		health.GET("", handlers.Health.Health)
		health.GET("/ready", handlers.Health.Ready)
	}

	// ─── Catalog reads ─────────────────────────────────────────────────
	api.GET("/courses", middleware.CacheControl(catalogMaxAge), handlers.Course.ListCourses)
	api.GET("/compare", middleware.CacheControl(catalogMaxAge), handlers.Course.CompareCourses)
	api.POST("/ask", limiters.Ask.Middleware(), handlers.Course.Ask)

	// ─── Ingest (token, rate limited) ──────────────────────────────────
	api.POST("/ingest",
		middleware.NoStore(),
		limiters.Ingest.Middleware(),
		middleware.RequireIngestToken(cfg.IngestToken),
		handlers.Ingest.IngestCSV,
	)

	return router
}
