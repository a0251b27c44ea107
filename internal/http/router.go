// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-decision-backend/docs"
	"github.com/tbourn/go-decision-backend/internal/ai"
	"github.com/tbourn/go-decision-backend/internal/config"
	"github.com/tbourn/go-decision-backend/internal/domain"
	"github.com/tbourn/go-decision-backend/internal/http/handlers"
	"github.com/tbourn/go-decision-backend/internal/http/middleware"
	"github.com/tbourn/go-decision-backend/internal/prefs"
	"github.com/tbourn/go-decision-backend/internal/repo"
	"github.com/tbourn/go-decision-backend/internal/services"
)

// comparisonRepoShim adapts the repository free functions to the
// services.ComparisonRepo interface expected by the ComparisonService. This
// keeps services decoupled from the concrete repo package while reusing
// existing functions.
type comparisonRepoShim struct{}

// Save proxies repo.SaveComparison.
func (comparisonRepoShim) Save(ctx context.Context, db *gorm.DB, rec *domain.ComparisonRecord) error {
	return repo.SaveComparison(ctx, db, rec)
}

// Get proxies repo.GetComparison.
func (comparisonRepoShim) Get(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ComparisonRecord, error) {
	return repo.GetComparison(ctx, db, id, userID)
}

// Count proxies repo.CountComparisons (pagination and personalization gate).
func (comparisonRepoShim) Count(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountComparisons(ctx, db, userID)
}

// ListPage proxies repo.ListComparisonsPage.
func (comparisonRepoShim) ListPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.ComparisonRecord, error) {
	return repo.ListComparisonsPage(ctx, db, userID, offset, limit)
}

// Delete proxies repo.DeleteComparison.
func (comparisonRepoShim) Delete(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteComparison(ctx, db, id, userID)
}

// Clear proxies repo.ClearComparisons.
func (comparisonRepoShim) Clear(ctx context.Context, db *gorm.DB, userID string) error {
	return repo.ClearComparisons(ctx, db, userID)
}

// Trim proxies repo.TrimHistory (history cap enforcement).
func (comparisonRepoShim) Trim(ctx context.Context, db *gorm.DB, userID string, max int) error {
	return repo.TrimHistory(ctx, db, userID, max)
}

// historyRepoShim adapts the repository free functions to the
// services.HistoryRepo interface used by preference seeding.
type historyRepoShim struct{}

// Count proxies repo.CountComparisons.
func (historyRepoShim) Count(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountComparisons(ctx, db, userID)
}

// ListRecent proxies repo.ListRecentComparisons.
func (historyRepoShim) ListRecent(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ComparisonRecord, error) {
	return repo.ListRecentComparisons(ctx, db, userID, limit)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and
// rate limiting, CORS and security headers, health/metrics/docs endpoints,
// and then mounts the versioned public API under /api/v*.
//
// gen may be nil (no API key); extraction and refinement then fail with a
// recoverable error while preference mapping degrades to the heuristic.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Response compression
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gen ai.Generator, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (comparison snapshots are JSON-heavy)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, comparisonID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, comparisonID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← AI client / repo / db
	client := &ai.Client{Gen: gen, Timeout: cfg.AI.Timeout}

	var remote prefs.RemoteMapper
	if gen != nil {
		remote = client
	}
	prefSvc := services.NewPreferenceService(db, historyRepoShim{}, &prefs.Mapper{Remote: remote})
	prefSvc.HistoryMax = cfg.HistoryMax

	cmpSvc := services.NewComparisonService(db, comparisonRepoShim{}, client, client, prefSvc)
	cmpSvc.Undo = services.NewSnapshotStacks(cfg.UndoDepth)
	cmpSvc.HistoryMax = cfg.HistoryMax
	cmpSvc.MaxInputRunes = cfg.MaxInputRunes
	cmpSvc.TitleLocale = language.English

	h := handlers.New(cmpSvc, prefSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Comparisons
		api.POST("/comparisons", h.CreateComparison)
		api.GET("/comparisons", h.ListComparisons)
		api.DELETE("/comparisons", h.ClearComparisons)
		api.GET("/comparisons/:id", h.GetComparison)
		api.DELETE("/comparisons/:id", h.DeleteComparison)
		api.PUT("/comparisons/:id/title", h.UpdateComparisonTitle)
		api.POST("/comparisons/:id/refine", h.RefineComparison)
		api.GET("/comparisons/:id/scores", h.GetScores)
		api.POST("/comparisons/:id/undo", h.UndoComparison)
		api.POST("/comparisons/:id/redo", h.RedoComparison)

		// Items and points
		api.POST("/comparisons/:id/items", h.AddItem)
		api.DELETE("/comparisons/:id/items/:itemId", h.RemoveItem)
		api.POST("/comparisons/:id/items/:itemId/points", h.AddPoint)
		api.PUT("/comparisons/:id/items/:itemId/points/:pointId", h.UpdatePoint)
		api.DELETE("/comparisons/:id/items/:itemId/points/:pointId", h.RemovePoint)

		// Preferences
		api.PUT("/comparisons/:id/preferences", h.ReplacePreferences)
		api.PUT("/comparisons/:id/weights/:category", h.SetCategoryWeight)
		api.POST("/preferences/map", h.MapPreferences)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
