// Package httpapi wires the Gin engine: middleware, infra endpoints and the
// versioned footprint API.
//
// Middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery
//  5. Body size limit
//  6. Metrics (+ /metrics)
//  7. Idempotency (a replay aborts before the rate limiter)
//  8. Rate limiter
//  9. CORS and security headers
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-eco-backend/internal/config"
	"github.com/tbourn/go-eco-backend/internal/http/handlers"
	"github.com/tbourn/go-eco-backend/internal/http/middleware"
	"github.com/tbourn/go-eco-backend/internal/repo"
)

// Deps are the services mounted by RegisterRoutes. Idempotency may be nil,
// which disables replay.
type Deps struct {
	Footprints  handlers.FootprintService
	Assistant   handlers.AssistantService
	Reminders   handlers.ReminderService
	Idempotency middleware.IdempotencyStore
}

// IdempotencyRepo stores replay records in SQLite through the repo package.
type IdempotencyRepo struct {
	DB  *gorm.DB
	TTL time.Duration
}

// Lookup returns the stored response for (scope, key), or nil.
func (r IdempotencyRepo) Lookup(ctx context.Context, scope, key string, now time.Time) (*middleware.StoredResponse, error) {
	rec, err := repo.GetIdempotency(ctx, r.DB, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &middleware.StoredResponse{Status: rec.Status, Body: rec.Body}, nil
}

// Save records resp. A concurrent first writer wins; the loser is not an error.
func (r IdempotencyRepo) Save(ctx context.Context, scope, key string, resp middleware.StoredResponse) error {
	_, err := repo.CreateIdempotency(ctx, r.DB, scope, key, resp.Status, resp.Body, r.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

var (
	corsMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}
	corsExpose  = []string{"X-Request-ID", "Content-Length", "ETag", "Content-Disposition", middleware.HeaderReplayed}
)

// RegisterRoutes installs middleware and routes on r.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Idempotency != nil {
		r.Use(middleware.Idempotency(deps.Idempotency, middleware.IdempotencyOptions{MaxLen: 200}))
	}

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	if len(cfg.CORS.AllowedOrigins) == 0 {
		// ACAO: * even without an Origin header, so plain health checks see it.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    corsMethods,
			AllowHeaders:    corsHeaders,
			ExposeHeaders:   corsExpose,
			MaxAge:          12 * time.Hour,
		}))
	} else {
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
			AllowOrigins:  cfg.CORS.AllowedOrigins,
			AllowMethods:  corsMethods,
			AllowHeaders:  corsHeaders,
			ExposeHeaders: corsExpose,
			MaxAge:        12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h := handlers.New(deps.Footprints, deps.Assistant, deps.Reminders)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/footprints", h.ComputeFootprint)
		api.POST("/footprints/estimate", h.EstimateFootprint)

		api.GET("/history", h.ListHistory)
		api.DELETE("/history", h.ClearHistory)
		api.GET("/history/table", h.HistoryTable)
		api.GET("/history/chart", h.HistoryChart)
		api.GET("/history/summary", h.HistorySummary)
		api.GET("/history/export", h.ExportHistory)

		api.POST("/assistant/chat", h.AssistantChat)

		api.GET("/reminders", h.ListReminders)
		api.POST("/reminders", h.ScheduleReminder)
		api.DELETE("/reminders/:id", h.CancelReminder)
	}
}

// limitBody caps request bodies at maxBytes; larger bodies fail on read.
// maxBytes <= 0 disables the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix; "" and "/" mean root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
