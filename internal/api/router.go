// Package api exposes the learner operations as JSON endpoints.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillpilot/internal/learner"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string

	// AdminToken is the operator secret for preview and admin profiles. It
	// is accepted verbatim in X-Admin-Token and signs bearer tokens. Empty
	// disables those routes.
	AdminToken string
}

// DefaultConfig returns the listen address and admin token from
// SKILLPILOT_ADDR and SKILLPILOT_ADMIN_TOKEN.
func DefaultConfig() Config {
	cfg := Config{Addr: ":8080"}
	if a := os.Getenv("SKILLPILOT_ADDR"); a != "" {
		cfg.Addr = a
	}
	cfg.AdminToken = os.Getenv("SKILLPILOT_ADMIN_TOKEN")
	return cfg
}

// SetupRouter wires the learner service onto a gin engine. Requests under
// /v1 are validated against the embedded OpenAPI document.
func SetupRouter(svc *learner.Service, cfg Config, logger *slog.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc)
	if err != nil {
		return nil, err
	}
	h := &handlers{svc: svc, adminSecret: cfg.AdminToken}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", healthHandler(svc))
	r.GET("/openapi.json", specHandler(doc))

	v1 := r.Group("/v1", validate)
	{
		v1.GET("/use-cases", h.listUseCases())

		v1.POST("/profiles", h.createProfile())
		v1.GET("/profiles/:id", h.getProfile())
		v1.PUT("/profiles/:id/intake", h.updateIntake())
		v1.PUT("/profiles/:id/admin", adminOnly(cfg.AdminToken), h.setAdmin())
		v1.GET("/profiles/:id/tree", h.getTree())
		v1.POST("/profiles/:id/use-cases/:useCaseID/complete", h.completeUseCase())

		v1.POST("/profiles/:id/program", h.startProgram())
		v1.POST("/profiles/:id/program/weeks/:week/submit", h.submitWeek())
		v1.POST("/profiles/:id/program/weeks/:week/resume", h.resumeReview())
	}

	preview := r.Group("/v1/preview", adminOnly(cfg.AdminToken), validate)
	{
		preview.GET("", h.preview())
		preview.POST("/weeks/:week/submit", h.previewSubmit())
	}
	return r, nil
}

// GET /healthz
func healthHandler(svc *learner.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := svc.Catalog()
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"contentVersion": cat.Version(),
			"contentHash":    cat.Fingerprint(),
		})
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		}
		if admin := c.GetString("admin"); admin != "" {
			attrs = append(attrs, "admin", admin)
		}
		logger.Info("http request", attrs...)
	}
}
