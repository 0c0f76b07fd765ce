// Package api is the catalog's HTTP boundary.
package api

import (
	"log/slog"
	"net/http"

	"catalog/domain"
	"catalog/metrics"
	"catalog/usecase"

	"github.com/gin-gonic/gin"
)

// RouterConfig holds what the HTTP layer needs.
type RouterConfig struct {
	Catalog *usecase.Catalog
	Events  domain.EventLog
	Logger  *slog.Logger

	// Recorder and MetricsHandler are optional.
	Recorder       *metrics.Recorder
	MetricsHandler http.Handler

	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
	// ValidateRequests checks /api requests against the OpenAPI document.
	ValidateRequests bool
}

// NewRouter builds the gin engine serving the catalog.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	router := gin.New()
	router.Use(recovery(logger), requestID(), requestLogger(logger), requestMetrics(cfg.Recorder))
	if len(cfg.CORSOrigins) > 0 {
		router.Use(corsMiddleware(cfg.CORSOrigins))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", OpenAPIDocument())
	})
	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api")
	if cfg.ValidateRequests {
		v, err := NewRequestValidator()
		if err != nil {
			return nil, err
		}
		api.Use(v.Middleware())
	}

	h := NewProductHandler(cfg.Catalog, cfg.Events, logger)
	products := api.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.PUT("/:id/price", h.ChangePrice)
		products.POST("/:id/stock", h.AdjustStock)
		products.PUT("/:id/status", h.ChangeStatus)
		products.GET("/:id/discount", h.Discount)
		products.GET("/:id/events", h.Events)
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "Not found", "no route for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	return router, nil
}
