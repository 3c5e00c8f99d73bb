package audit

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mergington/internal/httperr"
)

// Handler serves the audit consumer's health and stats endpoints
type Handler struct {
	store       IdempotencyStore
	serviceName string
	logger      *slog.Logger
}

// NewHandler creates a new audit handler
func NewHandler(store IdempotencyStore, serviceName string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:       store,
		serviceName: serviceName,
		logger:      logger,
	}
}

// RegisterRoutes mounts the audit endpoints on r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/stats", h.Stats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Idempotency store health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": h.serviceName,
			"store":   "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
		"store":   "connected",
	})
}

// Stats handles GET /stats
func (h *Handler) Stats(c *gin.Context) {
	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count idempotency records", "error", err)
		httperr.Write(c, http.StatusInternalServerError, httperr.CodeInternal, "failed to retrieve stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"idempotency_records": count,
	})
}
