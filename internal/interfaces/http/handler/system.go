package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

// Banner is the body of GET /
const Banner = "Shopify Data Ingestion Service is running"

// Pinger checks database connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the unauthenticated service routes
type SystemHandler struct {
	db        Pinger
	startedAt time.Time
	logger    *zap.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, log *zap.Logger) *SystemHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SystemHandler{db: db, startedAt: time.Now(), logger: log}
}

// Root handles GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Health handles GET /health. An unreachable database yields 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "healthy",
		Database: "up",
		Uptime:   time.Since(h.startedAt).Round(time.Second).String(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check database ping failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
