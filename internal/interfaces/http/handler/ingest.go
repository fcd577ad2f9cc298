package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
)

// Ingester runs one ingestion pass
type Ingester interface {
	Ingest(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*integration.IngestResult, error)
}

// IngestHandler serves the manual ingestion triggers. Responses are plain
// text.
type IngestHandler struct {
	ingester      Ingester
	defaultTenant uuid.UUID
	logger        *zap.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingester Ingester, defaultTenant uuid.UUID, log *zap.Logger) *IngestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestHandler{ingester: ingester, defaultTenant: defaultTenant, logger: log}
}

// Products handles GET /ingest-products
func (h *IngestHandler) Products(c *gin.Context) { h.trigger(c, integration.EntityProducts) }

// Customers handles GET /ingest-customers
func (h *IngestHandler) Customers(c *gin.Context) { h.trigger(c, integration.EntityCustomers) }

// Orders handles GET /ingest-orders
func (h *IngestHandler) Orders(c *gin.Context) { h.trigger(c, integration.EntityOrders) }

func (h *IngestHandler) trigger(c *gin.Context, kind integration.EntityKind) {
	tenantID := h.defaultTenant
	if raw := strings.TrimSpace(c.Query("tenant_id")); raw != "" {
		tenantID = config.TenantUUID(raw)
	}
	c.Set(middleware.TenantIDKey, tenantID.String())

	log := logger.FromContext(c.Request.Context(), h.logger).With(
		zap.String("tenant_id", tenantID.String()),
		zap.String("kind", kind.String()))

	result, err := h.ingester.Ingest(c.Request.Context(), tenantID, kind)
	switch {
	case err == nil && result != nil:
		c.String(http.StatusOK, "%s ingestion completed (%d records)", kind.Label(), result.Saved)
	case errors.Is(err, integration.ErrIngestionInProgress):
		c.String(http.StatusConflict, "%s ingestion already in progress", kind.Label())
	case errors.Is(err, integration.ErrTenantNotConfigured):
		c.String(http.StatusNotFound, "Tenant %s is not configured", tenantID)
	default:
		if err == nil {
			err = fmt.Errorf("%s ingestion returned no result", kind)
		}
		log.Error("Manual ingestion failed", zap.Error(err))
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Error ingesting %s", kind)
	}
}
