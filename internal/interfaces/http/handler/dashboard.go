package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appreport "github.com/shopsight/backend/internal/application/report"
	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/domain/report"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
)

// ReportService answers the dashboard queries
type ReportService interface {
	Summary(ctx context.Context, tenantID uuid.UUID) (*report.Summary, error)
	OrdersByDate(ctx context.Context, tenantID uuid.UUID, r report.DateRange) ([]report.DailyOrders, error)
	TopCustomers(ctx context.Context, tenantID uuid.UUID) ([]report.CustomerSpend, error)
	RevenueGrowth(ctx context.Context, tenantID uuid.UUID) (*report.RevenueGrowth, error)
	AverageOrderValue(ctx context.Context, tenantID uuid.UUID) (*report.AverageOrderValue, error)
	RepeatCustomers(ctx context.Context, tenantID uuid.UUID) (*report.RepeatCustomers, error)
	ExportOrdersCSV(ctx context.Context, tenantID uuid.UUID) (*appreport.Export, error)
	ExportTopCustomersCSV(ctx context.Context, tenantID uuid.UUID) (*appreport.Export, error)
}

// RunHistory lists recorded ingestion runs
type RunHistory interface {
	RecentRuns(ctx context.Context, tenantID uuid.UUID, limit int) ([]integration.IngestResult, error)
}

// ArchiveKeyHeader names the stored copy of a CSV export
const ArchiveKeyHeader = "X-Export-Archive-Key"

// DashboardHandler serves the authenticated /api/dashboard routes. Every
// query is scoped to the tenant in the caller's token.
type DashboardHandler struct {
	BaseHandler
	reports ReportService
	runs    RunHistory
	logger  *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reports ReportService, runs RunHistory, log *zap.Logger) *DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandler{reports: reports, runs: runs, logger: log}
}

// Summary handles GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.reports.Summary(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		h.queryFailed(c, err, "Error fetching summary metrics")
		return
	}
	h.Success(c, dto.NewSummaryResponse(summary))
}

// OrdersByDate handles GET /api/dashboard/orders-by-date?startDate&endDate
func (h *DashboardHandler) OrdersByDate(c *gin.Context) {
	r, err := report.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		message := "startDate and endDate must be formatted as YYYY-MM-DD"
		if errors.Is(err, report.ErrInvalidRange) {
			message = "startDate must not be after endDate"
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidDate, message)
		return
	}

	days, err := h.reports.OrdersByDate(c.Request.Context(), middleware.GetJWTTenantID(c), r)
	if err != nil {
		h.queryFailed(c, err, "Error fetching orders by date")
		return
	}
	h.Success(c, dto.NewDailyOrdersResponse(days))
}

// TopCustomers handles GET /api/dashboard/top-customers
func (h *DashboardHandler) TopCustomers(c *gin.Context) {
	rows, err := h.reports.TopCustomers(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		h.queryFailed(c, err, "Error fetching top customers")
		return
	}
	h.Success(c, dto.NewTopCustomersResponse(rows))
}

// ExportTopCustomers handles GET /api/dashboard/export-top-customers
func (h *DashboardHandler) ExportTopCustomers(c *gin.Context) {
	h.sendCSV(c, h.reports.ExportTopCustomersCSV)
}

// ExportOrders handles GET /api/dashboard/export-orders
func (h *DashboardHandler) ExportOrders(c *gin.Context) {
	h.sendCSV(c, h.reports.ExportOrdersCSV)
}

// RevenueGrowth handles GET /api/dashboard/revenue-growth
func (h *DashboardHandler) RevenueGrowth(c *gin.Context) {
	growth, err := h.reports.RevenueGrowth(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		h.queryFailed(c, err, "Error fetching revenue growth")
		return
	}
	h.Success(c, dto.NewRevenueGrowthResponse(growth))
}

// AverageOrderValue handles GET /api/dashboard/aov
func (h *DashboardHandler) AverageOrderValue(c *gin.Context) {
	aov, err := h.reports.AverageOrderValue(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		h.queryFailed(c, err, "Error fetching AOV")
		return
	}
	h.Success(c, dto.AOVResponse{AOV: dto.Money(aov.AOV)})
}

// RepeatCustomers handles GET /api/dashboard/repeat-customers
func (h *DashboardHandler) RepeatCustomers(c *gin.Context) {
	repeat, err := h.reports.RepeatCustomers(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		h.queryFailed(c, err, "Error fetching repeat customers")
		return
	}
	h.Success(c, dto.RepeatCustomersResponse{RepeatCustomers: repeat.RepeatCustomers})
}

// IngestionRuns handles GET /api/dashboard/ingestion-runs?limit=
func (h *DashboardHandler) IngestionRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.runs.RecentRuns(c.Request.Context(), middleware.GetJWTTenantID(c), limit)
	if err != nil {
		h.queryFailed(c, err, "Error fetching ingestion runs")
		return
	}
	h.Success(c, dto.NewIngestionRunsResponse(runs))
}

func (h *DashboardHandler) sendCSV(c *gin.Context, export func(context.Context, uuid.UUID) (*appreport.Export, error)) {
	e, err := export(c.Request.Context(), middleware.GetJWTTenantID(c))
	if err != nil {
		logger.FromContext(c.Request.Context(), h.logger).Error("CSV export failed", zap.Error(err))
		_ = c.Error(err)
		h.InternalError(c, dto.ErrCodeExportFailed, "Error exporting CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.Filename))
	if e.ArchiveKey != "" {
		c.Header(ArchiveKeyHeader, e.ArchiveKey)
	}
	c.Data(http.StatusOK, "text/csv; charset=utf-8", e.Data)
}

func (h *DashboardHandler) queryFailed(c *gin.Context, err error, message string) {
	logger.FromContext(c.Request.Context(), h.logger).Error(message, zap.Error(err))
	_ = c.Error(err)
	h.InternalError(c, dto.ErrCodeQueryFailed, message)
}
