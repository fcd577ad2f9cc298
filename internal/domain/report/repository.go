package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository runs the tenant-scoped aggregate queries behind the dashboard.
type Repository interface {
	Summary(ctx context.Context, tenantID uuid.UUID) (*Summary, error)
	// OrdersByDate groups orders by UTC calendar day, ascending.
	OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]DailyOrders, error)
	// TopCustomers ranks customers by spend descending, ties by customer id.
	// A limit of 0 returns the full ranking.
	TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]CustomerSpend, error)
	RevenueBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	AverageOrderValue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	RepeatCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// ExportOrders returns every order with its customer fields, newest first.
	ExportOrders(ctx context.Context, tenantID uuid.UUID) ([]OrderExportRow, error)
}

// ExportArchiver keeps a copy of every CSV export. Archive returns the object key.
type ExportArchiver interface {
	Archive(ctx context.Context, tenantID uuid.UUID, name string, data []byte) (string, error)
}
