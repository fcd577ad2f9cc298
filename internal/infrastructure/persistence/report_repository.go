package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopsight/backend/internal/domain/report"
)

// GormReportRepository implements report.Repository with SQL that runs
// unchanged on PostgreSQL, MySQL and SQLite.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// money normalizes aggregate results; SQLite sums decimals as floats.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Summary returns customer and order counts plus total revenue
func (r *GormReportRepository) Summary(ctx context.Context, tenantID uuid.UUID) (*report.Summary, error) {
	var customers int64
	if err := r.db.WithContext(ctx).Model(&CustomerModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&customers).Error; err != nil {
		return nil, err
	}

	var totals struct {
		Orders  int64
		Revenue decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
		Where("tenant_id = ?", tenantID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	return &report.Summary{
		TotalCustomers: customers,
		TotalOrders:    totals.Orders,
		TotalRevenue:   money(totals.Revenue),
	}, nil
}

// OrdersByDate groups orders by calendar day within [from, to)
func (r *GormReportRepository) OrdersByDate(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]report.DailyOrders, error) {
	query := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("DATE(created_at) AS order_date, COUNT(*) AS orders_count, COALESCE(SUM(total_price), 0) AS revenue").
		Where("tenant_id = ?", tenantID)
	if from != nil {
		query = query.Where("created_at >= ?", from.UTC())
	}
	if to != nil {
		query = query.Where("created_at < ?", to.UTC())
	}

	var rows []struct {
		OrderDate   string
		OrdersCount int64
		Revenue     decimal.Decimal
	}
	if err := query.Group("DATE(created_at)").Order("order_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]report.DailyOrders, len(rows))
	for i, row := range rows {
		// drivers return DATE as "2006-01-02" or as a formatted timestamp
		date := row.OrderDate
		if len(date) > len(report.DateLayout) {
			date = date[:len(report.DateLayout)]
		}
		result[i] = report.DailyOrders{
			Date:        date,
			OrdersCount: row.OrdersCount,
			Revenue:     money(row.Revenue),
		}
	}
	return result, nil
}

// TopCustomers ranks ingested customers by the sum of their order totals
func (r *GormReportRepository) TopCustomers(ctx context.Context, tenantID uuid.UUID, limit int) ([]report.CustomerSpend, error) {
	query := r.db.WithContext(ctx).Table("orders AS o").
		Select("c.customer_id, c.first_name, c.last_name, c.email, COALESCE(SUM(o.total_price), 0) AS total_spent").
		Joins("JOIN customers AS c ON c.tenant_id = o.tenant_id AND c.customer_id = o.customer_id").
		Where("o.tenant_id = ?", tenantID).
		Group("c.customer_id, c.first_name, c.last_name, c.email").
		Order("total_spent DESC").
		Order("c.customer_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []report.CustomerSpend
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].TotalSpent = money(rows[i].TotalSpent)
	}
	return rows, nil
}

// RevenueBetween sums order totals created within [from, to)
func (r *GormReportRepository) RevenueBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total struct {
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("COALESCE(SUM(total_price), 0) AS revenue").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from.UTC(), to.UTC()).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return money(total.Revenue), nil
}

// AverageOrderValue returns the mean order total, zero without orders
func (r *GormReportRepository) AverageOrderValue(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var avg struct {
		AOV decimal.Decimal `gorm:"column:aov"`
	}
	err := r.db.WithContext(ctx).Model(&OrderModel{}).
		Select("COALESCE(AVG(total_price), 0) AS aov").
		Where("tenant_id = ?", tenantID).
		Scan(&avg).Error
	if err != nil {
		return decimal.Zero, err
	}
	return money(avg.AOV), nil
}

// RepeatCustomers counts customers with more than one distinct order
func (r *GormReportRepository) RepeatCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	repeaters := r.db.Model(&OrderModel{}).
		Select("customer_id").
		Where("tenant_id = ? AND customer_id IS NOT NULL", tenantID).
		Group("customer_id").
		Having("COUNT(DISTINCT order_id) > 1")

	var count int64
	err := r.db.WithContext(ctx).Table("(?) AS repeaters", repeaters).Count(&count).Error
	return count, err
}

// ExportOrders lists every order with its customer's contact fields, newest first.
// Guest orders and orders whose customer is not ingested keep empty customer fields.
func (r *GormReportRepository) ExportOrders(ctx context.Context, tenantID uuid.UUID) ([]report.OrderExportRow, error) {
	var rows []struct {
		OrderID    int64
		CustomerID *int64
		FirstName  *string
		LastName   *string
		Email      *string
		TotalPrice decimal.NullDecimal
		CreatedAt  time.Time
	}
	err := r.db.WithContext(ctx).Table("orders AS o").
		Select("o.order_id, o.customer_id, c.first_name, c.last_name, c.email, o.total_price, o.created_at").
		Joins("LEFT JOIN customers AS c ON c.tenant_id = o.tenant_id AND c.customer_id = o.customer_id").
		Where("o.tenant_id = ?", tenantID).
		Order("o.created_at DESC").
		Order("o.order_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]report.OrderExportRow, len(rows))
	for i, row := range rows {
		result[i] = report.OrderExportRow{
			OrderID:    row.OrderID,
			CustomerID: row.CustomerID,
			FirstName:  deref(row.FirstName),
			LastName:   deref(row.LastName),
			Email:      deref(row.Email),
			TotalPrice: row.TotalPrice,
			CreatedAt:  row.CreatedAt.UTC(),
		}
	}
	return result, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ report.Repository = (*GormReportRepository)(nil)
