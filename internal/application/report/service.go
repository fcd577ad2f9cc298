package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/report"
)

// Service answers the dashboard queries for one tenant at a time
type Service struct {
	repo     report.Repository
	archiver report.ExportArchiver
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for the revenue growth windows
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithArchiver stores a copy of every CSV export
func WithArchiver(a report.ExportArchiver) Option {
	return func(s *Service) { s.archiver = a }
}

// NewService creates a new report service
func NewService(repo report.Repository, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns customer, order and revenue totals
func (s *Service) Summary(ctx context.Context, tenantID uuid.UUID) (*report.Summary, error) {
	summary, err := s.repo.Summary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = &report.Summary{}
	}
	summary.TotalRevenue = money(summary.TotalRevenue)
	return summary, nil
}

// OrdersByDate returns per-day order counts and revenue inside the range,
// ascending by date
func (s *Service) OrdersByDate(ctx context.Context, tenantID uuid.UUID, r report.DateRange) ([]report.DailyOrders, error) {
	from, to := r.Bounds()
	days, err := s.repo.OrdersByDate(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	if days == nil {
		return []report.DailyOrders{}, nil
	}
	for i := range days {
		days[i].Revenue = money(days[i].Revenue)
	}
	return days, nil
}

// TopCustomers returns the five biggest spenders
func (s *Service) TopCustomers(ctx context.Context, tenantID uuid.UUID) ([]report.CustomerSpend, error) {
	return s.ranking(ctx, tenantID, report.TopCustomersLimit)
}

// ExportTopCustomers returns the full spend ranking
func (s *Service) ExportTopCustomers(ctx context.Context, tenantID uuid.UUID) ([]report.CustomerSpend, error) {
	return s.ranking(ctx, tenantID, 0)
}

func (s *Service) ranking(ctx context.Context, tenantID uuid.UUID, limit int) ([]report.CustomerSpend, error) {
	rows, err := s.repo.TopCustomers(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return []report.CustomerSpend{}, nil
	}
	for i := range rows {
		rows[i].TotalSpent = money(rows[i].TotalSpent)
	}
	return rows, nil
}

// RevenueGrowth compares revenue of the last seven days with the seven before
func (s *Service) RevenueGrowth(ctx context.Context, tenantID uuid.UUID) (*report.RevenueGrowth, error) {
	cur, prev := report.GrowthWindows(s.now())

	current, err := s.repo.RevenueBetween(ctx, tenantID, cur.From, cur.To)
	if err != nil {
		return nil, err
	}
	previous, err := s.repo.RevenueBetween(ctx, tenantID, prev.From, prev.To)
	if err != nil {
		return nil, err
	}

	current, previous = money(current), money(previous)
	return &report.RevenueGrowth{
		Current:  current,
		Previous: previous,
		Growth:   report.ComputeGrowth(current, previous),
	}, nil
}

// AverageOrderValue returns the mean order total, 0 without orders
func (s *Service) AverageOrderValue(ctx context.Context, tenantID uuid.UUID) (*report.AverageOrderValue, error) {
	aov, err := s.repo.AverageOrderValue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &report.AverageOrderValue{AOV: money(aov)}, nil
}

// RepeatCustomers counts customers with at least two orders
func (s *Service) RepeatCustomers(ctx context.Context, tenantID uuid.UUID) (*report.RepeatCustomers, error) {
	n, err := s.repo.RepeatCustomers(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &report.RepeatCustomers{RepeatCustomers: n}, nil
}

// ExportOrders returns every order joined with its customer's fields
func (s *Service) ExportOrders(ctx context.Context, tenantID uuid.UUID) ([]report.OrderExportRow, error) {
	rows, err := s.repo.ExportOrders(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		return []report.OrderExportRow{}, nil
	}
	return rows, nil
}

func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
