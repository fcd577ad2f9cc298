package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/domain/report"
)

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every JSON error
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorInfo `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Error:     ErrorInfo{Code: code, Message: message},
		RequestID: requestID,
	}
}

// Money renders an amount with exactly two decimal places
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SummaryResponse is the body of GET /api/dashboard/summary
type SummaryResponse struct {
	TotalCustomers int64  `json:"total_customers"`
	TotalOrders    int64  `json:"total_orders"`
	TotalRevenue   string `json:"total_revenue"`
}

// NewSummaryResponse converts the read model
func NewSummaryResponse(s *report.Summary) SummaryResponse {
	return SummaryResponse{
		TotalCustomers: s.TotalCustomers,
		TotalOrders:    s.TotalOrders,
		TotalRevenue:   Money(s.TotalRevenue),
	}
}

// DailyOrdersResponse is one row of GET /api/dashboard/orders-by-date
type DailyOrdersResponse struct {
	Date        string `json:"date"`
	OrdersCount int64  `json:"orders_count"`
	Revenue     string `json:"revenue"`
}

// NewDailyOrdersResponse converts the read models, keeping their order
func NewDailyOrdersResponse(days []report.DailyOrders) []DailyOrdersResponse {
	out := make([]DailyOrdersResponse, len(days))
	for i, d := range days {
		out[i] = DailyOrdersResponse{Date: d.Date, OrdersCount: d.OrdersCount, Revenue: Money(d.Revenue)}
	}
	return out
}

// TopCustomerResponse is one row of GET /api/dashboard/top-customers
type TopCustomerResponse struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	TotalSpent string `json:"total_spent"`
}

// NewTopCustomersResponse converts the ranking, keeping its order
func NewTopCustomersResponse(rows []report.CustomerSpend) []TopCustomerResponse {
	out := make([]TopCustomerResponse, len(rows))
	for i, r := range rows {
		out[i] = TopCustomerResponse{
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Email:      r.Email,
			TotalSpent: Money(r.TotalSpent),
		}
	}
	return out
}

// RevenueGrowthResponse is the body of GET /api/dashboard/revenue-growth
type RevenueGrowthResponse struct {
	Current  string `json:"current"`
	Previous string `json:"previous"`
	Growth   string `json:"growth"`
}

// NewRevenueGrowthResponse converts the read model
func NewRevenueGrowthResponse(g *report.RevenueGrowth) RevenueGrowthResponse {
	return RevenueGrowthResponse{
		Current:  Money(g.Current),
		Previous: Money(g.Previous),
		Growth:   g.Growth,
	}
}

// AOVResponse is the body of GET /api/dashboard/aov
type AOVResponse struct {
	AOV string `json:"aov"`
}

// RepeatCustomersResponse is the body of GET /api/dashboard/repeat-customers
type RepeatCustomersResponse struct {
	RepeatCustomers int64 `json:"repeat_customers"`
}

// IngestionRunResponse is one row of GET /api/dashboard/ingestion-runs
type IngestionRunResponse struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Pages      int       `json:"pages"`
	Fetched    int       `json:"fetched"`
	Saved      int       `json:"saved"`
	Pruned     int64     `json:"pruned"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// NewIngestionRunsResponse converts run history
func NewIngestionRunsResponse(runs []integration.IngestResult) []IngestionRunResponse {
	out := make([]IngestionRunResponse, len(runs))
	for i := range runs {
		r := &runs[i]
		out[i] = IngestionRunResponse{
			ID:         r.ID.String(),
			Kind:       r.Kind.String(),
			Status:     r.Status.String(),
			Pages:      r.Pages,
			Fetched:    r.Fetched,
			Saved:      r.Saved,
			Pruned:     r.Pruned,
			StartedAt:  r.StartedAt.UTC(),
			FinishedAt: r.FinishedAt.UTC(),
			DurationMS: r.Duration().Milliseconds(),
			Error:      r.Error,
		}
	}
	return out
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenant_id"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}
