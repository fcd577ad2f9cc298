package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopCustomersLimit is the number of rows returned by the top customers ranking.
const TopCustomersLimit = 5

// Summary provides store-wide totals
type Summary struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// DailyOrders is one calendar day of order activity
type DailyOrders struct {
	Date        string          `json:"date"` // YYYY-MM-DD, UTC
	OrdersCount int64           `json:"orders_count"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// CustomerSpend ranks a customer by the sum of their order totals
type CustomerSpend struct {
	CustomerID int64           `json:"-"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Email      string          `json:"email"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// RevenueGrowth compares the last seven days with the seven before them
type RevenueGrowth struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Growth   string          `json:"growth"` // percentage, two decimal places
}

// AverageOrderValue is the mean order total
type AverageOrderValue struct {
	AOV decimal.Decimal `json:"aov"`
}

// RepeatCustomers counts customers with more than one distinct order
type RepeatCustomers struct {
	RepeatCustomers int64 `json:"repeat_customers"`
}

// OrderExportRow is one order joined with its customer's contact fields.
// Customer fields are empty for guest orders and for customers not ingested yet.
type OrderExportRow struct {
	OrderID    int64
	CustomerID *int64
	FirstName  string
	LastName   string
	Email      string
	TotalPrice decimal.NullDecimal
	CreatedAt  time.Time
}
