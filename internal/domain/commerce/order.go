package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the local copy of a remote order.
//
// CustomerID references a Customer by its remote identifier. It is nil for guest
// checkouts and may point at a customer that has not been ingested yet.
type Order struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	OrderID      int64 // remote identifier
	CustomerID   *int64
	TotalPrice   decimal.NullDecimal
	CreatedAt    time.Time
	LastSyncedAt time.Time
}

// NewOrder creates an order row for upsert. A zero createdAt falls back to now.
func NewOrder(tenantID uuid.UUID, orderID int64, customerID *int64, total decimal.Decimal, createdAt time.Time) (*Order, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if orderID <= 0 {
		return nil, ErrInvalidRemoteID
	}
	if customerID != nil && *customerID <= 0 {
		return nil, ErrInvalidCustomerRef
	}
	if total.IsNegative() {
		return nil, ErrNegativeAmount
	}
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	return &Order{
		ID:           uuid.New(),
		TenantID:     tenantID,
		OrderID:      orderID,
		CustomerID:   customerID,
		TotalPrice:   decimal.NewNullDecimal(total),
		CreatedAt:    createdAt.UTC(),
		LastSyncedAt: now,
	}, nil
}

// IsGuest reports whether the order has no customer reference.
func (o *Order) IsGuest() bool {
	return o.CustomerID == nil
}
