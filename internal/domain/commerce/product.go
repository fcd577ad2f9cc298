package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the local copy of a remote catalog product.
type Product struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	ProductID    int64 // remote identifier
	Title        string
	Price        decimal.NullDecimal
	LastSyncedAt time.Time
}

// NewProduct creates a product row for upsert.
func NewProduct(tenantID uuid.UUID, productID int64, title string, price decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if productID <= 0 {
		return nil, ErrInvalidRemoteID
	}
	if price.IsNegative() {
		return nil, ErrNegativeAmount
	}
	return &Product{
		ID:           uuid.New(),
		TenantID:     tenantID,
		ProductID:    productID,
		Title:        title,
		Price:        decimal.NewNullDecimal(price),
		LastSyncedAt: time.Now().UTC(),
	}, nil
}
