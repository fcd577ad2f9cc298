package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TenantRepository persists tenants.
type TenantRepository interface {
	// EnsureExists inserts the tenant or refreshes its name and store domain.
	EnsureExists(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindAll(ctx context.Context) ([]Tenant, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	// Upsert inserts or updates the row keyed by (tenant, product id).
	Upsert(ctx context.Context, product *Product) error
	// DeleteStale removes the tenant's rows not synced since the given time.
	DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// CustomerRepository persists customers.
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *Customer) error
	DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// OrderRepository persists orders.
type OrderRepository interface {
	Upsert(ctx context.Context, order *Order) error
	DeleteStale(ctx context.Context, tenantID uuid.UUID, syncedBefore time.Time) (int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
