package persistence

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

// newSQLiteDB opens a private in-memory database with the full schema
func newSQLiteDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTenant(t *testing.T, db *Database) uuid.UUID {
	t.Helper()
	tenant, err := commerce.NewTenant(uuid.New(), gofakeit.Company(), gofakeit.DomainName())
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db.DB).EnsureExists(t.Context(), tenant))
	return tenant.ID
}

func seedCustomer(t *testing.T, db *Database, tenantID uuid.UUID, customerID int64) *commerce.Customer {
	t.Helper()
	c, err := commerce.NewCustomer(tenantID, customerID, gofakeit.FirstName(), gofakeit.LastName(), gofakeit.Email())
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db.DB).Upsert(t.Context(), c))
	return c
}

func seedOrder(t *testing.T, db *Database, tenantID uuid.UUID, orderID int64, customerID *int64, total string, createdAt time.Time) {
	t.Helper()
	o, err := commerce.NewOrder(tenantID, orderID, customerID, decimal.RequireFromString(total), createdAt)
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db.DB).Upsert(t.Context(), o))
}

func ptr(v int64) *int64 {
	return &v
}
