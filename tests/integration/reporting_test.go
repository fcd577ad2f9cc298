//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	reportapp "github.com/shopsight/backend/internal/application/report"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/identity"
	"github.com/shopsight/backend/internal/domain/report"
	"github.com/shopsight/backend/internal/domain/shared"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
)

type storeFixture struct {
	customers *persistence.GormCustomerRepository
	orders    *persistence.GormOrderRepository
}

func (f storeFixture) customer(t *testing.T, tenantID uuid.UUID, id int64, first string) {
	t.Helper()
	c, err := commerce.NewCustomer(tenantID, id, first, gofakeit.LastName(), gofakeit.Email())
	require.NoError(t, err)
	require.NoError(t, f.customers.Upsert(context.Background(), c))
}

func (f storeFixture) order(t *testing.T, tenantID uuid.UUID, id int64, customerID *int64, total string, createdAt time.Time) {
	t.Helper()
	o, err := commerce.NewOrder(tenantID, id, customerID, decimal.RequireFromString(total), createdAt)
	require.NoError(t, err)
	require.NoError(t, f.orders.Upsert(context.Background(), o))
}

func ref(id int64) *int64 { return &id }

func TestReports_AgainstPostgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenantA := tdb.CreateTenant("alpha")
	tenantB := tdb.CreateTenant("beta")

	f := storeFixture{
		customers: persistence.NewGormCustomerRepository(tdb.DB),
		orders:    persistence.NewGormOrderRepository(tdb.DB),
	}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	f.customer(t, tenantA, 1, "Ada")
	f.customer(t, tenantA, 2, "Grace")
	f.order(t, tenantA, 100, ref(1), "10.50", now.Add(-24*time.Hour))
	f.order(t, tenantA, 101, ref(1), "20.00", now.Add(-48*time.Hour))
	f.order(t, tenantA, 102, ref(2), "5.25", now.Add(-10*24*time.Hour))
	f.order(t, tenantA, 103, nil, "4.25", now.Add(-24*time.Hour))

	// Same remote ids in another tenant must not leak
	f.customer(t, tenantB, 1, "Other")
	f.order(t, tenantB, 100, ref(1), "999.00", now.Add(-24*time.Hour))

	svc := reportapp.NewService(persistence.NewGormReportRepository(tdb.DB), zap.NewNop(),
		reportapp.WithClock(func() time.Time { return now }))

	t.Run("summary", func(t *testing.T) {
		s, err := svc.Summary(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, int64(2), s.TotalCustomers)
		assert.Equal(t, int64(4), s.TotalOrders)
		assert.Equal(t, "40.00", s.TotalRevenue.StringFixed(2))
	})

	t.Run("orders by date", func(t *testing.T) {
		r, err := report.ParseDateRange("2025-06-13", "2025-06-14")
		require.NoError(t, err)
		days, err := svc.OrdersByDate(ctx, tenantA, r)
		require.NoError(t, err)
		require.Len(t, days, 2)
		assert.Equal(t, "2025-06-13", days[0].Date)
		assert.Equal(t, int64(1), days[0].OrdersCount)
		assert.Equal(t, "2025-06-14", days[1].Date)
		assert.Equal(t, int64(2), days[1].OrdersCount)
		assert.Equal(t, "14.75", days[1].Revenue.StringFixed(2))
	})

	t.Run("top customers skip guests", func(t *testing.T) {
		rows, err := svc.TopCustomers(ctx, tenantA)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Ada", rows[0].FirstName)
		assert.Equal(t, "30.50", rows[0].TotalSpent.StringFixed(2))
	})

	t.Run("repeat customers and aov", func(t *testing.T) {
		repeat, err := svc.RepeatCustomers(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), repeat.RepeatCustomers)

		aov, err := svc.AverageOrderValue(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, "10.00", aov.AOV.StringFixed(2))
	})

	t.Run("revenue growth", func(t *testing.T) {
		g, err := svc.RevenueGrowth(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, "34.75", g.Current.StringFixed(2))
		assert.Equal(t, "5.25", g.Previous.StringFixed(2))
	})

	t.Run("orders export includes guests", func(t *testing.T) {
		export, err := svc.ExportOrdersCSV(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, "orders.csv", export.Filename)
		assert.Contains(t, string(export.Data), "103")
		assert.NotContains(t, string(export.Data), "999.00")
	})
}

func TestUpsert_IsIdempotent(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenantID := tdb.CreateTenant("gamma")
	products := persistence.NewGormProductRepository(tdb.DB)

	for _, title := range []string{"Mug", "Mug v2"} {
		p, err := commerce.NewProduct(tenantID, 42, title, decimal.RequireFromString("12.00"))
		require.NoError(t, err)
		require.NoError(t, products.Upsert(ctx, p))
	}

	n, err := products.CountForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var title string
	require.NoError(t, tdb.DB.Raw("SELECT title FROM products WHERE tenant_id = ? AND product_id = 42", tenantID).Scan(&title).Error)
	assert.Equal(t, "Mug v2", title)
}

func TestUsers_EmailIsUnique(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenantID := tdb.CreateTenant("delta")
	users := persistence.NewGormUserRepository(tdb.DB)

	email := gofakeit.Email()
	first, err := identity.NewUser(tenantID, "Ada", email, "pw-1")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, first))

	second, err := identity.NewUser(tenantID, "Eve", email, "pw-2")
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, second), shared.ErrAlreadyExists)

	found, err := users.FindByEmail(ctx, identity.NormalizeEmail(email))
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.True(t, found.VerifyPassword("pw-1"))
}
