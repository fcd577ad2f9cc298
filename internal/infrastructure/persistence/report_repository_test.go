package persistence

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d, h, m int) time.Time {
	return time.Date(2025, 1, d, h, m, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedReportData creates two tenants. The first holds three customers and six
// orders (one guest, one for a customer never ingested); the second holds a
// single large order that must never leak into the first tenant's reports.
func seedReportData(t *testing.T, db *Database) (tenantA, tenantB uuid.UUID) {
	t.Helper()
	tenantA = newTenant(t, db)
	tenantB = newTenant(t, db)

	seedCustomer(t, db, tenantA, 1)
	seedCustomer(t, db, tenantA, 2)
	seedCustomer(t, db, tenantA, 3)

	seedOrder(t, db, tenantA, 101, ptr(1), "100.00", day(5, 10, 0))
	seedOrder(t, db, tenantA, 102, ptr(1), "50.00", day(5, 18, 0))
	seedOrder(t, db, tenantA, 103, ptr(2), "150.00", day(6, 9, 0))
	seedOrder(t, db, tenantA, 104, nil, "20.00", day(7, 12, 0))
	seedOrder(t, db, tenantA, 105, ptr(3), "30.00", day(7, 23, 59))
	seedOrder(t, db, tenantA, 106, ptr(99), "10.00", day(8, 8, 0))

	seedCustomer(t, db, tenantB, 1)
	seedOrder(t, db, tenantB, 101, ptr(1), "999.00", day(5, 10, 0))
	seedOrder(t, db, tenantB, 102, ptr(1), "1.00", day(6, 10, 0))
	return tenantA, tenantB
}

func TestGormReportRepository(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormReportRepository(db.DB)
	ctx := t.Context()
	tenantA, tenantB := seedReportData(t, db)

	t.Run("Summary", func(t *testing.T) {
		s, err := repo.Summary(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.TotalCustomers)
		assert.Equal(t, int64(6), s.TotalOrders)
		assert.True(t, s.TotalRevenue.Equal(dec("360")), s.TotalRevenue.String())
	})

	t.Run("Summary of empty tenant", func(t *testing.T) {
		s, err := repo.Summary(ctx, uuid.New())
		require.NoError(t, err)
		assert.Zero(t, s.TotalCustomers)
		assert.Zero(t, s.TotalOrders)
		assert.True(t, s.TotalRevenue.IsZero())
	})

	t.Run("OrdersByDate without bounds", func(t *testing.T) {
		rows, err := repo.OrdersByDate(ctx, tenantA, nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, "2025-01-05", rows[0].Date)
		assert.Equal(t, int64(2), rows[0].OrdersCount)
		assert.True(t, rows[0].Revenue.Equal(dec("150")))
		assert.Equal(t, "2025-01-06", rows[1].Date)
		assert.Equal(t, "2025-01-07", rows[2].Date)
		assert.Equal(t, int64(2), rows[2].OrdersCount)
		assert.True(t, rows[2].Revenue.Equal(dec("50")))
		assert.Equal(t, "2025-01-08", rows[3].Date)
	})

	t.Run("OrdersByDate within half-open bounds", func(t *testing.T) {
		from, to := day(6, 0, 0), day(8, 0, 0)
		rows, err := repo.OrdersByDate(ctx, tenantA, &from, &to)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2025-01-06", rows[0].Date)
		assert.Equal(t, "2025-01-07", rows[1].Date)
	})

	t.Run("TopCustomers breaks ties by customer id", func(t *testing.T) {
		rows, err := repo.TopCustomers(ctx, tenantA, 5)
		require.NoError(t, err)
		require.Len(t, rows, 3, "orders for customers never ingested are not ranked")

		assert.Equal(t, int64(1), rows[0].CustomerID)
		assert.True(t, rows[0].TotalSpent.Equal(dec("150")))
		assert.Equal(t, int64(2), rows[1].CustomerID)
		assert.True(t, rows[1].TotalSpent.Equal(dec("150")))
		assert.Equal(t, int64(3), rows[2].CustomerID)
		assert.NotEmpty(t, rows[0].Email)
	})

	t.Run("TopCustomers honours limit", func(t *testing.T) {
		rows, err := repo.TopCustomers(ctx, tenantA, 2)
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		all, err := repo.TopCustomers(ctx, tenantA, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("RevenueBetween", func(t *testing.T) {
		total, err := repo.RevenueBetween(ctx, tenantA, day(6, 0, 0), day(7, 0, 0))
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("150")))

		none, err := repo.RevenueBetween(ctx, tenantA, day(20, 0, 0), day(27, 0, 0))
		require.NoError(t, err)
		assert.True(t, none.IsZero())
	})

	t.Run("AverageOrderValue", func(t *testing.T) {
		aov, err := repo.AverageOrderValue(ctx, tenantA)
		require.NoError(t, err)
		assert.True(t, aov.Equal(dec("60")), aov.String())

		empty, err := repo.AverageOrderValue(ctx, uuid.New())
		require.NoError(t, err)
		assert.True(t, empty.IsZero())
	})

	t.Run("RepeatCustomers", func(t *testing.T) {
		n, err := repo.RepeatCustomers(ctx, tenantA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.RepeatCustomers(ctx, tenantB)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("ExportOrders", func(t *testing.T) {
		rows, err := repo.ExportOrders(ctx, tenantA)
		require.NoError(t, err)
		require.Len(t, rows, 6)

		assert.Equal(t, int64(106), rows[0].OrderID)
		require.NotNil(t, rows[0].CustomerID)
		assert.Equal(t, int64(99), *rows[0].CustomerID)
		assert.Empty(t, rows[0].Email, "customer not ingested yet")
		assert.True(t, rows[0].CreatedAt.Equal(day(8, 8, 0)))

		var guest = rows[2]
		assert.Equal(t, int64(104), guest.OrderID)
		assert.Nil(t, guest.CustomerID)
		assert.Empty(t, guest.FirstName)

		assert.Equal(t, int64(101), rows[5].OrderID)
		assert.NotEmpty(t, rows[5].Email)
		assert.True(t, rows[5].TotalPrice.Decimal.Equal(dec("100")))
	})
}

func TestGormReportRepository_RepeatCustomers_PostgresSQL(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewGormReportRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`HAVING COUNT(DISTINCT order_id) > 1) AS repeaters`)).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.RepeatCustomers(t.Context(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormReportRepository_OrdersByDate_TruncatesTimestamps(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewGormReportRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`GROUP BY DATE(created_at) ORDER BY order_date ASC`)).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"order_date", "orders_count", "revenue"}).
			AddRow("2025-02-01T00:00:00Z", 3, "75.50"))

	rows, err := repo.OrdersByDate(t.Context(), tenantID, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-02-01", rows[0].Date)
	assert.Equal(t, int64(3), rows[0].OrdersCount)
	assert.True(t, rows[0].Revenue.Equal(dec("75.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
