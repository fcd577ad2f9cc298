package commerce

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	id := uuid.New()

	t.Run("valid", func(t *testing.T) {
		tenant, err := NewTenant(id, "  Acme  ", "Acme.MyShopify.com ")
		require.NoError(t, err)
		assert.Equal(t, id, tenant.ID)
		assert.Equal(t, "Acme", tenant.Name)
		assert.Equal(t, "acme.myshopify.com", tenant.StoreDomain)
	})

	t.Run("nil id", func(t *testing.T) {
		_, err := NewTenant(uuid.Nil, "Acme", "")
		assert.ErrorIs(t, err, ErrTenantRequired)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewTenant(id, "   ", "")
		assert.ErrorIs(t, err, ErrTenantNameEmpty)
	})
}

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name      string
		tenantID  uuid.UUID
		productID int64
		price     decimal.Decimal
		wantErr   error
	}{
		{"valid", tenantID, 101, decimal.RequireFromString("19.99"), nil},
		{"zero price", tenantID, 102, decimal.Zero, nil},
		{"missing tenant", uuid.Nil, 101, decimal.Zero, ErrTenantRequired},
		{"zero remote id", tenantID, 0, decimal.Zero, ErrInvalidRemoteID},
		{"negative price", tenantID, 103, decimal.NewFromInt(-1), ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.tenantID, tt.productID, "Shirt", tt.price)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, p.ID)
			assert.True(t, p.Price.Valid)
			assert.True(t, tt.price.Equal(p.Price.Decimal))
			assert.False(t, p.LastSyncedAt.IsZero())
		})
	}
}

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(uuid.New(), 7, " Ada ", "Lovelace", " ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.FirstName)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.Equal(t, "Ada Lovelace", c.FullName())

	_, err = NewCustomer(uuid.New(), -1, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidRemoteID)
}

func TestNewOrder(t *testing.T) {
	tenantID := uuid.New()
	customerID := int64(42)

	t.Run("with customer", func(t *testing.T) {
		created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("EST", -5*3600))
		o, err := NewOrder(tenantID, 1001, &customerID, decimal.NewFromInt(300), created)
		require.NoError(t, err)
		assert.False(t, o.IsGuest())
		assert.Equal(t, time.UTC, o.CreatedAt.Location())
		assert.True(t, created.Equal(o.CreatedAt))
	})

	t.Run("guest checkout", func(t *testing.T) {
		o, err := NewOrder(tenantID, 1002, nil, decimal.Zero, time.Time{})
		require.NoError(t, err)
		assert.True(t, o.IsGuest())
		assert.False(t, o.CreatedAt.IsZero())
	})

	t.Run("invalid customer reference", func(t *testing.T) {
		bad := int64(0)
		_, err := NewOrder(tenantID, 1003, &bad, decimal.Zero, time.Now())
		assert.ErrorIs(t, err, ErrInvalidCustomerRef)
	})

	t.Run("negative total", func(t *testing.T) {
		_, err := NewOrder(tenantID, 1004, nil, decimal.NewFromInt(-5), time.Now())
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}
