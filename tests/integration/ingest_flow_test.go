//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ingestapp "github.com/shopsight/backend/internal/application/ingest"
	reportapp "github.com/shopsight/backend/internal/application/report"
	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/cache"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/ecommerce"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
)

// fakeStore serves two pages of orders and one page each of products and customers
func fakeStore(t *testing.T, orderHits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_it", r.Header.Get(ecommerce.ShopifyAccessTokenHeader))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/products.json"):
			fmt.Fprint(w, `{"products":[{"id":1,"title":"Mug","variants":[{"id":11,"price":"9.99"}]}]}`)
		case strings.HasSuffix(r.URL.Path, "/customers.json"):
			fmt.Fprint(w, `{"customers":[{"id":7,"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"},{"id":8,"first_name":null,"last_name":null,"email":null}]}`)
		case strings.HasSuffix(r.URL.Path, "/orders.json"):
			orderHits.Add(1)
			if r.URL.Query().Get("page_info") == "" {
				next := fmt.Sprintf("<http://%s%s?limit=250&page_info=p2>; rel=\"next\"", r.Host, r.URL.Path)
				w.Header().Set("Link", next)
				fmt.Fprint(w, `{"orders":[{"id":500,"total_price":"30.00","created_at":"2025-06-01T10:00:00Z","customer":{"id":7}}]}`)
				return
			}
			fmt.Fprint(w, `{"orders":[{"id":501,"total_price":"12.50","created_at":"2025-06-02T10:00:00Z","customer":null}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestIngestionFlow_EndToEnd(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenantID := tdb.CreateTenant("epsilon")

	var orderHits atomic.Int32
	server := fakeStore(t, &orderHits)
	defer server.Close()

	shopifyCfg := ecommerce.NewShopifyConfig()
	shopifyCfg.BaseURL = server.URL
	shopifyCfg.RequestsPerSec = 1000
	platform, err := ecommerce.NewShopifyAdapter(shopifyCfg)
	require.NoError(t, err)

	lock := cache.NewInMemoryRunLock()
	defer lock.Close()

	runs := persistence.NewGormIngestionRunRepository(tdb.DB)
	svc := ingestapp.NewService(ingestapp.Dependencies{
		Platform: platform,
		Credentials: ecommerce.NewTenantDirectory([]config.TenantConfig{{
			ID: tenantID.String(), Name: "epsilon", StoreDomain: "epsilon.myshopify.com", AccessToken: "shpat_it",
		}}),
		Products:  persistence.NewGormProductRepository(tdb.DB),
		Customers: persistence.NewGormCustomerRepository(tdb.DB),
		Orders:    persistence.NewGormOrderRepository(tdb.DB),
		Lock:      lock,
		Runs:      runs,
	}, ingestapp.Options{RunTimeout: 30 * time.Second, PruneMissing: true}, zap.NewNop())

	results := svc.RunAll(ctx, tenantID)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, integration.IngestStatusSuccess, r.Status, r.Kind.String())
	}
	assert.Equal(t, int32(2), orderHits.Load())

	// A second pass updates in place
	again, err := svc.Ingest(ctx, tenantID, integration.EntityOrders)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Saved)

	reports := reportapp.NewService(persistence.NewGormReportRepository(tdb.DB), zap.NewNop())
	summary, err := reports.Summary(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalCustomers)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, "42.50", summary.TotalRevenue.StringFixed(2))

	top, err := reports.TopCustomers(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "ada@example.com", top[0].Email)

	history, err := svc.RecentRuns(ctx, tenantID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestIngestionFlow_UnknownTenant(t *testing.T) {
	tdb := NewTestDB(t)
	tenantID := tdb.CreateTenant("zeta")

	platform, err := ecommerce.NewShopifyAdapter(ecommerce.NewShopifyConfig())
	require.NoError(t, err)

	svc := ingestapp.NewService(ingestapp.Dependencies{
		Platform:    platform,
		Credentials: ecommerce.NewTenantDirectory(nil),
		Products:    persistence.NewGormProductRepository(tdb.DB),
		Customers:   persistence.NewGormCustomerRepository(tdb.DB),
		Orders:      persistence.NewGormOrderRepository(tdb.DB),
		Lock:        cache.NewInMemoryRunLock(),
	}, ingestapp.Options{}, zap.NewNop())

	_, err = svc.Ingest(context.Background(), tenantID, integration.EntityProducts)
	assert.ErrorIs(t, err, integration.ErrTenantNotConfigured)
}
