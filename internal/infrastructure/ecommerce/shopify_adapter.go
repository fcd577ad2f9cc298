package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shopsight/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the Admin API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultRetryAfter is used when a 429 response carries no usable Retry-After
const defaultRetryAfter = time.Second

// ShopifyAdapter implements CommercePlatform against the Shopify Admin REST API
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
	logger     *zap.Logger

	// limiters holds one token bucket per store domain
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

// ShopifyOption configures a ShopifyAdapter
type ShopifyOption func(*ShopifyAdapter)

// WithLogger sets the logger for the adapter
func WithLogger(logger *zap.Logger) ShopifyOption {
	return func(a *ShopifyAdapter) {
		a.logger = logger
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) ShopifyOption {
	return func(a *ShopifyAdapter) {
		a.httpClient = client
	}
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig, opts ...ShopifyOption) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:   zap.NewNop(),
		limiters: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// FetchProducts reads one page of the store's products
func (a *ShopifyAdapter) FetchProducts(ctx context.Context, creds integration.StoreCredentials, cursor string) (integration.Page[integration.RemoteProduct], error) {
	var resp ShopifyProductsResponse
	next, err := a.getPage(ctx, creds, integration.EntityProducts, cursor, &resp)
	if err != nil {
		return integration.Page[integration.RemoteProduct]{}, err
	}
	items := make([]integration.RemoteProduct, len(resp.Products))
	for i, p := range resp.Products {
		items[i] = p.ToRemote()
	}
	return integration.Page[integration.RemoteProduct]{Items: items, NextCursor: next}, nil
}

// FetchCustomers reads one page of the store's customers
func (a *ShopifyAdapter) FetchCustomers(ctx context.Context, creds integration.StoreCredentials, cursor string) (integration.Page[integration.RemoteCustomer], error) {
	var resp ShopifyCustomersResponse
	next, err := a.getPage(ctx, creds, integration.EntityCustomers, cursor, &resp)
	if err != nil {
		return integration.Page[integration.RemoteCustomer]{}, err
	}
	items := make([]integration.RemoteCustomer, len(resp.Customers))
	for i, c := range resp.Customers {
		items[i] = c.ToRemote()
	}
	return integration.Page[integration.RemoteCustomer]{Items: items, NextCursor: next}, nil
}

// FetchOrders reads one page of the store's orders, open and closed alike
func (a *ShopifyAdapter) FetchOrders(ctx context.Context, creds integration.StoreCredentials, cursor string) (integration.Page[integration.RemoteOrder], error) {
	var resp ShopifyOrdersResponse
	next, err := a.getPage(ctx, creds, integration.EntityOrders, cursor, &resp)
	if err != nil {
		return integration.Page[integration.RemoteOrder]{}, err
	}
	items := make([]integration.RemoteOrder, len(resp.Orders))
	for i, o := range resp.Orders {
		items[i] = o.ToRemote()
	}
	return integration.Page[integration.RemoteOrder]{Items: items, NextCursor: next}, nil
}

// PageURL builds the list URL for kind. The first page carries the filters;
// later pages may only carry limit and page_info.
func (a *ShopifyAdapter) PageURL(creds integration.StoreCredentials, kind integration.EntityKind, cursor string) string {
	base := a.config.BaseURL
	if base == "" {
		base = "https://" + strings.TrimSuffix(strings.TrimSpace(creds.StoreDomain), "/")
	}
	version := creds.APIVersion
	if version == "" {
		version = a.config.APIVersion
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(a.config.PageSize))
	if cursor != "" {
		q.Set("page_info", cursor)
	} else if kind == integration.EntityOrders {
		q.Set("status", "any")
	}
	return fmt.Sprintf("%s/admin/api/%s/%s.json?%s", base, version, kind, q.Encode())
}

// getPage fetches one page into out and returns the next cursor
func (a *ShopifyAdapter) getPage(ctx context.Context, creds integration.StoreCredentials, kind integration.EntityKind, cursor string, out any) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	pageURL := a.PageURL(creds, kind, cursor)
	body, header, err := a.doRequest(ctx, creds, pageURL)
	if err != nil {
		return "", err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return "", fmt.Errorf("%w: failed to parse %s response: %v", integration.ErrPlatformInvalidResponse, kind, err)
	}

	next := NextPageInfo(header.Get("Link"))
	a.logger.Debug("Fetched page",
		zap.String("tenant_id", creds.TenantID.String()),
		zap.String("kind", kind.String()),
		zap.Bool("has_next", next != ""),
	)
	return next, nil
}

// doRequest performs a rate-limited GET, retrying 429 responses
func (a *ShopifyAdapter) doRequest(ctx context.Context, creds integration.StoreCredentials, pageURL string) ([]byte, http.Header, error) {
	limiter := a.limiterFor(creds.StoreDomain)

	for attempt := 0; ; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("shopify: failed to create request: %w", err)
		}
		req.Header.Set(ShopifyAccessTokenHeader, creds.AccessToken)
		req.Header.Set("Accept", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrPlatformUnavailable, err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= a.config.MaxRetries {
				return nil, nil, fmt.Errorf("%w: HTTP 429 after %d attempts", integration.ErrPlatformRateLimited, attempt+1)
			}
			wait := retryAfter(resp.Header.Get("Retry-After"))
			a.logger.Warn("Rate limited by Shopify, retrying",
				zap.String("store_domain", creds.StoreDomain),
				zap.Duration("retry_after", wait),
				zap.Int("attempt", attempt+1),
			)
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
			}
			continue
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, nil, fmt.Errorf("%w: HTTP %d", integration.ErrInvalidCredentials, resp.StatusCode)
		case resp.StatusCode >= 400:
			return nil, nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
		}

		return body, resp.Header, nil
	}
}

func (a *ShopifyAdapter) limiterFor(storeDomain string) *rate.Limiter {
	key := strings.ToLower(storeDomain)
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(a.config.RequestsPerSec), a.config.Burst)
		a.limiters[key] = l
	}
	return l
}

// retryAfter parses a Retry-After value in (possibly fractional) seconds
func retryAfter(v string) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs * float64(time.Second))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure ShopifyAdapter implements CommercePlatform
var _ integration.CommercePlatform = (*ShopifyAdapter)(nil)
