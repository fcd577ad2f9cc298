package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// CommercePlatform Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
	ErrPlatformRateLimited     = errors.New("integration: platform rate limited")
	ErrInvalidCredentials      = errors.New("integration: invalid store credentials")

	// Ingestion errors
	ErrUnknownEntityKind   = errors.New("integration: unknown entity kind")
	ErrIngestionInProgress = errors.New("integration: ingestion already in progress")
	ErrTenantNotConfigured = errors.New("integration: tenant has no store credentials")
)

// ---------------------------------------------------------------------------
// EntityKind
// ---------------------------------------------------------------------------

// EntityKind names one of the remote collections that are ingested.
type EntityKind string

const (
	EntityProducts  EntityKind = "products"
	EntityCustomers EntityKind = "customers"
	EntityOrders    EntityKind = "orders"
)

// AllEntityKinds returns the kinds in the order a full run ingests them.
func AllEntityKinds() []EntityKind {
	return []EntityKind{EntityProducts, EntityCustomers, EntityOrders}
}

// IsValid returns true if the kind is one of the ingested collections
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityProducts, EntityCustomers, EntityOrders:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityKind
func (k EntityKind) String() string {
	return string(k)
}

// Label returns the capitalised kind, as used in operator-facing messages.
func (k EntityKind) Label() string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseEntityKind converts a string to an EntityKind
func ParseEntityKind(s string) (EntityKind, error) {
	k := EntityKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, s)
	}
	return k, nil
}

// ---------------------------------------------------------------------------
// StoreCredentials
// ---------------------------------------------------------------------------

// StoreCredentials identifies one tenant's store on the commerce platform.
type StoreCredentials struct {
	TenantID    uuid.UUID
	StoreDomain string
	AccessToken string
	// APIVersion overrides the adapter's default API version when set.
	APIVersion string
}

// Validate checks that the credentials can address a store
func (c StoreCredentials) Validate() error {
	if c.TenantID == uuid.Nil {
		return fmt.Errorf("%w: tenant ID is required", ErrInvalidCredentials)
	}
	if strings.TrimSpace(c.StoreDomain) == "" {
		return fmt.Errorf("%w: store domain is required", ErrInvalidCredentials)
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return fmt.Errorf("%w: access token is required", ErrInvalidCredentials)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Remote records
// ---------------------------------------------------------------------------

// RemoteProduct is a product as read from the platform.
type RemoteProduct struct {
	ID    int64
	Title string
	// Price is the first variant's price, zero when the product has no variants.
	Price decimal.Decimal
}

// RemoteCustomer is a customer as read from the platform.
type RemoteCustomer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
}

// RemoteOrder is an order as read from the platform.
type RemoteOrder struct {
	ID         int64
	CustomerID *int64
	TotalPrice decimal.Decimal
	// CreatedAt is zero when the platform did not report a usable timestamp.
	CreatedAt time.Time
}

// ---------------------------------------------------------------------------
// CommercePlatform Port
// ---------------------------------------------------------------------------

// CommercePlatform reads one page of a tenant's remote collection per call.
// An empty cursor requests the first page; the returned page's NextCursor is
// empty once the collection is exhausted.
type CommercePlatform interface {
	FetchProducts(ctx context.Context, creds StoreCredentials, cursor string) (Page[RemoteProduct], error)
	FetchCustomers(ctx context.Context, creds StoreCredentials, cursor string) (Page[RemoteCustomer], error)
	FetchOrders(ctx context.Context, creds StoreCredentials, cursor string) (Page[RemoteOrder], error)
}

// CredentialsProvider resolves the store credentials configured for a tenant.
type CredentialsProvider interface {
	// Credentials returns ErrTenantNotConfigured for unknown tenants.
	Credentials(tenantID uuid.UUID) (StoreCredentials, error)
	// TenantIDs lists every tenant with configured credentials, in configuration order.
	TenantIDs() []uuid.UUID
}
