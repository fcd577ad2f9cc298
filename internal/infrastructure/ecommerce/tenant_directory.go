package ecommerce

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

// TenantDirectory resolves store credentials from the configured tenant list
type TenantDirectory struct {
	creds map[uuid.UUID]integration.StoreCredentials
	order []uuid.UUID
}

// NewTenantDirectory indexes the tenants that have both a store domain and an access token
func NewTenantDirectory(tenants []config.TenantConfig) *TenantDirectory {
	d := &TenantDirectory{creds: make(map[uuid.UUID]integration.StoreCredentials)}
	for _, t := range tenants {
		if strings.TrimSpace(t.StoreDomain) == "" || strings.TrimSpace(t.AccessToken) == "" {
			continue
		}
		id := t.UUID()
		if _, dup := d.creds[id]; dup {
			continue
		}
		d.creds[id] = integration.StoreCredentials{
			TenantID:    id,
			StoreDomain: strings.TrimSpace(t.StoreDomain),
			AccessToken: strings.TrimSpace(t.AccessToken),
			APIVersion:  t.APIVersion,
		}
		d.order = append(d.order, id)
	}
	return d
}

// Credentials returns the tenant's store credentials
func (d *TenantDirectory) Credentials(tenantID uuid.UUID) (integration.StoreCredentials, error) {
	c, ok := d.creds[tenantID]
	if !ok {
		return integration.StoreCredentials{}, integration.ErrTenantNotConfigured
	}
	return c, nil
}

// TenantIDs lists configured tenants in configuration order
func (d *TenantDirectory) TenantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.order))
	copy(ids, d.order)
	return ids
}

var _ integration.CredentialsProvider = (*TenantDirectory)(nil)
