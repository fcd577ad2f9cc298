package commerce

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated store whose data never mixes with another tenant's.
type Tenant struct {
	ID          uuid.UUID
	Name        string
	StoreDomain string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTenant creates a tenant with a caller-chosen identifier.
// Tenant identifiers come from configuration so they stay stable across restarts.
func NewTenant(id uuid.UUID, name, storeDomain string) (*Tenant, error) {
	if id == uuid.Nil {
		return nil, ErrTenantRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTenantNameEmpty
	}
	now := time.Now().UTC()
	return &Tenant{
		ID:          id,
		Name:        name,
		StoreDomain: strings.ToLower(strings.TrimSpace(storeDomain)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
