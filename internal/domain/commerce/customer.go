package commerce

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer is the local copy of a remote customer.
type Customer struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CustomerID   int64 // remote identifier
	FirstName    string
	LastName     string
	Email        string
	LastSyncedAt time.Time
}

// NewCustomer creates a customer row for upsert.
func NewCustomer(tenantID uuid.UUID, customerID int64, firstName, lastName, email string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, ErrTenantRequired
	}
	if customerID <= 0 {
		return nil, ErrInvalidRemoteID
	}
	return &Customer{
		ID:           uuid.New(),
		TenantID:     tenantID,
		CustomerID:   customerID,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Email:        strings.TrimSpace(email),
		LastSyncedAt: time.Now().UTC(),
	}, nil
}

// FullName returns "first last", skipping empty parts.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
