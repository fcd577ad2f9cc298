package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents something that happened inside one tenant
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	TenantID() uuid.UUID
}

// BaseDomainEvent provides the envelope fields shared by all events
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
	Version       int       `json:"schema_version"`
}

// EventID returns the unique event identifier
func (e BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// TenantID returns the tenant ID
func (e BaseDomainEvent) TenantID() uuid.UUID {
	return e.TenantIDValue
}

// NewBaseDomainEvent stamps a new schema version 1 envelope
func NewBaseDomainEvent(eventType string, tenantID uuid.UUID, occurredAt time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     occurredAt.UTC(),
		TenantIDValue: tenantID,
		Version:       1,
	}
}
