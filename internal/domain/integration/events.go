package integration

import (
	"context"
	"time"

	"github.com/shopsight/backend/internal/domain/shared"
)

// EventTypeIngestionCompleted is published once per finished ingestion pass.
const EventTypeIngestionCompleted = "ingestion.completed"

// IngestionCompletedEvent carries the outcome of one pass to downstream consumers.
type IngestionCompletedEvent struct {
	shared.BaseDomainEvent
	RunID      string    `json:"run_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Pages      int       `json:"pages"`
	Fetched    int       `json:"fetched"`
	Saved      int       `json:"saved"`
	Pruned     int64     `json:"pruned"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// NewIngestionCompletedEvent builds the event for a finished result
func NewIngestionCompletedEvent(r *IngestResult) IngestionCompletedEvent {
	return IngestionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIngestionCompleted, r.TenantID, r.FinishedAt),
		RunID:           r.ID.String(),
		Kind:            r.Kind.String(),
		Status:          r.Status.String(),
		Pages:           r.Pages,
		Fetched:         r.Fetched,
		Saved:           r.Saved,
		Pruned:          r.Pruned,
		StartedAt:       r.StartedAt.UTC(),
		FinishedAt:      r.FinishedAt.UTC(),
		Error:           r.Error,
	}
}

// EventPublisher delivers integration events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	PublishIngestionCompleted(ctx context.Context, event IngestionCompletedEvent) error
	Close() error
}
