package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// IngestStatus
// ---------------------------------------------------------------------------

// IngestStatus is the outcome of one ingestion pass
type IngestStatus string

const (
	// IngestStatusSuccess indicates every remote record was written
	IngestStatusSuccess IngestStatus = "SUCCESS"
	// IngestStatusPartial indicates some records were written before a failure
	IngestStatusPartial IngestStatus = "PARTIAL"
	// IngestStatusFailed indicates the pass failed before writing anything
	IngestStatusFailed IngestStatus = "FAILED"
	// IngestStatusSkipped indicates another process held the run lock
	IngestStatusSkipped IngestStatus = "SKIPPED"
)

// IsValid returns true if the status is valid
func (s IngestStatus) IsValid() bool {
	switch s {
	case IngestStatusSuccess, IngestStatusPartial, IngestStatusFailed, IngestStatusSkipped:
		return true
	default:
		return false
	}
}

// String returns the string representation of IngestStatus
func (s IngestStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// IngestResult
// ---------------------------------------------------------------------------

// IngestResult describes one fetch-transform-upsert pass for one tenant and kind.
type IngestResult struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Kind       EntityKind
	Status     IngestStatus
	Pages      int
	Fetched    int
	Saved      int
	Pruned     int64
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// NewIngestResult starts a result for a pass beginning now.
func NewIngestResult(tenantID uuid.UUID, kind EntityKind, startedAt time.Time) *IngestResult {
	return &IngestResult{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Kind:      kind,
		StartedAt: startedAt,
	}
}

// Complete marks the pass as having written every fetched record.
func (r *IngestResult) Complete(finishedAt time.Time) {
	r.Status = IngestStatusSuccess
	r.FinishedAt = finishedAt
	r.Error = ""
}

// Fail marks the pass as aborted by err. Records already saved stay saved,
// which makes the pass PARTIAL rather than FAILED.
func (r *IngestResult) Fail(err error, finishedAt time.Time) {
	r.Status = IngestStatusFailed
	if r.Saved > 0 {
		r.Status = IngestStatusPartial
	}
	r.FinishedAt = finishedAt
	if err != nil {
		r.Error = err.Error()
	}
}

// Skip marks the pass as not run because another run held the lock.
func (r *IngestResult) Skip(finishedAt time.Time) {
	r.Status = IngestStatusSkipped
	r.FinishedAt = finishedAt
	r.Error = ErrIngestionInProgress.Error()
}

// Succeeded reports whether the pass finished without error
func (r *IngestResult) Succeeded() bool {
	return r.Status == IngestStatusSuccess
}

// Duration returns how long the pass ran
func (r *IngestResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// IngestRunRepository persists ingestion run history.
type IngestRunRepository interface {
	Save(ctx context.Context, result *IngestResult) error
	FindRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]IngestResult, error)
}
