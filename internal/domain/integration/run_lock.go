package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunLock excludes concurrent ingestion runs across processes.
type RunLock interface {
	// TryLock acquires key for ttl. ok is false when another holder owns it.
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Unlock releases key if token still owns it.
	Unlock(ctx context.Context, key, token string) error
}

// RunLockKey names the lock guarding one tenant's pass over kind
func RunLockKey(tenantID uuid.UUID, kind EntityKind) string {
	return fmt.Sprintf("%s:%s", tenantID, kind)
}
