package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shopsight/backend/internal/domain/integration"
)

// lease represents a held lock with expiration
type lease struct {
	token     string
	expiresAt time.Time
}

// InMemoryRunLock implements RunLock using an in-memory map.
// It only excludes runs within a single process.
type InMemoryRunLock struct {
	mu        sync.Mutex
	leases    map[string]lease
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRunLock creates a new in-memory run lock.
// It starts a background goroutine to drop expired leases.
func NewInMemoryRunLock() *InMemoryRunLock {
	l := &InMemoryRunLock{
		leases:   make(map[string]lease),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// TryLock acquires key unless an unexpired lease holds it
func (l *InMemoryRunLock) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, exists := l.leases[key]; exists && time.Now().Before(held.expiresAt) {
		return "", false, nil
	}

	token := uuid.NewString()
	l.leases[key] = lease{token: token, expiresAt: time.Now().Add(ttl)}
	return token, true, nil
}

// Unlock releases key when token still owns it
func (l *InMemoryRunLock) Unlock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if held, exists := l.leases[key]; exists && held.token == token {
		delete(l.leases, key)
	}
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (l *InMemoryRunLock) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

func (l *InMemoryRunLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup removes expired leases
func (l *InMemoryRunLock) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, held := range l.leases {
		if now.After(held.expiresAt) {
			delete(l.leases, key)
		}
	}
}

// Size returns the number of leases held (for testing/monitoring)
func (l *InMemoryRunLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.leases)
}

// Ensure InMemoryRunLock implements RunLock
var _ integration.RunLock = (*InMemoryRunLock)(nil)
