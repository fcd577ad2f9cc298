package cache

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

// ClosableRunLock is a RunLock that owns resources
type ClosableRunLock interface {
	integration.RunLock
	io.Closer
}

// RunLockFactory creates run locks based on configuration
type RunLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RunLockFactoryOption is a functional option for configuring the factory
type RunLockFactoryOption func(*RunLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory lock when Redis is unavailable.
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRunLockFactory creates a new factory
func NewRunLockFactory(cfg config.RedisConfig, opts ...RunLockFactoryOption) *RunLockFactory {
	f := &RunLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis lock when Redis is enabled and reachable, else an in-memory lock.
//
// WARNING: in-memory locks do not exclude runs in other server instances.
func (f *RunLockFactory) Create(ctx context.Context) (ClosableRunLock, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory run lock")
		return NewInMemoryRunLock(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis run lock")
		return NewRedisRunLockWithClient(client, ""), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for run lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory run lock. "+
		"Ingestion runs are only excluded within this process.",
		zap.Error(err),
	)
	return NewInMemoryRunLock(), nil
}
