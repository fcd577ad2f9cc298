// Package scheduler runs the hourly ingestion of every configured tenant.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/config"
)

// DefaultCronSchedule fires at minute 0 of every hour.
const DefaultCronSchedule = "0 * * * *"

// IngestRunner runs products, customers and orders for every tenant.
type IngestRunner interface {
	RunAllTenants(ctx context.Context) []*integration.IngestResult
}

// IngestScheduler triggers IngestRunner on a cron schedule.
type IngestScheduler struct {
	spec       string
	runOnStart bool
	runner     IngestRunner
	logger     *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
}

// NewIngestScheduler validates the schedule and builds a stopped scheduler.
func NewIngestScheduler(cfg config.SchedulerConfig, runner IngestRunner, logger *zap.Logger) (*IngestScheduler, error) {
	spec := cfg.CronSchedule
	if spec == "" {
		spec = DefaultCronSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, spec, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &IngestScheduler{
		spec:       spec,
		runOnStart: cfg.RunOnStart,
		runner:     runner,
		logger:     logger.Named("scheduler"),
	}

	cronLogger := cron.PrintfLogger(zap.NewStdLog(s.logger))
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)
	id, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins firing on the schedule. Runs triggered by the schedule are
// cancelled by Stop or when ctx is done.
func (s *IngestScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.running = true

	s.logger.Info("Ingestion scheduler started",
		zap.String("schedule", s.spec),
		zap.Time("next_run", s.cron.Entry(s.entryID).Next),
	)

	if s.runOnStart {
		go s.cron.Entry(s.entryID).WrappedJob.Run()
	}
	return nil
}

// Stop halts the schedule and waits for an in-flight run to return, or for
// ctx to expire.
func (s *IngestScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.logger.Info("Ingestion scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the schedule is active
func (s *IngestScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled fire time, zero when stopped.
func (s *IngestScheduler) NextRun() time.Time {
	if !s.IsRunning() {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// TriggerNow runs every tenant immediately on the caller's goroutine.
func (s *IngestScheduler) TriggerNow(ctx context.Context) []*integration.IngestResult {
	s.logger.Info("Manual ingestion triggered")
	results := s.runner.RunAllTenants(ctx)
	s.logResults(results)
	return results
}

func (s *IngestScheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	s.logger.Info("Running scheduled ingestion")
	s.logResults(s.runner.RunAllTenants(ctx))
}

func (s *IngestScheduler) logResults(results []*integration.IngestResult) {
	failed := 0
	for _, r := range results {
		fields := []zap.Field{
			zap.String("tenant_id", r.TenantID.String()),
			zap.String("kind", r.Kind.String()),
			zap.String("status", r.Status.String()),
			zap.Int("saved", r.Saved),
			zap.Duration("duration", r.Duration()),
		}
		switch r.Status {
		case integration.IngestStatusSuccess:
			s.logger.Info("Scheduled ingestion completed", fields...)
		case integration.IngestStatusSkipped:
			s.logger.Warn("Scheduled ingestion skipped", fields...)
		default:
			failed++
			s.logger.Error("Scheduled ingestion failed", append(fields, zap.String("error", r.Error))...)
		}
	}
	s.logger.Info("Scheduled ingestion finished",
		zap.Int("runs", len(results)),
		zap.Int("failed", failed),
	)
}
