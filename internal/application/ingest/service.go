// Package ingest runs the fetch-transform-upsert pipeline that copies a
// tenant's products, customers and orders from the commerce platform into the
// local store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/integration"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
)

const (
	defaultRunTimeout = 10 * time.Minute
	defaultRecentRuns = 20
	maxRecentRuns     = 100
)

// RunRecorder receives the outcome of every finished run.
type RunRecorder interface {
	ObserveRun(tenantID, kind, status string, saved int, pruned int64, elapsed time.Duration, finishedAt time.Time)
}

// Options tunes the pipeline
type Options struct {
	// RunTimeout bounds one tenant + kind pass, fetches and writes included.
	RunTimeout time.Duration
	// LockTTL is how long the cross-process run lock is held at most.
	// Zero means RunTimeout plus one minute.
	LockTTL time.Duration
	// PruneMissing deletes rows not seen during a fully successful pass.
	PruneMissing bool
}

// Dependencies groups the collaborators of Service. Runs, Publisher and
// Metrics are optional.
type Dependencies struct {
	Platform    integration.CommercePlatform
	Credentials integration.CredentialsProvider
	Products    commerce.ProductRepository
	Customers   commerce.CustomerRepository
	Orders      commerce.OrderRepository
	Lock        integration.RunLock
	Runs        integration.IngestRunRepository
	Publisher   integration.EventPublisher
	Metrics     RunRecorder
}

// Service ingests remote collections for configured tenants.
//
// Callers asking for the same tenant and kind while a run is in flight in this
// process join that run and share its result. A run already holding the lock
// in another process makes the call return a SKIPPED result together with
// integration.ErrIngestionInProgress.
type Service struct {
	deps   Dependencies
	opts   Options
	group  singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new ingestion service
func NewService(deps Dependencies, opts Options, logger *zap.Logger) *Service {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = defaultRunTimeout
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.RunTimeout + time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		deps:   deps,
		opts:   opts,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// IngestProducts runs one products pass for the tenant
func (s *Service) IngestProducts(ctx context.Context, tenantID uuid.UUID) (*integration.IngestResult, error) {
	return s.Ingest(ctx, tenantID, integration.EntityProducts)
}

// IngestCustomers runs one customers pass for the tenant
func (s *Service) IngestCustomers(ctx context.Context, tenantID uuid.UUID) (*integration.IngestResult, error) {
	return s.Ingest(ctx, tenantID, integration.EntityCustomers)
}

// IngestOrders runs one orders pass for the tenant
func (s *Service) IngestOrders(ctx context.Context, tenantID uuid.UUID) (*integration.IngestResult, error) {
	return s.Ingest(ctx, tenantID, integration.EntityOrders)
}

// Ingest runs one pass over kind for the tenant.
//
// The returned result is nil only when the pass never started: unknown kind,
// unconfigured tenant, or ctx done before a shared run finished. Otherwise the
// result is recorded and returned alongside the error that ended the pass.
func (s *Service) Ingest(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (*integration.IngestResult, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownEntityKind, kind)
	}
	creds, err := s.deps.Credentials.Credentials(tenantID)
	if err != nil {
		return nil, err
	}

	// Joined callers may leave early; the run itself is bounded by RunTimeout.
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(integration.RunLockKey(tenantID, kind), func() (any, error) {
		return s.run(runCtx, creds, kind)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		result, _ := res.Val.(*integration.IngestResult)
		if res.Shared {
			s.logger.Debug("Joined in-flight ingestion",
				zap.String("tenant_id", tenantID.String()),
				zap.String("kind", kind.String()))
		}
		return result, res.Err
	}
}

// RunAll ingests products, customers and orders for the tenant, in that
// order. A failing kind does not stop the next one; one result per kind is
// returned.
func (s *Service) RunAll(ctx context.Context, tenantID uuid.UUID) []*integration.IngestResult {
	kinds := integration.AllEntityKinds()
	results := make([]*integration.IngestResult, 0, len(kinds))
	for _, kind := range kinds {
		result, err := s.Ingest(ctx, tenantID, kind)
		if result == nil {
			result = integration.NewIngestResult(tenantID, kind, s.now())
			result.Fail(err, s.now())
			s.logger.Error("Ingestion could not start",
				zap.String("tenant_id", tenantID.String()),
				zap.String("kind", kind.String()),
				zap.Error(err))
		}
		results = append(results, result)
	}
	return results
}

// RunAllTenants runs RunAll for every configured tenant in configuration
// order. Tenants not yet started when ctx ends are left out.
func (s *Service) RunAllTenants(ctx context.Context) []*integration.IngestResult {
	var results []*integration.IngestResult
	for _, tenantID := range s.deps.Credentials.TenantIDs() {
		if ctx.Err() != nil {
			s.logger.Warn("Ingestion cycle interrupted", zap.Error(ctx.Err()))
			break
		}
		results = append(results, s.RunAll(ctx, tenantID)...)
	}
	return results
}

// RecentRuns returns the tenant's latest runs, newest first
func (s *Service) RecentRuns(ctx context.Context, tenantID uuid.UUID, limit int) ([]integration.IngestResult, error) {
	if s.deps.Runs == nil {
		return []integration.IngestResult{}, nil
	}
	if limit <= 0 {
		limit = defaultRecentRuns
	}
	if limit > maxRecentRuns {
		limit = maxRecentRuns
	}
	return s.deps.Runs.FindRecent(ctx, tenantID, limit)
}

func (s *Service) run(ctx context.Context, creds integration.StoreCredentials, kind integration.EntityKind) (*integration.IngestResult, error) {
	tenantID := creds.TenantID
	result := integration.NewIngestResult(tenantID, kind, s.now())

	ctx, span := telemetry.StartSpan(ctx, "ingest."+kind.String(),
		telemetry.AttrTenantID.String(tenantID.String()),
		telemetry.AttrEntityKind.String(kind.String()),
	)
	defer span.End()

	key := integration.RunLockKey(tenantID, kind)
	token, ok, err := s.deps.Lock.TryLock(ctx, key, s.opts.LockTTL)
	if err != nil {
		err = fmt.Errorf("acquire run lock: %w", err)
		result.Fail(err, s.now())
		s.finish(ctx, span, result)
		return result, err
	}
	if !ok {
		result.Skip(s.now())
		s.finish(ctx, span, result)
		return result, integration.ErrIngestionInProgress
	}
	defer func() {
		if err := s.deps.Lock.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			s.logger.Warn("Failed to release run lock", zap.String("key", key), zap.Error(err))
		}
	}()

	passCtx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	telemetry.WithIngestLabels(passCtx, tenantID.String(), kind.String(), func(ctx context.Context) {
		err = s.pass(ctx, creds, kind, result)
		if err == nil && s.opts.PruneMissing {
			result.Pruned, err = s.prune(ctx, tenantID, kind, result.StartedAt)
		}
	})
	if err != nil {
		result.Fail(err, s.now())
	} else {
		result.Complete(s.now())
	}
	s.finish(ctx, span, result)
	return result, err
}

// pass streams every remote page and upserts its records one at a time, in
// remote order. The first fetch or write error ends the pass.
func (s *Service) pass(ctx context.Context, creds integration.StoreCredentials, kind integration.EntityKind, result *integration.IngestResult) error {
	tenantID := creds.TenantID
	switch kind {
	case integration.EntityProducts:
		return consume(ctx, result,
			func(ctx context.Context, cursor string) (integration.Page[integration.RemoteProduct], error) {
				return s.deps.Platform.FetchProducts(ctx, creds, cursor)
			},
			func(ctx context.Context, p integration.RemoteProduct) error {
				product, err := commerce.NewProduct(tenantID, p.ID, p.Title, p.Price)
				if err != nil {
					return fmt.Errorf("product %d: %w", p.ID, err)
				}
				return s.deps.Products.Upsert(ctx, product)
			})
	case integration.EntityCustomers:
		return consume(ctx, result,
			func(ctx context.Context, cursor string) (integration.Page[integration.RemoteCustomer], error) {
				return s.deps.Platform.FetchCustomers(ctx, creds, cursor)
			},
			func(ctx context.Context, c integration.RemoteCustomer) error {
				customer, err := commerce.NewCustomer(tenantID, c.ID, c.FirstName, c.LastName, c.Email)
				if err != nil {
					return fmt.Errorf("customer %d: %w", c.ID, err)
				}
				return s.deps.Customers.Upsert(ctx, customer)
			})
	case integration.EntityOrders:
		return consume(ctx, result,
			func(ctx context.Context, cursor string) (integration.Page[integration.RemoteOrder], error) {
				return s.deps.Platform.FetchOrders(ctx, creds, cursor)
			},
			func(ctx context.Context, o integration.RemoteOrder) error {
				order, err := commerce.NewOrder(tenantID, o.ID, o.CustomerID, o.TotalPrice, o.CreatedAt)
				if err != nil {
					return fmt.Errorf("order %d: %w", o.ID, err)
				}
				return s.deps.Orders.Upsert(ctx, order)
			})
	default:
		return fmt.Errorf("%w: %q", integration.ErrUnknownEntityKind, kind)
	}
}

func consume[T any](
	ctx context.Context,
	result *integration.IngestResult,
	fetch integration.PageFetcher[T],
	save func(context.Context, T) error,
) error {
	for page, err := range integration.Paginate(ctx, "", fetch) {
		if err != nil {
			return fmt.Errorf("fetch %s: %w", result.Kind, err)
		}
		result.Pages++
		result.Fetched += len(page.Items)
		for _, item := range page.Items {
			if err := save(ctx, item); err != nil {
				return fmt.Errorf("save %s: %w", result.Kind, err)
			}
			result.Saved++
		}
	}
	return nil
}

func (s *Service) prune(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind, syncedBefore time.Time) (int64, error) {
	var (
		n   int64
		err error
	)
	switch kind {
	case integration.EntityProducts:
		n, err = s.deps.Products.DeleteStale(ctx, tenantID, syncedBefore)
	case integration.EntityCustomers:
		n, err = s.deps.Customers.DeleteStale(ctx, tenantID, syncedBefore)
	case integration.EntityOrders:
		n, err = s.deps.Orders.DeleteStale(ctx, tenantID, syncedBefore)
	}
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", kind, err)
	}
	return n, nil
}

// finish logs, records and announces a finished run. Failures in these steps
// are logged and never change the run's outcome.
func (s *Service) finish(ctx context.Context, span trace.Span, result *integration.IngestResult) {
	log := s.logger.With(
		zap.String("tenant_id", result.TenantID.String()),
		zap.String("kind", result.Kind.String()),
		zap.String("run_id", result.ID.String()),
		zap.String("status", result.Status.String()),
		zap.Int("pages", result.Pages),
		zap.Int("fetched", result.Fetched),
		zap.Int("saved", result.Saved),
		zap.Int64("pruned", result.Pruned),
		zap.Duration("duration", result.Duration()),
	)

	span.SetAttributes(
		attribute.String("ingest.status", result.Status.String()),
		attribute.Int("ingest.saved", result.Saved),
		attribute.Int("ingest.pages", result.Pages),
	)

	switch result.Status {
	case integration.IngestStatusSuccess:
		log.Info(fmt.Sprintf("%d %s saved", result.Saved, result.Kind))
		telemetry.SetOK(span)
	case integration.IngestStatusSkipped:
		log.Warn("Ingestion skipped, another run holds the lock")
	default:
		log.Error("Ingestion failed", zap.String("error", result.Error))
		telemetry.RecordError(span, errors.New(result.Error))
	}

	ctx = context.WithoutCancel(ctx)

	if s.deps.Runs != nil {
		if err := s.deps.Runs.Save(ctx, result); err != nil {
			log.Error("Failed to record ingestion run", zap.Error(err))
		}
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveRun(
			result.TenantID.String(), result.Kind.String(), result.Status.String(),
			result.Saved, result.Pruned, result.Duration(), result.FinishedAt,
		)
	}
	if s.deps.Publisher != nil {
		event := integration.NewIngestionCompletedEvent(result)
		if err := s.deps.Publisher.PublishIngestionCompleted(ctx, event); err != nil {
			log.Warn("Failed to publish ingestion event", zap.Error(err))
		}
	}
}
