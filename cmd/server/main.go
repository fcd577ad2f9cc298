package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	identityapp "github.com/shopsight/backend/internal/application/identity"
	ingestapp "github.com/shopsight/backend/internal/application/ingest"
	reportapp "github.com/shopsight/backend/internal/application/report"
	"github.com/shopsight/backend/internal/domain/commerce"
	"github.com/shopsight/backend/internal/domain/report"
	"github.com/shopsight/backend/internal/infrastructure/auth"
	"github.com/shopsight/backend/internal/infrastructure/cache"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/ecommerce"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/messaging"
	"github.com/shopsight/backend/internal/infrastructure/persistence"
	"github.com/shopsight/backend/internal/infrastructure/scheduler"
	"github.com/shopsight/backend/internal/infrastructure/storage"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"github.com/shopsight/backend/internal/interfaces/http/handler"
	"github.com/shopsight/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShopSight backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Int("tenants", len(cfg.Tenants)),
	)

	// Telemetry
	rootCtx := context.Background()
	providers, err := telemetry.Setup(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	if providers.Logs.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(providers.Logs, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))
		log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelCore)
		}))
		log.Info("Log export enabled")
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Profiling.ApplicationName,
		BasicAuthUser:        cfg.Profiling.BasicAuthUser,
		BasicAuthPassword:    cfg.Profiling.BasicAuthPassword,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler shutdown failed", zap.Error(err))
		}
	}()

	// Initialize database with the zap-backed GORM logger
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.String("database", cfg.Database.DBName),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem(cfg.Database.Driver),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		log.Info("Schema migrated")
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	runRepo := persistence.NewGormIngestionRunRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	if err := ensureTenants(rootCtx, tenantRepo, cfg); err != nil {
		log.Fatal("Failed to register tenants", zap.Error(err))
	}

	// Run lock: Redis when reachable, in-memory otherwise
	runLock, err := cache.NewRunLockFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).Create(rootCtx)
	if err != nil {
		log.Fatal("Failed to create run lock", zap.Error(err))
	}
	defer func() {
		_ = runLock.Close()
	}()

	publisher := messaging.NewPublisher(cfg.Kafka, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()

	archiver, err := newArchiver(rootCtx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize export archive", zap.Error(err))
	}

	platform, err := ecommerce.NewShopifyAdapter(ecommerce.ShopifyConfigFrom(cfg.Shopify), ecommerce.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize Shopify client", zap.Error(err))
	}

	ingestMetrics := telemetry.NewIngestMetrics()

	// Application services
	ingestService := ingestapp.NewService(ingestapp.Dependencies{
		Platform:    platform,
		Credentials: ecommerce.NewTenantDirectory(cfg.Tenants),
		Products:    productRepo,
		Customers:   customerRepo,
		Orders:      orderRepo,
		Lock:        runLock,
		Runs:        runRepo,
		Publisher:   publisher,
		Metrics:     ingestMetrics,
	}, ingestapp.Options{
		RunTimeout:   cfg.Ingest.RunTimeout,
		LockTTL:      cfg.Ingest.LockTTL,
		PruneMissing: cfg.Ingest.PruneMissing,
	}, log)

	reportService := reportapp.NewService(reportRepo, log, reportapp.WithArchiver(archiver))

	jwtService := auth.NewJWTService(cfg.JWT)
	defaultTenant := cfg.DefaultTenant().UUID()
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, defaultTenant, log)

	// Hourly ingestion
	var ingestScheduler *scheduler.IngestScheduler
	if cfg.Scheduler.Enabled {
		ingestScheduler, err = scheduler.NewIngestScheduler(cfg.Scheduler, ingestService, log)
		if err != nil {
			log.Fatal("Failed to create ingestion scheduler", zap.Error(err))
		}
		if err := ingestScheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start ingestion scheduler", zap.Error(err))
		}
		log.Info("Ingestion scheduler started", zap.Time("next_run", ingestScheduler.NextRun()))
	}

	engine, err := router.NewEngine(router.EngineConfig{
		App:           cfg.App,
		HTTP:          cfg.HTTP,
		Telemetry:     cfg.Telemetry,
		JWT:           jwtService,
		MeterProvider: providers.Meter,
		Logger:        log,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(reportService, ingestService, log),
		Ingest:    handler.NewIngestHandler(ingestService, defaultTenant, log),
		System:    handler.NewSystemHandler(db, log),
		Metrics:   ingestMetrics.Handler(),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if ingestScheduler != nil {
		if err := ingestScheduler.Stop(ctx); err != nil {
			log.Warn("Ingestion scheduler did not stop cleanly", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// ensureTenants upserts every configured tenant so user and commerce rows
// always reference an existing tenant
func ensureTenants(ctx context.Context, repo commerce.TenantRepository, cfg *config.Config) error {
	tenants := cfg.Tenants
	if len(tenants) == 0 {
		tenants = []config.TenantConfig{cfg.DefaultTenant()}
	}
	for _, tc := range tenants {
		name := tc.Name
		if name == "" {
			name = tc.ID
		}
		tenant, err := commerce.NewTenant(tc.UUID(), name, tc.StoreDomain)
		if err != nil {
			return err
		}
		if err := repo.EnsureExists(ctx, tenant); err != nil {
			return err
		}
	}
	return nil
}

func newArchiver(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (report.ExportArchiver, error) {
	if !cfg.Enabled {
		return storage.NoopArchiver{}, nil
	}
	archiver, err := storage.NewS3ExportArchiver(ctx, cfg, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := archiver.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Export archive enabled", zap.String("bucket", archiver.Bucket()))
	return archiver, nil
}

func dbSystem(driver string) string {
	switch driver {
	case "mysql":
		return "mysql"
	case "sqlite":
		return "sqlite"
	default:
		return "postgresql"
	}
}
