package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shopsight/backend/internal/infrastructure/auth"
	"github.com/shopsight/backend/internal/infrastructure/config"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/infrastructure/telemetry"
	"github.com/shopsight/backend/internal/interfaces/http/handler"
	"github.com/shopsight/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the HTTP API serves
type Handlers struct {
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
	Ingest    *handler.IngestHandler
	System    *handler.SystemHandler
	// Metrics serves the Prometheus exposition at /metrics; nil disables it
	Metrics http.Handler
}

// EngineConfig holds what NewEngine needs besides the handlers
type EngineConfig struct {
	App           config.AppConfig
	HTTP          config.HTTPConfig
	Telemetry     config.TelemetryConfig
	JWT           *auth.JWTService
	MeterProvider *telemetry.MeterProvider
	Logger        *zap.Logger
}

// NewEngine builds the gin engine with the full middleware chain and routes:
//
//	GET  /                 banner
//	GET  /health           database ping
//	GET  /metrics          Prometheus
//	GET  /ingest-{kind}    manual ingestion trigger
//	POST /api/auth/{register,login}
//	GET  /api/dashboard/*  bearer token required
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: cfg.MeterProvider,
			Enabled:       cfg.Telemetry.MetricsEnabled,
			Logger:        cfg.Logger,
		}),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
	)

	engine.GET("/", h.System.Root)
	engine.GET("/health", h.System.Health)
	if h.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(h.Metrics))
	}
	engine.GET("/ingest-products", h.Ingest.Products)
	engine.GET("/ingest-customers", h.Ingest.Customers)
	engine.GET("/ingest-orders", h.Ingest.Orders)

	authGroup := NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRatePerSecond > 0 {
		authGroup.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRatePerSecond, cfg.HTTP.AuthRateBurst)))
	}
	authGroup.
		POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		Use(middleware.JWTAuth(cfg.JWT, cfg.Logger), middleware.SpanEnricher()).
		GET("/summary", h.Dashboard.Summary).
		GET("/orders-by-date", h.Dashboard.OrdersByDate).
		GET("/top-customers", h.Dashboard.TopCustomers).
		GET("/export-top-customers", h.Dashboard.ExportTopCustomers).
		GET("/export-orders", h.Dashboard.ExportOrders).
		GET("/revenue-growth", h.Dashboard.RevenueGrowth).
		GET("/aov", h.Dashboard.AverageOrderValue).
		GET("/repeat-customers", h.Dashboard.RepeatCustomers).
		GET("/ingestion-runs", h.Dashboard.IngestionRuns)

	NewRouter(engine, WithBasePath("/api")).
		Register(authGroup).
		Register(dashboard).
		Setup()

	return engine, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		c.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		c.AllowHeaders = cfg.CORSAllowHeaders
	}
	return c
}
