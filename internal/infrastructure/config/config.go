package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// DefaultTenantID is used when no tenant is configured, so a fresh checkout can
// register users and ingest without extra setup.
const DefaultTenantID = "00000000-0000-0000-0000-000000000001"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Shopify   ShopifyConfig
	Ingest    IngestConfig
	Scheduler SchedulerConfig
	Tenants   []TenantConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, mysql, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string // sqlite file, ":memory:" allowed
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	AutoMigrate     bool
}

// RedisConfig holds Redis connection settings.
// Redis backs the ingestion run lock; without it the lock is process-local.
type RedisConfig struct {
	Enabled  bool
	URL      string // takes precedence over Host/Port when set
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string

	// Per-client token bucket on /api/auth; zero disables it
	AuthRatePerSecond float64
	AuthRateBurst     int
}

// ShopifyConfig holds commerce platform client settings shared by all tenants
type ShopifyConfig struct {
	StoreDomain    string // single-tenant fallback
	AccessToken    string // single-tenant fallback
	APIVersion     string
	PageSize       int
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	MaxRetries     int
}

// IngestConfig holds ingestion pipeline settings
type IngestConfig struct {
	RunTimeout   time.Duration // deadline for one tenant + entity kind pass
	LockTTL      time.Duration
	PruneMissing bool
}

// SchedulerConfig holds ingestion scheduler configuration
type SchedulerConfig struct {
	Enabled      bool
	CronSchedule string
	RunOnStart   bool
}

// TenantConfig holds one tenant's store credentials
type TenantConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	StoreDomain string `mapstructure:"store_domain"`
	AccessToken string `mapstructure:"access_token"`
	APIVersion  string `mapstructure:"api_version"`
}

// UUID returns the tenant identifier as a UUID (see TenantUUID)
func (t TenantConfig) UUID() uuid.UUID {
	return TenantUUID(t.ID)
}

// KafkaConfig holds ingestion event publishing settings
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// StorageConfig holds S3-compatible object storage settings for CSV export archives
type StorageConfig struct {
	Enabled      bool
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	UsePathStyle bool
	Prefix       string
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry tracing
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)

	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool

	// Database tracing options
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration

	// Wrap the tracer so profiler samples carry span ids
	SpanProfiles bool
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled              bool
	ServerAddress        string
	ApplicationName      string
	BasicAuthUser        string
	BasicAuthPassword    string
	MutexProfileFraction int
	BlockProfileRate     int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOPSIGHT_ prefix (e.g., SHOPSIGHT_DATABASE_PASSWORD)
// 2. Deployment aliases without prefix (e.g., DB_PASSWORD, SHOPIFY_ACCESS_TOKEN)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SHOPSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindAliases(v); err != nil {
		return nil, err
	}

	jwtExpiration, err := ParseExpiry(v.GetString("jwt.expires_in"))
	if err != nil {
		return nil, fmt.Errorf("jwt.expires_in: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			URL:      v.GetString("redis.url"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: jwtExpiration,
			Issuer:     v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),

			AuthRatePerSecond: v.GetFloat64("http.auth_rate_per_second"),
			AuthRateBurst:     v.GetInt("http.auth_rate_burst"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:    v.GetString("shopify.store_domain"),
			AccessToken:    v.GetString("shopify.access_token"),
			APIVersion:     v.GetString("shopify.api_version"),
			PageSize:       v.GetInt("shopify.page_size"),
			Timeout:        v.GetDuration("shopify.timeout"),
			RequestsPerSec: v.GetFloat64("shopify.requests_per_sec"),
			Burst:          v.GetInt("shopify.burst"),
			MaxRetries:     v.GetInt("shopify.max_retries"),
		},
		Ingest: IngestConfig{
			RunTimeout:   v.GetDuration("ingest.run_timeout"),
			LockTTL:      v.GetDuration("ingest.lock_ttl"),
			PruneMissing: v.GetBool("ingest.prune_missing"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      v.GetBool("scheduler.enabled"),
			CronSchedule: v.GetString("scheduler.cron_schedule"),
			RunOnStart:   v.GetBool("scheduler.run_on_start"),
		},
		Kafka: KafkaConfig{
			Enabled:      v.GetBool("kafka.enabled"),
			Brokers:      v.GetStringSlice("kafka.brokers"),
			Topic:        v.GetString("kafka.topic"),
			WriteTimeout: v.GetDuration("kafka.write_timeout"),
		},
		Storage: StorageConfig{
			Enabled:      v.GetBool("storage.enabled"),
			Endpoint:     v.GetString("storage.endpoint"),
			Region:       v.GetString("storage.region"),
			Bucket:       v.GetString("storage.bucket"),
			AccessKey:    v.GetString("storage.access_key"),
			SecretKey:    v.GetString("storage.secret_key"),
			UseSSL:       v.GetBool("storage.use_ssl"),
			UsePathStyle: v.GetBool("storage.use_path_style"),
			Prefix:       v.GetString("storage.prefix"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
			DBTraceEnabled:        v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh:     v.GetDuration("telemetry.db_slow_query_threshold"),
			SpanProfiles:          v.GetBool("telemetry.span_profiles"),
		},
		Profiling: ProfilingConfig{
			Enabled:              v.GetBool("profiling.enabled"),
			ServerAddress:        v.GetString("profiling.server_address"),
			ApplicationName:      v.GetString("profiling.application_name"),
			BasicAuthUser:        v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword:    v.GetString("profiling.basic_auth_password"),
			MutexProfileFraction: v.GetInt("profiling.mutex_profile_fraction"),
			BlockProfileRate:     v.GetInt("profiling.block_profile_rate"),
		},
	}

	if err := v.UnmarshalKey("tenants", &cfg.Tenants); err != nil {
		return nil, fmt.Errorf("error decoding tenants: %w", err)
	}
	if len(cfg.Tenants) == 0 {
		cfg.Tenants = []TenantConfig{{
			ID:          v.GetString("tenant.id"),
			Name:        v.GetString("tenant.name"),
			StoreDomain: cfg.Shopify.StoreDomain,
			AccessToken: cfg.Shopify.AccessToken,
		}}
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// bindAliases binds each key to its prefixed variable first and then to the
// bare deployment variable, so SHOPSIGHT_* wins when both are set.
func bindAliases(v *viper.Viper) error {
	aliases := map[string]string{
		"app.port":             "PORT",
		"database.host":        "DB_HOST",
		"database.port":        "DB_PORT",
		"database.user":        "DB_USER",
		"database.password":    "DB_PASSWORD",
		"database.dbname":      "DB_NAME",
		"shopify.store_domain": "SHOPIFY_STORE_DOMAIN",
		"shopify.access_token": "SHOPIFY_ACCESS_TOKEN",
		"tenant.id":            "TENANT_ID",
		"jwt.secret":           "JWT_SECRET",
		"jwt.expires_in":       "JWT_EXPIRES_IN",
		"redis.url":            "REDIS_URL",
	}
	for key, alias := range aliases {
		prefixed := "SHOPSIGHT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, alias); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "shopsight"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		switch cfg.Database.Driver {
		case "mysql":
			cfg.Database.Port = 3306
		default:
			cfg.Database.Port = 5432
		}
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "shopsight"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "shopsight.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}

	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.URL != "" {
		cfg.Redis.Enabled = true
	}

	if cfg.JWT.Secret == "" && cfg.App.Env != "production" {
		cfg.JWT.Secret = "shopsight-development-secret-do-not-use"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "shopsight"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// manual ingestion answers only after the pass completes
		cfg.HTTP.WriteTimeout = 15 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 && cfg.App.Env != "production" {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if cfg.HTTP.AuthRatePerSecond > 0 && cfg.HTTP.AuthRateBurst == 0 {
		cfg.HTTP.AuthRateBurst = 5
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}

	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2025-07"
	}
	if cfg.Shopify.PageSize == 0 {
		cfg.Shopify.PageSize = 250
	}
	if cfg.Shopify.Timeout == 0 {
		cfg.Shopify.Timeout = 30 * time.Second
	}
	if cfg.Shopify.RequestsPerSec == 0 {
		cfg.Shopify.RequestsPerSec = 2
	}
	if cfg.Shopify.Burst == 0 {
		cfg.Shopify.Burst = 4
	}
	if cfg.Shopify.MaxRetries == 0 {
		cfg.Shopify.MaxRetries = 2
	}

	if cfg.Ingest.RunTimeout == 0 {
		cfg.Ingest.RunTimeout = 10 * time.Minute
	}
	if cfg.Ingest.LockTTL == 0 {
		cfg.Ingest.LockTTL = cfg.Ingest.RunTimeout + time.Minute
	}

	if cfg.Scheduler.CronSchedule == "" {
		cfg.Scheduler.CronSchedule = "0 * * * *"
	}

	for i := range cfg.Tenants {
		if cfg.Tenants[i].ID == "" {
			cfg.Tenants[i].ID = DefaultTenantID
		}
		if cfg.Tenants[i].Name == "" {
			cfg.Tenants[i].Name = "Default Store"
		}
		if cfg.Tenants[i].APIVersion == "" {
			cfg.Tenants[i].APIVersion = cfg.Shopify.APIVersion
		}
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "shopsight.ingestion"
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "exports"
	}

	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}

	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver must be one of postgres, mysql, sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Shopify.PageSize < 1 || c.Shopify.PageSize > 250 {
		return fmt.Errorf("shopify.page_size must be between 1 and 250, got %d", c.Shopify.PageSize)
	}
	if c.Shopify.RequestsPerSec < 0 {
		return fmt.Errorf("shopify.requests_per_sec cannot be negative")
	}
	if c.Shopify.MaxRetries < 0 {
		return fmt.Errorf("shopify.max_retries cannot be negative")
	}

	seen := make(map[uuid.UUID]string, len(c.Tenants))
	for _, t := range c.Tenants {
		id := t.UUID()
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("tenants: duplicate tenant id %q (also used by %q)", t.ID, prev)
		}
		seen[id] = t.Name
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver != "sqlite" && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Profiling.Enabled && c.Profiling.ServerAddress == "" {
		return fmt.Errorf("profiling.server_address is required when profiling is enabled")
	}

	return nil
}

// DefaultTenant returns the first configured tenant. Requests that do not name
// a tenant act on it.
func (c *Config) DefaultTenant() TenantConfig {
	if len(c.Tenants) == 0 {
		return TenantConfig{ID: DefaultTenantID, Name: "Default Store"}
	}
	return c.Tenants[0]
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	q.Set("timezone", "UTC")
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns host:port for Redis
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TenantUUID converts a configured tenant identifier into a UUID. Values that
// are not UUIDs (for example a numeric TENANT_ID) map to a stable name-based UUID.
func TenantUUID(raw string) uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.MustParse(DefaultTenantID)
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("shopsight-tenant:"+raw))
}

// ParseExpiry parses a token lifetime. It accepts Go durations ("90m"), a day
// suffix ("7d") and bare seconds ("3600"). Empty means use the default.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("expiry must be positive, got %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day expiry %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", s)
	}
	return d, nil
}
