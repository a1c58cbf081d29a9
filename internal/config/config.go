package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Queue     QueueConfig     `yaml:"queue"`
	Detection DetectionConfig `yaml:"detection"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Webhook   WebhookConfig   `yaml:"webhook"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"  env:"SERVER_METRICS_ENABLED"  env-default:"true"`
	// AdminToken enables the /admin endpoints when set.
	AdminToken string `yaml:"admin_token" env:"SERVER_ADMIN_TOKEN"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// ApplicationName tags storewatch sessions in pg_stat_activity.
	ApplicationName  string        `yaml:"application_name"  env:"DATABASE_APPLICATION_NAME"  env-default:"storewatch"`
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"30s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// QueueConfig holds job queue, retry and worker loop settings.
type QueueConfig struct {
	MaxRetries      int           `yaml:"max_retries"      env:"QUEUE_MAX_RETRIES"      env-default:"3"`
	BackoffBase     time.Duration `yaml:"backoff_base"     env:"QUEUE_BACKOFF_BASE"     env-default:"2s"`
	BatchSize       int           `yaml:"batch_size"       env:"QUEUE_BATCH_SIZE"       env-default:"50"`
	Concurrency     int           `yaml:"concurrency"      env:"QUEUE_CONCURRENCY"      env-default:"4"`
	PollInterval    time.Duration `yaml:"poll_interval"    env:"QUEUE_POLL_INTERVAL"    env-default:"5s"`
	CoalesceDelay   time.Duration `yaml:"coalesce_delay"   env:"QUEUE_COALESCE_DELAY"   env-default:"500ms"`
	StaleAfter      time.Duration `yaml:"stale_after"      env:"QUEUE_STALE_AFTER"      env-default:"10m"`
	ReclaimInterval time.Duration `yaml:"reclaim_interval" env:"QUEUE_RECLAIM_INTERVAL" env-default:"1m"`
	RetentionDays   int           `yaml:"retention_days"   env:"QUEUE_RETENTION_DAYS"   env-default:"7"`
	SweepInterval   time.Duration `yaml:"sweep_interval"   env:"QUEUE_SWEEP_INTERVAL"   env-default:"1h"`
}

// DetectionConfig holds change classification and enrichment policy.
type DetectionConfig struct {
	PriceHighRatio    float64       `yaml:"price_high_ratio"    env:"DETECT_PRICE_HIGH_RATIO"    env-default:"0.50"`
	PriceMediumRatio  float64       `yaml:"price_medium_ratio"  env:"DETECT_PRICE_MEDIUM_RATIO"  env-default:"0.15"`
	DedupWindow       time.Duration `yaml:"dedup_window"        env:"DETECT_DEDUP_WINDOW"        env-default:"24h"`
	InventoryPageSize int           `yaml:"inventory_page_size" env:"DETECT_INVENTORY_PAGE_SIZE" env-default:"50"`
	InventoryMaxPages int           `yaml:"inventory_max_pages" env:"DETECT_INVENTORY_MAX_PAGES" env-default:"20"`
	DiscoveryHours    float64       `yaml:"discovery_hours"     env:"DETECT_DISCOVERY_HOURS"     env-default:"2"`
	DiscoveryDays     float64       `yaml:"discovery_days"      env:"DETECT_DISCOVERY_DAYS"      env-default:"3"`
	EstimateFactor    float64       `yaml:"estimate_factor"     env:"DETECT_ESTIMATE_FACTOR"     env-default:"0.5"`
}

// CatalogConfig holds settings for the catalog platform API client.
type CatalogConfig struct {
	// BaseURL overrides https://<tenant> and is used by tests and proxies.
	BaseURL         string        `yaml:"base_url"          env:"CATALOG_BASE_URL"`
	APIVersion      string        `yaml:"api_version"       env:"CATALOG_API_VERSION"       env-default:"2024-10"`
	Timeout         time.Duration `yaml:"timeout"           env:"CATALOG_TIMEOUT"           env-default:"10s"`
	RateLimit       float64       `yaml:"rate_limit"        env:"CATALOG_RATE_LIMIT"        env-default:"2"`
	RateBurst       int           `yaml:"rate_burst"        env:"CATALOG_RATE_BURST"        env-default:"4"`
	BreakerFailures uint32        `yaml:"breaker_failures"  env:"CATALOG_BREAKER_FAILURES"  env-default:"5"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"   env:"CATALOG_BREAKER_TIMEOUT"   env-default:"30s"`
}

// WebhookConfig holds webhook intake settings.
type WebhookConfig struct {
	Secret       string `yaml:"secret"         env:"WEBHOOK_SECRET"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" env:"WEBHOOK_MAX_BODY_BYTES" env-default:"1048576"`
	// RateLimit caps deliveries per shop per minute; 0 disables it.
	RateLimit int `yaml:"rate_limit" env:"WEBHOOK_RATE_LIMIT" env-default:"600"`
}
