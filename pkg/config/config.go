package config

import "time"

// Config is the root configuration structure for Mercator Themis.
// It contains all configuration sections for the decision server, rule
// sources, audit logging, and telemetry.
type Config struct {
	// Server contains HTTP decision server configuration including
	// listen address and timeouts.
	Server ServerConfig `yaml:"server"`

	// Rules contains configuration for loading and reloading rulesets.
	Rules RulesConfig `yaml:"rules"`

	// Audit contains configuration for decision logging including
	// backend selection and retention.
	Audit AuditConfig `yaml:"audit"`

	// Store contains configuration for the ruleset revision store.
	Store StoreConfig `yaml:"store"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP decision server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8458", "0.0.0.0:8458").
	// Default: "127.0.0.1:8458"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. A zero or negative value means no timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RulesConfig contains configuration for the rule engine's source.
type RulesConfig struct {
	// Path is the ruleset YAML file to load.
	// Default: "rules.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reload when the ruleset file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long to wait after a file change before
	// reloading, coalescing editor write bursts.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`

	// MaxRuleLength is the maximum accepted rule expression length in
	// bytes. Longer expressions are rejected at parse time.
	// Default: 65536
	MaxRuleLength int `yaml:"max_rule_length"`
}

// AuditConfig contains configuration for decision logging.
type AuditConfig struct {
	// Enabled enables audit recording of decisions.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite backend settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// AsyncBuffer is the size of the recorder's write buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for a single storage write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention contains retention pruning settings.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite backend settings for the audit log.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains audit retention settings.
type RetentionConfig struct {
	// Days is the number of days to retain decision records.
	// 0 keeps records forever.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// StoreConfig contains configuration for the ruleset revision store.
type StoreConfig struct {
	// Enabled enables recording of loaded ruleset revisions.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the revision database file path.
	// Default: "data/revisions.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in each record.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path the metrics endpoint is served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
