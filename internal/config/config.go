// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
)

// Store drivers understood by the repository layer.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log encoder: text (slog) or json (zerolog).
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr" validate:"required"`

	// StoreDriver selects the document store backend.
	StoreDriver string `koanf:"store_driver" validate:"oneof=memory sqlite mongo"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=StoreDriver sqlite"`

	// MongoURI and MongoDatabase configure the mongo driver.
	MongoURI      string `koanf:"mongo_uri" validate:"required_if=StoreDriver mongo"`
	MongoDatabase string `koanf:"mongo_database" validate:"required_if=StoreDriver mongo"`

	// StoreTimeoutMS bounds connect and ping against remote stores.
	StoreTimeoutMS int `koanf:"store_timeout_ms" validate:"gte=0"`

	// SeedOnStart inserts sample data when the runners collection is empty.
	SeedOnStart bool `koanf:"seed_on_start"`

	// ReportWorkers bounds concurrent query executions for /report.
	ReportWorkers int `koanf:"report_workers" validate:"gte=0"`

	// MutationRateLimit is the allowed mutation requests per second; 0 disables limiting.
	MutationRateLimit float64 `koanf:"mutation_rate_limit" validate:"gte=0"`

	// MutationBurst is the token bucket size for the mutation limiter.
	MutationBurst int `koanf:"mutation_burst" validate:"gte=0"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace, MetricsSubsystem and MetricsPrefix build metric names
	// as namespace_subsystem_prefix_name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix"`

	// MetricsLabels are constant labels on every metric, as "k=v,k2=v2".
	MetricsLabels string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":5000",
		StoreDriver:       DriverMemory,
		SQLitePath:        "marathon.db",
		MongoURI:          "mongodb://localhost:27017/",
		MongoDatabase:     "marathon_db",
		StoreTimeoutMS:    5000,
		SeedOnStart:       true,
		ReportWorkers:     runtime.NumCPU(),
		MutationRateLimit: 0,
		MutationBurst:     10,
		MetricsEnabled:    true,
		MetricsNamespace:  "marathon",
		MetricsSubsystem:  "reporting",
	}
}
