// Package config provides configuration loading and validation for the job
// runner process. Configuration is loaded from YAML files with environment
// variable overrides using a layered system:
// defaults -> base.yaml -> {profile}.yaml -> env vars.
//
// This is process bootstrap configuration. Application settings consumed by
// jobs are served by the configuration service in internal/app/configuration,
// whose sources are listed in the settings section.
package config

import "time"

// Config holds all configuration for the process.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Watermark WatermarkConfig `koanf:"watermark"`
	Settings  SettingsConfig  `koanf:"settings"`
	Jobs      []JobConfig     `koanf:"jobs"`
}

// ServerConfig holds admin HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// WatermarkConfig selects and tunes the durable watermark store.
type WatermarkConfig struct {
	// Backend is one of memory, file, s3, azure.
	Backend string `koanf:"backend"`
	// Container is the default container for jobs that do not set one.
	Container      string               `koanf:"container"`
	Dir            string               `koanf:"dir"`
	Timeout        time.Duration        `koanf:"timeout"`
	S3             S3Config             `koanf:"s3"`
	Azure          AzureConfig          `koanf:"azure"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// S3Config holds Amazon S3 (or S3-compatible) settings.
type S3Config struct {
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	PathStyle bool   `koanf:"path_style"`
}

// AzureConfig holds Azure Blob Storage settings.
type AzureConfig struct {
	AccountURL       string `koanf:"account_url"`
	ConnectionString string `koanf:"connection_string"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig caps store operations per second. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// SettingsConfig lists the sources registered with the configuration
// service, in registration order: Files first, then the environment.
type SettingsConfig struct {
	AllowDuplicateKeys bool     `koanf:"allow_duplicate_keys"`
	Files              []string `koanf:"files"`
	EnvPrefix          string   `koanf:"env_prefix"`
}

// JobConfig defines one scheduled job.
type JobConfig struct {
	Name       string `koanf:"name"`
	Schedule   string `koanf:"schedule"`
	Container  string `koanf:"container"`
	Key        string `koanf:"key"`
	MaxPeriods int    `koanf:"max_periods"`
	Enabled    bool   `koanf:"enabled"`
	Work       string `koanf:"work"`
}
