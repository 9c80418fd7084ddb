package config

const (
	defaultServerPort = 8080

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	// DefaultMaxPeriods is used by jobs that do not set max_periods.
	DefaultMaxPeriods = 5

	// DefaultWork is used by jobs that do not set work.
	DefaultWork = "window-log"
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "go-job-core",

		"watermark.backend":                         "memory",
		"watermark.container":                       "watermarks",
		"watermark.dir":                             "data",
		"watermark.timeout":                         "10s",
		"watermark.s3.region":                       "",
		"watermark.s3.endpoint":                     "",
		"watermark.s3.path_style":                   false,
		"watermark.azure.account_url":               "",
		"watermark.azure.connection_string":         "",
		"watermark.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"watermark.circuit_breaker.timeout":         "30s",
		"watermark.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"watermark.rate_limit.requests_per_second":  0,
		"watermark.rate_limit.burst_size":           1,

		"settings.allow_duplicate_keys": false,
		"settings.env_prefix":           "JOBS_",
	}
}

// applyJobDefaults fills per-job fields left empty in the YAML list, which
// the key-based defaults above cannot reach.
func (c *Config) applyJobDefaults() {
	for i := range c.Jobs {
		j := &c.Jobs[i]
		if j.Container == "" {
			j.Container = c.Watermark.Container
		}
		if j.Key == "" {
			j.Key = j.Name
		}
		if j.MaxPeriods == 0 {
			j.MaxPeriods = DefaultMaxPeriods
		}
		if j.Work == "" {
			j.Work = DefaultWork
		}
	}
}
