package config

import (
	"errors"
	"fmt"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Watermark.validate(),
		c.validateJobs(),
	)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "trace", "debug", "info", "warn", "error", "critical":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf(
			"log.level must be one of: trace, debug, info, warn, error, critical; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}

func (w *WatermarkConfig) validate() error {
	var errs []error

	switch w.Backend {
	case "memory":
	case "file":
		if w.Dir == "" {
			errs = append(errs, errors.New("watermark.dir must not be empty when backend is file"))
		}
	case "s3":
		if w.S3.Region == "" && w.S3.Endpoint == "" {
			errs = append(errs, errors.New("watermark.s3.region or watermark.s3.endpoint must be set when backend is s3"))
		}
	case "azure":
		if w.Azure.AccountURL == "" && w.Azure.ConnectionString == "" {
			errs = append(errs, errors.New(
				"watermark.azure.account_url or watermark.azure.connection_string must be set when backend is azure"))
		}
	default:
		errs = append(errs, fmt.Errorf("watermark.backend must be one of: memory, file, s3, azure; got %q", w.Backend))
	}

	if w.Container == "" {
		errs = append(errs, errors.New("watermark.container must not be empty"))
	}
	if w.Timeout < 0 {
		errs = append(errs, errors.New("watermark.timeout must not be negative"))
	}
	if w.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("watermark.circuit_breaker.max_failures must be >= 1, got %d",
			w.CircuitBreaker.MaxFailures))
	}
	if w.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, errors.New("watermark.rate_limit.requests_per_second must not be negative"))
	}
	if w.RateLimit.RequestsPerSecond > 0 && w.RateLimit.BurstSize < 1 {
		errs = append(errs, fmt.Errorf("watermark.rate_limit.burst_size must be >= 1, got %d", w.RateLimit.BurstSize))
	}

	return errors.Join(errs...)
}

func (c *Config) validateJobs() error {
	var errs []error
	seen := make(map[string]bool, len(c.Jobs))

	for i, j := range c.Jobs {
		if j.Name == "" {
			errs = append(errs, fmt.Errorf("jobs[%d].name must not be empty", i))
		} else if seen[j.Name] {
			errs = append(errs, fmt.Errorf("jobs[%d].name %q is duplicated", i, j.Name))
		}
		seen[j.Name] = true

		if j.Schedule == "" {
			errs = append(errs, fmt.Errorf("jobs[%d].schedule must not be empty", i))
		}
		if j.MaxPeriods < 1 {
			errs = append(errs, fmt.Errorf("jobs[%d].max_periods must be >= 1, got %d", i, j.MaxPeriods))
		}
	}

	return errors.Join(errs...)
}
