package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"path/filepath"
	"strings"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/configprovider"
	adapthttp "github.com/jsamuelsen11/go-job-core/internal/adapters/http"
	"github.com/jsamuelsen11/go-job-core/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-job-core/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-job-core/internal/adapters/watermarkstore"
	"github.com/jsamuelsen11/go-job-core/internal/app/configuration"
	"github.com/jsamuelsen11/go-job-core/internal/app/jobrunner"
	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
	"github.com/jsamuelsen11/go-job-core/internal/platform/health"
	"github.com/jsamuelsen11/go-job-core/internal/platform/logging"
	"github.com/jsamuelsen11/go-job-core/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// otelProviders bundles the OpenTelemetry providers. Every field is nil when
// telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tc := cfg.Telemetry
	tp, err := telemetry.InitTracer(ctx, tc.ServiceName, tc.Exporter, tc.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	mp, err := telemetry.InitMeter(ctx, tc.ServiceName, tc.Exporter, tc.Endpoint)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	return &otelProviders{tracer: tp, meter: mp, metrics: metrics}, nil
}

// newConfigurationService registers, in order, a defaults provider seeded
// from cfg, one provider per settings file and the environment provider.
// File providers are read eagerly so a missing file fails startup.
func newConfigurationService(cfg *config.Config, logger *slog.Logger) (*configuration.Service, error) {
	b := configuration.NewBuilder()
	b.Options.AllowDuplicateKeysInDifferentProviders = cfg.Settings.AllowDuplicateKeys
	if err := b.ConfigureLogging(logging.ComponentFactory(logger)); err != nil {
		return nil, err
	}

	providers := []ports.ConfigurationProvider{
		configprovider.NewMemory("defaults", map[string]string{
			"service.name": cfg.Telemetry.ServiceName,
		}),
	}
	for _, path := range cfg.Settings.Files {
		f := configprovider.NewFile(providerID(path), path)
		if err := f.Initialize(); err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
		providers = append(providers, f)
	}
	if cfg.Settings.EnvPrefix != "" {
		providers = append(providers, configprovider.NewEnv("env", cfg.Settings.EnvPrefix))
	}

	if err := b.AddProviders(providers...); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// providerID derives a provider id from a settings file name:
// "configs/settings.yaml" becomes "file:settings".
func providerID(path string) string {
	base := filepath.Base(path)
	return "file:" + strings.TrimSuffix(base, filepath.Ext(base))
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*configuration.Service, error) {
		return newConfigurationService(cfg, logger)
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*watermarkstore.Guarded, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		store, err := watermarkstore.New(ctx, &cfg.Watermark, metrics, logger)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[ports.HealthRegistry](i).Register(store)
		return store, nil
	})

	do.Provide(injector, func(i do.Injector) (*jobrunner.Runner, error) {
		store := do.MustInvoke[*watermarkstore.Guarded](i)
		settings, err := do.Invoke[*configuration.Service](i)
		if err != nil {
			return nil, err
		}
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		works := map[string]jobrunner.WorkFactory{
			config.DefaultWork: func(name string) jobrunner.WorkFunc {
				return jobrunner.WindowLog(name, settings, logger)
			},
		}
		jobs, err := jobrunner.Jobs(cfg.Jobs, works, logger)
		if err != nil {
			return nil, fmt.Errorf("building jobs: %w", err)
		}

		runner := jobrunner.New(store, logger, jobrunner.WithMetrics(metrics))
		for _, job := range jobs {
			if err := runner.Register(job); err != nil {
				return nil, err
			}
		}
		return runner, nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return adapthttp.NewRouter(
			handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i)),
			handlers.NewConfigHandler(do.MustInvoke[*configuration.Service](i)),
			handlers.NewJobsHandler(do.MustInvoke[*jobrunner.Runner](i)),
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		return adapthttp.NewServer(cfg.Server, do.MustInvoke[nethttp.Handler](i), logger), nil
	})
}
