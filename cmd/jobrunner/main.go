// Package main runs the job scheduler. It wires dependencies with samber/do
// v2, schedules the configured jobs, serves the admin API and shuts down
// gracefully on SIGINT/SIGTERM.
//
// With -once every enabled job runs a single cycle and the process exits;
// the exit status is non-zero when any cycle failed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/go-job-core/internal/adapters/http"
	"github.com/jsamuelsen11/go-job-core/internal/app/jobrunner"
	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
	"github.com/jsamuelsen11/go-job-core/internal/platform/logging"
)

const (
	shutdownTimeout     = 15 * time.Second
	otelShutdownTimeout = 5 * time.Second
)

func main() {
	once := flag.Bool("once", false, "run every enabled job once and exit")
	flag.Parse()

	if err := run(*once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(once bool) error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr).
		With(slog.String("profile", profile))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		otelCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
		defer cancel()
		if err := otel.Shutdown(otelCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)
	registerDependencies(ctx, injector, cfg, logger)

	runner, err := do.Invoke[*jobrunner.Runner](injector)
	if err != nil {
		return fmt.Errorf("resolving job runner: %w", err)
	}

	if once {
		return runOnce(ctx, runner, logger)
	}
	return serve(ctx, injector, runner, logger)
}

func runOnce(ctx context.Context, runner *jobrunner.Runner, logger *slog.Logger) error {
	var errs []error
	for _, report := range runner.RunAll(ctx) {
		if report.Err != nil {
			errs = append(errs, fmt.Errorf("job %q: %w", report.Job, report.Err))
		}
	}
	logger.Info("single pass complete", slog.Int("failed", len(errs)))
	return errors.Join(errs...)
}

func serve(ctx context.Context, injector do.Injector, runner *jobrunner.Runner, logger *slog.Logger) error {
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		runErr = fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}
	if runErr == nil {
		<-serverErr
	}
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return runErr
}
