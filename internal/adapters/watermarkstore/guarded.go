package watermarkstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
	"github.com/jsamuelsen11/go-job-core/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// Guarded decorates a store with a circuit breaker, rate limiting,
// per-operation timeouts, tracing spans and metrics. Missing records and
// invalid addresses do not count as breaker failures.
type Guarded struct {
	inner   ports.WatermarkStore
	backend string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter // nil when rate limiting is disabled
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// NewGuarded wraps inner. backend names the store in spans, metrics and
// health output. If metrics is nil, metric recording is skipped.
func NewGuarded(inner ports.WatermarkStore, backend string, cfg *config.WatermarkConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Guarded {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "watermark-" + backend,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	}

	return &Guarded{
		inner:   inner,
		backend: backend,
		timeout: cfg.Timeout,
		breaker: cb,
		limiter: limiter,
		tracer:  otel.GetTracerProvider().Tracer(telemetry.ScopeName + "/watermarkstore"),
		metrics: metrics,
		logger:  logger,
	}
}

func (g *Guarded) Exists(ctx context.Context, container, key string) (bool, error) {
	var exists bool
	err := g.do(ctx, "exists", container, key, func(ctx context.Context) error {
		var err error
		exists, err = g.inner.Exists(ctx, container, key)
		return err
	})
	return exists, err
}

func (g *Guarded) Read(ctx context.Context, container, key string) (string, error) {
	var contents string
	err := g.do(ctx, "read", container, key, func(ctx context.Context) error {
		var err error
		contents, err = g.inner.Read(ctx, container, key)
		return err
	})
	return contents, err
}

func (g *Guarded) Write(ctx context.Context, container, key, contents string) error {
	return g.do(ctx, "write", container, key, func(ctx context.Context) error {
		return g.inner.Write(ctx, container, key, contents)
	})
}

// Backend returns the wrapped backend's name.
func (g *Guarded) Backend() string {
	return g.backend
}

// Name identifies the store in the health registry.
func (g *Guarded) Name() string {
	return "watermark-" + g.backend
}

// HealthCheck reports the breaker state without touching the backend.
func (g *Guarded) HealthCheck(_ context.Context) error {
	state := g.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", g.Name())
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", g.Name())
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", g.Name(), state)
	}
}

func (g *Guarded) do(ctx context.Context, op, container, key string, fn func(context.Context) error) error {
	start := time.Now()

	ctx, span := g.tracer.Start(ctx, "watermarkstore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("watermark.backend", g.backend),
			attribute.String("watermark.container", container),
			attribute.String("watermark.key", key),
		),
	)
	defer span.End()

	_, err := g.breaker.Execute(func() (struct{}, error) {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return struct{}{}, err
			}
		}

		opCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			opCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		return struct{}{}, fn(opCtx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: watermark store %s: %w", domain.ErrUnavailable, g.backend, err)
	}

	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.Debug("watermark store operation failed",
			slog.String("operation", op),
			slog.String("backend", g.backend),
			slog.String("container", container),
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
	g.metrics.RecordWatermarkOp(ctx, g.backend, op, time.Since(start), err)
	return err
}

// toUint32 converts a non-negative int to uint32, clamping at the uint32
// maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
