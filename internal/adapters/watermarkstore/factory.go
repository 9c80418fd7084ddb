package watermarkstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
	"github.com/jsamuelsen11/go-job-core/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// New builds the backend selected by cfg.Backend and wraps it in a Guarded
// store.
func New(ctx context.Context, cfg *config.WatermarkConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*Guarded, error) {
	var (
		inner ports.WatermarkStore
		err   error
	)

	switch cfg.Backend {
	case BackendMemory:
		inner = NewMemory()
	case BackendFile:
		inner = NewFile(cfg.Dir)
	case BackendS3:
		inner, err = NewS3FromConfig(ctx, S3Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	case BackendAzure:
		inner, err = NewAzureFromConfig(AzureOptions{
			AccountURL:       cfg.Azure.AccountURL,
			ConnectionString: cfg.Azure.ConnectionString,
		})
	default:
		return nil, fmt.Errorf("unsupported watermark backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s watermark store: %w", cfg.Backend, err)
	}

	logger.Info("watermark store configured",
		slog.String("backend", cfg.Backend),
		slog.String("container", cfg.Container),
	)
	return NewGuarded(inner, cfg.Backend, cfg, metrics, logger), nil
}
