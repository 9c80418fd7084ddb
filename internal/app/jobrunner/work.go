package jobrunner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-job-core/internal/app/timercycle"
)

// SettingsReader is the read side of the configuration service.
type SettingsReader interface {
	Get(key string) (string, bool, error)
}

// WindowLog returns work that logs the cycle window together with the
// job's "jobs.<name>.label" setting. It is the built-in work for jobs that
// only need watermark bookkeeping.
func WindowLog(name string, settings SettingsReader, logger *slog.Logger) WorkFunc {
	key := "jobs." + name + ".label"
	return func(ctx context.Context, cycle *timercycle.TimerCycle) error {
		label, found, err := settings.Get(key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		if !found {
			label = name
		}

		logger.InfoContext(ctx, "processing window",
			slog.String("job", name),
			slog.String("label", label),
			slog.Time("start_time", cycle.StartTime()),
			slog.Time("end_time", cycle.EndTime()),
			slog.Duration("length", cycle.Length()),
			slog.Bool("clamped", cycle.Clamped()),
		)
		return nil
	}
}
