package jobrunner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/schedule"
	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
)

// WorkFactory builds the work function for a named job.
type WorkFactory func(name string) WorkFunc

// Jobs builds the enabled jobs of defs. works maps a job's work name to its
// factory; unknown work names and unparseable schedules are reported
// together.
func Jobs(defs []config.JobConfig, works map[string]WorkFactory, logger *slog.Logger) ([]Job, error) {
	var (
		jobs []Job
		errs []error
	)
	for _, def := range defs {
		if !def.Enabled {
			logger.Info("job disabled", slog.String("job", def.Name))
			continue
		}

		sched, err := schedule.ParseCron(def.Schedule)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %q: %w", def.Name, err))
			continue
		}
		factory, ok := works[def.Work]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: job %q: unknown work %q", domain.ErrInvalidArgument, def.Name, def.Work))
			continue
		}

		jobs = append(jobs, Job{
			Name:       def.Name,
			Schedule:   sched,
			Container:  def.Container,
			Key:        def.Key,
			MaxPeriods: def.MaxPeriods,
			Work:       factory(def.Name),
		})
	}
	return jobs, errors.Join(errs...)
}
