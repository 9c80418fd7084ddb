// Package jobrunner executes periodic jobs as TimerCycles.
//
// Each run creates a cycle from the job's cron schedule and the stored
// watermark, hands the window to the job's work function and, only when the
// work succeeds, completes the cycle so the watermark advances. A failed run
// leaves the watermark untouched and the next run retries the same window.
//
// At most one cycle per job runs at a time in this process: scheduled
// triggers that overlap a running cycle are skipped, and manual triggers
// fail with domain.ErrConflict.
package jobrunner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/schedule"
	"github.com/jsamuelsen11/go-job-core/internal/app/timercycle"
	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// Compile-time check that Runner implements ports.JobRunner.
var _ ports.JobRunner = (*Runner)(nil)

// WorkFunc processes the window [cycle.StartTime(), cycle.EndTime()).
type WorkFunc func(ctx context.Context, cycle *timercycle.TimerCycle) error

// Job is a registered periodic job.
type Job struct {
	Name       string
	Schedule   *schedule.Cron
	Container  string
	Key        string
	MaxPeriods int
	Work       WorkFunc
}

func (j Job) validate() error {
	var errs []error
	if j.Name == "" {
		errs = append(errs, errors.New("job name must not be empty"))
	}
	if j.Schedule == nil {
		errs = append(errs, errors.New("job schedule must not be nil"))
	}
	if j.Container == "" {
		errs = append(errs, errors.New("job container must not be empty"))
	}
	if j.Key == "" {
		errs = append(errs, errors.New("job key must not be empty"))
	}
	if j.MaxPeriods < 1 {
		errs = append(errs, fmt.Errorf("job max periods must be at least 1, got %d", j.MaxPeriods))
	}
	if j.Work == nil {
		errs = append(errs, errors.New("job work must not be nil"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: job %q: %w", domain.ErrInvalidArgument, j.Name, err)
	}
	return nil
}

type entry struct {
	job     Job
	running sync.Mutex

	mu   sync.Mutex
	busy bool
	last *ports.CycleReport
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithMetrics records cycle metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithMaxConcurrency bounds RunAll. Defaults to 4.
func WithMaxConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}

// Runner owns the registered jobs and the cron scheduler that triggers them.
type Runner struct {
	store          ports.WatermarkStore
	logger         *slog.Logger
	metrics        *telemetry.Metrics
	now            func() time.Time
	maxConcurrency int

	mu      sync.RWMutex
	jobs    map[string]*entry
	cron    *cron.Cron
	baseCtx context.Context
	cancel  context.CancelFunc
}

// New creates a Runner that persists watermarks in store.
func New(store ports.WatermarkStore, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		store:          store,
		logger:         logger,
		now:            time.Now,
		maxConcurrency: 4,
		jobs:           make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds job. Names must be unique. Jobs registered after Start are
// only runnable through RunOnce.
func (r *Runner) Register(job Job) error {
	if err := job.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.Name]; ok {
		return fmt.Errorf("%w: job %q already registered", domain.ErrConflict, job.Name)
	}
	r.jobs[job.Name] = &entry{job: job}
	r.logger.Info("job registered",
		slog.String("job", job.Name),
		slog.String("schedule", job.Schedule.Expression()),
		slog.String("container", job.Container),
		slog.String("key", job.Key),
	)
	return nil
}

// RunOnce executes one cycle of the named job.
func (r *Runner) RunOnce(ctx context.Context, name string) (*ports.CycleReport, error) {
	r.mu.RLock()
	e, ok := r.jobs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job %q: %w", name, domain.ErrNotFound)
	}

	if !e.running.TryLock() {
		return nil, fmt.Errorf("%w: job %q is already running", domain.ErrConflict, name)
	}
	defer e.running.Unlock()

	e.setBusy(true)
	defer e.setBusy(false)

	report := r.run(ctx, e.job)
	e.mu.Lock()
	e.last = report
	e.mu.Unlock()

	return report, report.Err
}

func (r *Runner) run(ctx context.Context, job Job) *ports.CycleReport {
	start := r.now()
	log := r.logger.With(slog.String("job", job.Name))
	report := &ports.CycleReport{Job: job.Name}

	finish := func(result string, err error) *ports.CycleReport {
		report.Duration = r.now().Sub(start)
		report.Err = err
		r.metrics.RecordCycle(ctx, job.Name, report.Duration, result)
		if err != nil {
			log.Error("job cycle failed",
				slog.String("operation", "RunOnce"),
				slog.Time("start_time", report.StartTime),
				slog.Time("end_time", report.EndTime),
				slog.Any("error", err),
			)
		}
		return report
	}

	snapshot, err := job.Schedule.At(start)
	if err != nil {
		return finish(telemetry.ResultError, err)
	}

	cycle, err := timercycle.Create(ctx, snapshot, job.Container, job.Key, r.store, log,
		timercycle.WithMaxPeriodsWithinOneCycle(job.MaxPeriods),
		timercycle.WithClock(r.now),
		timercycle.WithMetrics(r.metrics),
	)
	if err != nil {
		return finish(telemetry.ResultError, fmt.Errorf("creating cycle: %w", err))
	}
	report.StartTime = cycle.StartTime()
	report.EndTime = cycle.EndTime()
	report.Clamped = cycle.Clamped()

	if cycle.Length() == 0 {
		log.Debug("empty window, skipping work", slog.Time("watermark", cycle.StartTime()))
		return finish(telemetry.ResultSkipped, nil)
	}

	if err := job.Work(ctx, cycle); err != nil {
		return finish(telemetry.ResultError, fmt.Errorf("running work: %w", err))
	}
	if err := cycle.Complete(ctx); err != nil {
		return finish(telemetry.ResultError, fmt.Errorf("completing cycle: %w", err))
	}
	report.Completed = true

	log.Info("job cycle completed",
		slog.Time("start_time", report.StartTime),
		slog.Time("end_time", report.EndTime),
		slog.Bool("clamped", report.Clamped),
	)
	return finish(telemetry.ResultSuccess, nil)
}

// RunAll runs one cycle of every registered job with bounded concurrency
// and returns the reports sorted by job name.
func (r *Runner) RunAll(ctx context.Context) []*ports.CycleReport {
	names := r.names()
	results := fanOut(ctx, r.maxConcurrency, names, func(ctx context.Context, name string) (*ports.CycleReport, error) {
		return r.RunOnce(ctx, name)
	})

	reports := make([]*ports.CycleReport, len(names))
	for i, res := range results {
		reports[i] = res.value
		if reports[i] == nil {
			reports[i] = &ports.CycleReport{Job: names[i], Err: res.err}
		}
	}
	return reports
}

// Jobs returns the status of every registered job, sorted by name.
func (r *Runner) Jobs() []ports.JobStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.JobStatus, 0, len(r.jobs))
	for _, e := range r.jobs {
		e.mu.Lock()
		status := ports.JobStatus{
			Name:      e.job.Name,
			Schedule:  e.job.Schedule.Expression(),
			Container: e.job.Container,
			Key:       e.job.Key,
			Running:   e.busy,
		}
		if e.last != nil {
			last := *e.last
			status.LastRun = &last
		}
		e.mu.Unlock()
		out = append(out, status)
	}
	slices.SortFunc(out, func(a, b ports.JobStatus) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (r *Runner) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Start schedules every registered job on a cron scheduler. Cycles started
// by the scheduler use a context derived from ctx that Stop cancels.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return fmt.Errorf("%w: runner already started", domain.ErrConflict)
	}

	cronLog := cronLogger{logger: r.logger}
	c := cron.New(
		cron.WithParser(schedule.Parser),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)

	r.baseCtx, r.cancel = context.WithCancel(ctx)
	for name, e := range r.jobs {
		job := cron.NewChain(cron.SkipIfStillRunning(cronLog)).Then(cron.FuncJob(func() {
			// Cycle errors are logged by run and kept in the job status.
			if _, err := r.RunOnce(r.baseCtx, name); errors.Is(err, domain.ErrConflict) {
				r.logger.Info("scheduled run skipped, job already running",
					slog.String("job", name),
				)
			}
		}))
		c.Schedule(e.job.Schedule.Schedule(), job)
	}

	c.Start()
	r.cron = c
	r.logger.Info("job scheduler started", slog.Int("jobs", len(r.jobs)))
	return nil
}

// Stop halts the scheduler, cancels running cycles and waits for them to
// return or for ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	c, cancel := r.cron, r.cancel
	r.cron, r.cancel = nil, nil
	r.mu.Unlock()

	if c == nil {
		return nil
	}

	done := c.Stop()
	cancel()

	select {
	case <-done.Done():
		r.logger.Info("job scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

func (e *entry) setBusy(b bool) {
	e.mu.Lock()
	e.busy = b
	e.mu.Unlock()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.Any("error", err))...)
}
