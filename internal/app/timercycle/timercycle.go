// Package timercycle computes the time window a periodic job processes in
// one run and persists its progress as a watermark.
//
// A cycle ends at the schedule's next occurrence and starts where the last
// completed cycle ended, as recorded by the watermark in the durable store.
// When no watermark exists, or it cannot be parsed, the cycle covers exactly
// one period. A job that has fallen behind catches up at most
// MaxPeriodsWithinOneCycle periods per cycle; the remaining backlog is
// picked up by later cycles, each starting at the previous clamped end.
//
//	cycle, err := timercycle.Create(ctx, sched, "watermarks", "rollup", store, logger)
//	if err != nil { ... }
//	process(cycle.StartTime(), cycle.EndTime())
//	if err := cycle.Complete(ctx); err != nil { ... }
package timercycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/domain/watermark"
	"github.com/jsamuelsen11/go-job-core/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// DefaultMaxPeriodsWithinOneCycle bounds catch-up when no option is given.
const DefaultMaxPeriodsWithinOneCycle = 5

// State is the lifecycle state of a cycle.
type State int

const (
	StateCreated State = iota
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures Create.
type Option func(*options)

type options struct {
	maxPeriods int
	now        func() time.Time
	metrics    *telemetry.Metrics
}

// WithMaxPeriodsWithinOneCycle sets how many periods one cycle may span.
func WithMaxPeriodsWithinOneCycle(n int) Option {
	return func(o *options) { o.maxPeriods = n }
}

// WithClock replaces time.Now for creation time and the TimeSince/TimeUntil
// accessors.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics records clamp and watermark fallback counters.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// TimerCycle is one execution window of a periodic job. The window bounds
// are fixed at creation; only the state changes afterwards.
type TimerCycle struct {
	creationTime time.Time
	startTime    time.Time
	endTime      time.Time
	period       time.Duration
	container    string
	key          string
	maxPeriods   int
	clamped      bool

	store  ports.WatermarkStore
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
}

// Create computes the next window for the job identified by container and
// key. Store errors are returned wrapped; an unparseable watermark is logged
// and replaced by the default start.
func Create(
	ctx context.Context,
	schedule ports.Schedule,
	container, key string,
	store ports.WatermarkStore,
	logger *slog.Logger,
	opts ...Option,
) (*TimerCycle, error) {
	o := options{maxPeriods: DefaultMaxPeriodsWithinOneCycle, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := validate(schedule, container, key, store, o.maxPeriods); err != nil {
		return nil, err
	}

	period := schedule.Period()
	if period <= 0 {
		return nil, fmt.Errorf("%w: schedule period must be positive, got %s", domain.ErrInvalidArgument, period)
	}

	c := &TimerCycle{
		creationTime: o.now(),
		period:       period,
		container:    container,
		key:          key,
		maxPeriods:   o.maxPeriods,
		store:        store,
		logger:       logger,
		now:          o.now,
	}
	log := logger.With(slog.String("container", container), slog.String("key", key))

	c.endTime = schedule.NextOccurrence().Truncate(watermark.Resolution)
	c.startTime = c.endTime.Add(-period).Truncate(watermark.Resolution)

	start, ok, err := readWatermark(ctx, store, container, key)
	switch {
	case err != nil && errors.As(err, new(*watermark.ParseError)):
		log.Warn("unparseable watermark, using default start",
			slog.String("operation", "Create"),
			slog.Time("start_time", c.startTime),
			slog.Any("error", err),
		)
		o.metrics.RecordFallback(ctx, key)
	case err != nil:
		return nil, fmt.Errorf("reading watermark %s/%s: %w", container, key, err)
	case ok:
		c.startTime = start.Truncate(watermark.Resolution)
	default:
		log.Debug("no watermark, starting one period back",
			slog.Time("start_time", c.startTime),
		)
	}

	if c.startTime.After(c.endTime) {
		// Watermark ahead of the schedule: nothing to process yet.
		log.Warn("watermark is after the next occurrence, window is empty",
			slog.Time("watermark", c.startTime),
			slog.Time("next_occurrence", c.endTime),
		)
		c.endTime = c.startTime
	}

	maxLength := catchUpLimit(period, c.maxPeriods)
	if c.endTime.Sub(c.startTime) > maxLength {
		log.Info("cycle clamped to catch-up limit",
			slog.Time("start_time", c.startTime),
			slog.Time("unclamped_end_time", c.endTime),
			slog.Int("max_periods", c.maxPeriods),
		)
		c.endTime = c.startTime.Add(maxLength).Truncate(watermark.Resolution)
		c.clamped = true
		o.metrics.RecordClamped(ctx, key)
	}

	log.Debug("cycle created",
		slog.Time("start_time", c.startTime),
		slog.Time("end_time", c.endTime),
		slog.Duration("length", c.Length()),
	)
	return c, nil
}

// catchUpLimit returns period * maxPeriods, saturating at the largest
// representable duration.
func catchUpLimit(period time.Duration, maxPeriods int) time.Duration {
	if int64(maxPeriods) > math.MaxInt64/int64(period) {
		return time.Duration(math.MaxInt64)
	}
	return period * time.Duration(maxPeriods)
}

func validate(schedule ports.Schedule, container, key string, store ports.WatermarkStore, maxPeriods int) error {
	var errs []error
	if schedule == nil {
		errs = append(errs, errors.New("schedule must not be nil"))
	}
	if store == nil {
		errs = append(errs, errors.New("watermark store must not be nil"))
	}
	if container == "" {
		errs = append(errs, errors.New("container must not be empty"))
	}
	if key == "" {
		errs = append(errs, errors.New("key must not be empty"))
	}
	if maxPeriods < 1 {
		errs = append(errs, fmt.Errorf("max periods must be at least 1, got %d", maxPeriods))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	return nil
}

// readWatermark returns the stored watermark. ok is false when none exists.
func readWatermark(ctx context.Context, store ports.WatermarkStore, container, key string) (time.Time, bool, error) {
	exists, err := store.Exists(ctx, container, key)
	if err != nil || !exists {
		return time.Time{}, false, err
	}

	contents, err := store.Read(ctx, container, key)
	if errors.Is(err, domain.ErrNotFound) {
		// Removed between Exists and Read.
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	t, err := watermark.Parse(contents)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Complete persists EndTime as the job's watermark and marks the cycle
// completed. A failed write leaves the cycle in StateCreated so the caller
// may retry. Completing twice returns domain.ErrConflict.
func (c *TimerCycle) Complete(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCompleted {
		return fmt.Errorf("%w: cycle %s/%s already completed", domain.ErrConflict, c.container, c.key)
	}

	if err := c.store.Write(ctx, c.container, c.key, watermark.Format(c.endTime)); err != nil {
		c.logger.Error("failed to write watermark",
			slog.String("operation", "Complete"),
			slog.String("container", c.container),
			slog.String("key", c.key),
			slog.Any("error", err),
		)
		return fmt.Errorf("writing watermark %s/%s: %w", c.container, c.key, err)
	}

	c.state = StateCompleted
	c.logger.Debug("cycle completed",
		slog.String("container", c.container),
		slog.String("key", c.key),
		slog.Time("watermark", c.endTime),
	)
	return nil
}

// State reports whether the cycle has been completed.
func (c *TimerCycle) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *TimerCycle) CreationTime() time.Time       { return c.creationTime }
func (c *TimerCycle) StartTime() time.Time          { return c.startTime }
func (c *TimerCycle) EndTime() time.Time            { return c.endTime }
func (c *TimerCycle) Period() time.Duration         { return c.period }
func (c *TimerCycle) Container() string             { return c.container }
func (c *TimerCycle) Key() string                   { return c.key }
func (c *TimerCycle) MaxPeriodsWithinOneCycle() int { return c.maxPeriods }

// Clamped reports whether the window was shortened to the catch-up limit.
func (c *TimerCycle) Clamped() bool { return c.clamped }

// Length is EndTime minus StartTime.
func (c *TimerCycle) Length() time.Duration { return c.endTime.Sub(c.startTime) }

// TimeSinceCreation is evaluated against the clock at call time.
func (c *TimerCycle) TimeSinceCreation() time.Duration { return c.now().Sub(c.creationTime) }

// TimeSinceStart is evaluated against the clock at call time.
func (c *TimerCycle) TimeSinceStart() time.Duration { return c.now().Sub(c.startTime) }

// TimeUntilEnd is negative once EndTime has passed.
func (c *TimerCycle) TimeUntilEnd() time.Duration { return c.endTime.Sub(c.now()) }
