// Package schedule provides ports.Schedule implementations: a fixed
// snapshot and cron expressions parsed with robfig/cron.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

var (
	_ ports.Schedule = Fixed{}
	_ ports.Schedule = (*Cron)(nil)
)

// Parser accepts standard five-field expressions and descriptors such as
// "@hourly" and "@every 90s".
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Fixed is a schedule snapshot with a known period and next occurrence.
type Fixed struct {
	period time.Duration
	next   time.Time
}

// NewFixed returns a snapshot schedule.
func NewFixed(period time.Duration, next time.Time) Fixed {
	return Fixed{period: period, next: next}
}

func (f Fixed) Period() time.Duration     { return f.period }
func (f Fixed) NextOccurrence() time.Time { return f.next }

// Cron is a schedule defined by a cron expression. Period and
// NextOccurrence are evaluated against the clock at call time; use At for a
// consistent pair.
type Cron struct {
	expr  string
	sched cron.Schedule
	now   func() time.Time
}

// ParseCron parses expr with Parser.
func ParseCron(expr string) (*Cron, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: cron expression must not be empty", domain.ErrInvalidArgument)
	}
	sched, err := Parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing cron expression %q: %w", domain.ErrInvalidArgument, expr, err)
	}
	return &Cron{expr: expr, sched: sched, now: time.Now}, nil
}

// WithClock returns a copy of c that reads the time from now.
func (c *Cron) WithClock(now func() time.Time) *Cron {
	cp := *c
	cp.now = now
	return &cp
}

// Expression returns the source expression.
func (c *Cron) Expression() string { return c.expr }

// Schedule exposes the parsed schedule for cron.Cron registration.
func (c *Cron) Schedule() cron.Schedule { return c.sched }

// At returns the snapshot seen by an invocation at now. The period is the
// gap between the next occurrence and the one after it.
func (c *Cron) At(now time.Time) (Fixed, error) {
	next := c.sched.Next(now)
	if next.IsZero() {
		return Fixed{}, errNoOccurrence(c.expr)
	}
	after := c.sched.Next(next)
	if after.IsZero() {
		return Fixed{}, errNoOccurrence(c.expr)
	}
	return NewFixed(after.Sub(next), next), nil
}

func (c *Cron) Period() time.Duration {
	f, err := c.At(c.now())
	if err != nil {
		return 0
	}
	return f.Period()
}

func (c *Cron) NextOccurrence() time.Time {
	return c.sched.Next(c.now())
}

func errNoOccurrence(expr string) error {
	return fmt.Errorf("%w: cron expression %q has no upcoming occurrence", domain.ErrInvalidArgument, expr)
}
