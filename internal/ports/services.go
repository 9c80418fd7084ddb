package ports

import (
	"context"
	"time"
)

// ConfigurationDiagnostics exposes the troubleshooting projections of the
// configuration service. Implemented by the application layer; called by the
// admin HTTP handlers. Entries carry provider ids and key names only, never
// values.
type ConfigurationDiagnostics interface {
	// ProviderList returns one entry per registered provider, in
	// registration order.
	ProviderList() ([]string, error)

	// Keys returns every key of every provider prefixed with its provider id.
	Keys() ([]string, error)
}

// JobRunner defines the service port for periodic job execution.
// Implemented by the application layer; called by inbound adapters.
type JobRunner interface {
	// Jobs returns the status of every registered job, sorted by name.
	Jobs() []JobStatus

	// RunOnce executes one cycle of the named job immediately.
	// Returns domain.ErrNotFound if no job has that name and
	// domain.ErrConflict if a cycle of the job is already running.
	RunOnce(ctx context.Context, name string) (*CycleReport, error)
}

// CycleReport describes one executed cycle.
type CycleReport struct {
	Job       string
	StartTime time.Time
	EndTime   time.Time
	Clamped   bool
	Completed bool
	Duration  time.Duration
	Err       error
}

// JobStatus is the observable state of a registered job.
type JobStatus struct {
	Name      string
	Schedule  string
	Container string
	Key       string
	Running   bool
	LastRun   *CycleReport
}
