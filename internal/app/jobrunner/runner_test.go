package jobrunner_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/configprovider"
	"github.com/jsamuelsen11/go-job-core/internal/adapters/schedule"
	"github.com/jsamuelsen11/go-job-core/internal/adapters/watermarkstore"
	"github.com/jsamuelsen11/go-job-core/internal/app/configuration"
	"github.com/jsamuelsen11/go-job-core/internal/app/jobrunner"
	"github.com/jsamuelsen11/go-job-core/internal/app/timercycle"
	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/domain/watermark"
	"github.com/jsamuelsen11/go-job-core/internal/platform/config"
)

var now = time.Date(2024, 3, 1, 10, 0, 30, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func everyMinute(t *testing.T) *schedule.Cron {
	t.Helper()
	c, err := schedule.ParseCron("* * * * *")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newJob(t *testing.T, name string, work jobrunner.WorkFunc) jobrunner.Job {
	t.Helper()
	return jobrunner.Job{
		Name:       name,
		Schedule:   everyMinute(t),
		Container:  "wm",
		Key:        name,
		MaxPeriods: 5,
		Work:       work,
	}
}

func noop(context.Context, *timercycle.TimerCycle) error { return nil }

func newRunner(store *watermarkstore.Memory) *jobrunner.Runner {
	return jobrunner.New(store, discard(), jobrunner.WithClock(func() time.Time { return now }))
}

func TestRunOnce_AdvancesWatermark(t *testing.T) {
	t.Parallel()

	store := watermarkstore.NewMemory()
	r := newRunner(store)

	var window [2]time.Time
	if err := r.Register(newJob(t, "rollup", func(_ context.Context, c *timercycle.TimerCycle) error {
		window = [2]time.Time{c.StartTime(), c.EndTime()}
		return nil
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.RunOnce(t.Context(), "rollup")
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	wantStart := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC)
	if !window[0].Equal(wantStart) || !window[1].Equal(wantEnd) {
		t.Errorf("work window = %v, want [%v, %v]", window, wantStart, wantEnd)
	}
	if !report.Completed || report.Clamped {
		t.Errorf("report = %+v, want completed and not clamped", report)
	}

	got, err := store.Read(t.Context(), "wm", "rollup")
	if err != nil {
		t.Fatal(err)
	}
	if got != watermark.Format(wantEnd) {
		t.Errorf("stored watermark = %q, want %q", got, watermark.Format(wantEnd))
	}
}

func TestRunOnce_WorkFailureKeepsWatermark(t *testing.T) {
	t.Parallel()

	store := watermarkstore.NewMemory()
	r := newRunner(store)

	workErr := errors.New("downstream rejected batch")
	if err := r.Register(newJob(t, "rollup", func(context.Context, *timercycle.TimerCycle) error {
		return workErr
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.RunOnce(t.Context(), "rollup")
	if !errors.Is(err, workErr) {
		t.Fatalf("RunOnce() error = %v, want %v", err, workErr)
	}
	if report.Completed {
		t.Error("report.Completed = true after work failure")
	}
	if exists, _ := store.Exists(t.Context(), "wm", "rollup"); exists {
		t.Error("watermark written after work failure")
	}

	status := r.Jobs()[0]
	if status.LastRun == nil || !errors.Is(status.LastRun.Err, workErr) {
		t.Errorf("LastRun = %+v, want failed report", status.LastRun)
	}
}

func TestRunOnce_EmptyWindowSkipsWork(t *testing.T) {
	t.Parallel()

	store := watermarkstore.NewMemory()
	next := time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC)
	if err := store.Write(t.Context(), "wm", "rollup", watermark.Format(next)); err != nil {
		t.Fatal(err)
	}

	r := newRunner(store)
	var called atomic.Bool
	if err := r.Register(newJob(t, "rollup", func(context.Context, *timercycle.TimerCycle) error {
		called.Store(true)
		return nil
	})); err != nil {
		t.Fatal(err)
	}

	report, err := r.RunOnce(t.Context(), "rollup")
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if called.Load() {
		t.Error("work called for an empty window")
	}
	if report.Completed {
		t.Error("report.Completed = true for an empty window")
	}
}

func TestRunOnce_UnknownJob(t *testing.T) {
	t.Parallel()

	_, err := newRunner(watermarkstore.NewMemory()).RunOnce(t.Context(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("RunOnce(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRunOnce_ConcurrentRunRejected(t *testing.T) {
	t.Parallel()

	r := newRunner(watermarkstore.NewMemory())
	started := make(chan struct{})
	release := make(chan struct{})
	if err := r.Register(newJob(t, "slow", func(context.Context, *timercycle.TimerCycle) error {
		close(started)
		<-release
		return nil
	})); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.RunOnce(context.Background(), "slow")
		done <- err
	}()
	<-started

	if !r.Jobs()[0].Running {
		t.Error("Jobs()[0].Running = false while a cycle is in flight")
	}
	if _, err := r.RunOnce(t.Context(), "slow"); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second RunOnce() error = %v, want ErrConflict", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first RunOnce() error = %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	r := newRunner(watermarkstore.NewMemory())
	if err := r.Register(newJob(t, "a", noop)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(newJob(t, "a", noop)); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("duplicate Register() error = %v, want ErrConflict", err)
	}

	bad := newJob(t, "b", nil)
	bad.MaxPeriods = 0
	err := r.Register(bad)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Register(invalid) error = %v, want ErrInvalidArgument", err)
	}
	for _, want := range []string{"work must not be nil", "max periods"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestRunAll_SortedReports(t *testing.T) {
	t.Parallel()

	store := watermarkstore.NewMemory()
	r := newRunner(store)
	boom := errors.New("boom")
	for _, name := range []string{"c", "a", "b"} {
		work := noop
		if name == "b" {
			work = func(context.Context, *timercycle.TimerCycle) error { return boom }
		}
		if err := r.Register(newJob(t, name, work)); err != nil {
			t.Fatal(err)
		}
	}

	reports := r.RunAll(t.Context())
	if len(reports) != 3 {
		t.Fatalf("len(reports) = %d, want 3", len(reports))
	}
	for i, want := range []string{"a", "b", "c"} {
		if reports[i].Job != want {
			t.Errorf("reports[%d].Job = %q, want %q", i, reports[i].Job, want)
		}
	}
	if !errors.Is(reports[1].Err, boom) || reports[0].Err != nil || reports[2].Err != nil {
		t.Errorf("report errors = [%v %v %v], want only b to fail", reports[0].Err, reports[1].Err, reports[2].Err)
	}
}

func TestRunAll_CanceledContext(t *testing.T) {
	t.Parallel()

	r := jobrunner.New(watermarkstore.NewMemory(), discard(), jobrunner.WithMaxConcurrency(1),
		jobrunner.WithClock(func() time.Time { return now }))
	honorCancel := func(ctx context.Context, _ *timercycle.TimerCycle) error { return ctx.Err() }
	for _, name := range []string{"a", "b"} {
		if err := r.Register(newJob(t, name, honorCancel)); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	for _, rep := range r.RunAll(ctx) {
		if rep == nil || rep.Err == nil {
			t.Errorf("report = %+v, want an error for a canceled context", rep)
		}
	}
}

func TestJobs_Status(t *testing.T) {
	t.Parallel()

	r := newRunner(watermarkstore.NewMemory())
	if err := r.Register(newJob(t, "b", noop)); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(newJob(t, "a", noop)); err != nil {
		t.Fatal(err)
	}

	jobs := r.Jobs()
	if len(jobs) != 2 || jobs[0].Name != "a" || jobs[1].Name != "b" {
		t.Fatalf("Jobs() = %+v, want sorted a, b", jobs)
	}
	if jobs[0].Schedule != "* * * * *" || jobs[0].Container != "wm" || jobs[0].LastRun != nil {
		t.Errorf("Jobs()[0] = %+v", jobs[0])
	}
}

func TestStartStop_RunsScheduledJobs(t *testing.T) {
	t.Parallel()

	sched, err := schedule.ParseCron("@every 1s")
	if err != nil {
		t.Fatal(err)
	}

	var runs atomic.Int32
	r := jobrunner.New(watermarkstore.NewMemory(), discard())
	if err := r.Register(jobrunner.Job{
		Name: "tick", Schedule: sched, Container: "wm", Key: "tick", MaxPeriods: 5,
		Work: func(context.Context, *timercycle.TimerCycle) error {
			runs.Add(1)
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Start(t.Context()); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second Start() error = %v, want ErrConflict", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if runs.Load() == 0 {
		t.Error("scheduled job never ran")
	}
	if err := r.Stop(ctx); err != nil {
		t.Errorf("second Stop() error = %v, want nil", err)
	}
}

// syncBuffer is a bytes.Buffer safe for the scheduler's goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_LogsTriggerSkippedByManualRun(t *testing.T) {
	t.Parallel()

	sched, err := schedule.ParseCron("@every 1s")
	if err != nil {
		t.Fatal(err)
	}

	var logs syncBuffer
	r := jobrunner.New(watermarkstore.NewMemory(), slog.New(slog.NewTextHandler(&logs, nil)))

	started := make(chan struct{})
	release := make(chan struct{})
	var first sync.Once
	if err := r.Register(jobrunner.Job{
		Name: "manual", Schedule: sched, Container: "wm", Key: "manual", MaxPeriods: 5,
		Work: func(context.Context, *timercycle.TimerCycle) error {
			first.Do(func() {
				close(started)
				<-release
			})
			return nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.RunOnce(context.Background(), "manual")
		done <- err
	}()
	<-started

	if err := r.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(logs.String(), "scheduled run skipped") && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	close(release)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("manual RunOnce() error = %v", err)
	}

	out := logs.String()
	if !strings.Contains(out, "scheduled run skipped") || !strings.Contains(out, "job=manual") {
		t.Errorf("logs = %q, want a skipped-trigger entry naming the job", out)
	}
}

func TestWindowLog_ReadsLabel(t *testing.T) {
	t.Parallel()

	b := configuration.NewBuilder()
	if err := b.AddProvider(configprovider.NewMemory("settings", map[string]string{
		"jobs.rollup.label": "hourly rollup",
	})); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	r := newRunner(watermarkstore.NewMemory())
	if err := r.Register(newJob(t, "rollup", jobrunner.WindowLog("rollup", b.Build(), logger))); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RunOnce(t.Context(), "rollup"); err != nil {
		t.Fatal(err)
	}

	out := logs.String()
	if !strings.Contains(out, `label="hourly rollup"`) || !strings.Contains(out, "processing window") {
		t.Errorf("log output = %q, want window entry with label", out)
	}
}

func TestJobs_FromConfig(t *testing.T) {
	t.Parallel()

	works := map[string]jobrunner.WorkFactory{
		"noop": func(string) jobrunner.WorkFunc { return noop },
	}
	defs := []config.JobConfig{
		{Name: "a", Schedule: "*/5 * * * *", Container: "wm", Key: "a", MaxPeriods: 3, Enabled: true, Work: "noop"},
		{Name: "off", Schedule: "* * * * *", Container: "wm", Key: "off", MaxPeriods: 1, Enabled: false, Work: "noop"},
	}

	jobs, err := jobrunner.Jobs(defs, works, discard())
	if err != nil {
		t.Fatalf("Jobs() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].Name != "a" || jobs[0].MaxPeriods != 3 {
		t.Errorf("Jobs() = %+v, want only enabled job a", jobs)
	}

	defs = append(defs,
		config.JobConfig{Name: "bad-cron", Schedule: "nope", Enabled: true, Work: "noop"},
		config.JobConfig{Name: "bad-work", Schedule: "@hourly", Enabled: true, Work: "missing"},
	)
	_, err = jobrunner.Jobs(defs, works, discard())
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("Jobs() error = %v, want ErrInvalidArgument", err)
	}
	for _, want := range []string{`"bad-cron"`, `"bad-work"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %s", err, want)
		}
	}
}
