// Package dto holds the admin API's JSON bodies and RFC 9457 error responses.
package dto

import (
	"time"

	"github.com/jsamuelsen11/go-job-core/internal/domain/watermark"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// ConfigResponse lists the registered configuration providers and the keys
// each one owns. Values are never included.
type ConfigResponse struct {
	Providers []string `json:"providers"`
	Keys      []string `json:"keys"`
}

// CycleResponse describes one executed job cycle. Times use the watermark
// layout.
type CycleResponse struct {
	Job       string  `json:"job"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Clamped   bool    `json:"clamped"`
	Completed bool    `json:"completed"`
	Duration  float64 `json:"duration_seconds"`
	Error     string  `json:"error,omitempty"`
}

// JobResponse is the status of one registered job.
type JobResponse struct {
	Name      string         `json:"name"`
	Schedule  string         `json:"schedule"`
	Container string         `json:"container"`
	Key       string         `json:"key"`
	Running   bool           `json:"running"`
	LastRun   *CycleResponse `json:"last_run,omitempty"`
}

// JobListResponse wraps the job list.
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// ToCycleResponse converts a cycle report. It returns nil for a nil report.
func ToCycleResponse(r *ports.CycleReport) *CycleResponse {
	if r == nil {
		return nil
	}
	resp := &CycleResponse{
		Job:       r.Job,
		StartTime: formatTime(r.StartTime),
		EndTime:   formatTime(r.EndTime),
		Clamped:   r.Clamped,
		Completed: r.Completed,
		Duration:  r.Duration.Seconds(),
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// ToJobListResponse converts job statuses, preserving order.
func ToJobListResponse(jobs []ports.JobStatus) JobListResponse {
	out := JobListResponse{Jobs: make([]JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		out.Jobs = append(out.Jobs, JobResponse{
			Name:      j.Name,
			Schedule:  j.Schedule,
			Container: j.Container,
			Key:       j.Key,
			Running:   j.Running,
			LastRun:   ToCycleResponse(j.LastRun),
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return watermark.Format(t)
}
