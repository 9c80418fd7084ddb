package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-job-core/internal/platform/logging"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// JobsHandler lists registered jobs and triggers manual cycles.
type JobsHandler struct {
	runner ports.JobRunner
}

// NewJobsHandler creates a JobsHandler.
func NewJobsHandler(runner ports.JobRunner) *JobsHandler {
	return &JobsHandler{runner: runner}
}

// List handles GET /api/v1/jobs.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ToJobListResponse(h.runner.Jobs()))
}

// Run handles POST /api/v1/jobs/{name}/run. Unknown jobs answer 404 and a
// job that is already running answers 409. When the cycle itself fails the
// cycle report is still returned, with the status mapped from its error.
func (h *JobsHandler) Run(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	report, err := h.runner.RunOnce(r.Context(), name)
	if report == nil {
		if err == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		dto.WriteErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if err != nil {
		status = dto.StatusFor(err)
		logging.FromContext(r.Context()).WarnContext(r.Context(), "manual job cycle failed",
			slog.String("operation", "RunJob"),
			slog.String("job", name),
			slog.Any("error", err),
		)
	}
	writeJSON(w, r, status, dto.ToCycleResponse(report))
}
