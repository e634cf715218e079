package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/domain/model"
	"github.com/clearskies/climatewatch/internal/util"
)

const defaultJobListLimit = 20

// JobHandlers provides read-only HTTP handlers over persisted monitoring jobs.
type JobHandlers struct {
	Repo core.MonitoringJobRepository
}

// jobView is the API shape of a stored job, with display-friendly amounts.
type jobView struct {
	*model.MonitoringJob
	DisplayAmounts []string `json:"display_amounts,omitempty"`
}

func newJobView(job *model.MonitoringJob) jobView {
	view := jobView{MonitoringJob: job}
	for _, a := range job.Amounts {
		view.DisplayAmounts = append(view.DisplayAmounts, util.FormatAmount(a.Amount, a.Unit))
	}
	return view
}

// ListJobs handles HTTP requests to list recently created jobs.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultJobListLimit)

	jobs, err := h.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, newJobView(job))
	}
	WriteJSON(w, http.StatusOK, views)
}

// GetJob handles HTTP requests to fetch one job by its agent-assigned id.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobID")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("job id is required")})
		return
	}

	job, err := h.Repo.GetByJobID(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, newJobView(job))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("GET /api/jobs", h.ListJobs)
	mux.HandleFunc("GET /api/jobs/{jobID}", h.GetJob)
}

// parseIntQuery returns the integer query parameter or the fallback when the
// parameter is absent or malformed.
func parseIntQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
