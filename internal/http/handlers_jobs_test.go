package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clearskies/climatewatch/internal/domain/model"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/mocks"
)

func TestListJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonitoringJobRepository(ctrl)
	h := &JobHandlers{Repo: repo}

	jobs := []*model.MonitoringJob{unpaidJob()}
	jobs[0].Amounts = []model.Amount{{Amount: "3000000", Unit: "lovelace"}}
	repo.EXPECT().ListRecent(gomock.Any(), 20).Return(jobs, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs", nil)
	w := httptest.NewRecorder()
	h.ListJobs(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "job-1", got[0]["job_id"])
	assert.Equal(t, []any{"3.00 ADA"}, got[0]["display_amounts"])
}

func TestListJobs_CustomLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonitoringJobRepository(ctrl)
	h := &JobHandlers{Repo: repo}

	repo.EXPECT().ListRecent(gomock.Any(), 5).Return(nil, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs?limit=5", nil)
	w := httptest.NewRecorder()
	h.ListJobs(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestGetJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonitoringJobRepository(ctrl)
	h := &JobHandlers{Repo: repo}

	repo.EXPECT().GetByJobID(gomock.Any(), "job-1").Return(unpaidJob(), nil)

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	r.SetPathValue("jobID", "job-1")
	w := httptest.NewRecorder()
	h.GetJob(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "job-1", got["job_id"])
}

func TestGetJob_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMonitoringJobRepository(ctrl)
	h := &JobHandlers{Repo: repo}

	repo.EXPECT().GetByJobID(gomock.Any(), "missing").
		Return(nil, apperrors.NotFound("monitoring job not found"))

	r := httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil)
	r.SetPathValue("jobID", "missing")
	w := httptest.NewRecorder()
	h.GetJob(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseIntQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "absent", url: "/api/jobs", want: 20},
		{name: "valid", url: "/api/jobs?limit=7", want: 7},
		{name: "malformed", url: "/api/jobs?limit=abc", want: 20},
		{name: "non-positive", url: "/api/jobs?limit=0", want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			assert.Equal(t, tt.want, parseIntQuery(r, "limit", 20))
		})
	}
}
