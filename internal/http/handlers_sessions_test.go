package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/domain/model"
	"github.com/clearskies/climatewatch/internal/domain/session"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/mocks"
	"github.com/clearskies/climatewatch/internal/service"
	"github.com/clearskies/climatewatch/internal/testutil"
)

const testIdentifier = "1234567890123456"

type sessionFixture struct {
	handlers *SessionHandlers
	jobs     *mocks.MockMonitoringJobRepository
	agent    *mocks.MockProcessingClient
	payments *mocks.MockPaymentClient
}

func newSessionFixture(t *testing.T) sessionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := sessionFixture{
		jobs:     mocks.NewMockMonitoringJobRepository(ctrl),
		agent:    mocks.NewMockProcessingClient(ctrl),
		payments: mocks.NewMockPaymentClient(ctrl),
	}

	cfg := config.MonitorConfig{
		PollInterval:     time.Millisecond,
		MaxPollAttempts:  3,
		StartLockTTL:     time.Second,
		SessionRetention: time.Hour,
	}
	monitor, err := service.NewMonitorService(service.MonitorServiceOptions{
		Jobs:     f.jobs,
		Agent:    f.agent,
		Payments: f.payments,
		Network:  "Preprod",
		Config:   cfg,
	})
	require.NoError(t, err)

	sessions, err := service.NewSessionService(service.SessionServiceOptions{
		Monitor: monitor,
		Config:  cfg,
	})
	require.NoError(t, err)

	f.handlers = &SessionHandlers{Svc: sessions}
	return f
}

func unpaidJob() *model.MonitoringJob {
	req := testutil.NewMonitoringJob().WithIdentifier(testIdentifier).WithJobID("job-1").Build()
	return &model.MonitoringJob{
		ID:                  "rec-1",
		PurchaserIdentifier: req.PurchaserIdentifier,
		JobID:               req.JobID,
		Location:            req.Location,
		RequestText:         req.RequestText,
		Status:              model.JobStatusAwaitingPayment,
		PaymentBundle:       req.Bundle,
		CreatedAt:           time.Now(),
	}
}

func TestStartSession_Success(t *testing.T) {
	f := newSessionFixture(t)
	f.jobs.EXPECT().FindLatestByIdentifier(gomock.Any(), testIdentifier).Return(unpaidJob(), nil)

	body := `{"identifier":"` + testIdentifier + `","location":"Berlin"}`
	r := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handlers.StartSession(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view service.SessionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	assert.NotEmpty(t, view.ID)
	assert.True(t, view.Resumed)
	require.NotNil(t, view.Job)
	assert.Equal(t, "job-1", view.Job.JobID)
	assert.NotEmpty(t, view.Job.BlockchainIdentifier)
}

func TestStartSession_InvalidJSON(t *testing.T) {
	f := newSessionFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader([]byte("{")))
	w := httptest.NewRecorder()

	f.handlers.StartSession(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartSession_ValidationError(t *testing.T) {
	f := newSessionFixture(t)

	body := `{"identifier":"nope","location":"Berlin"}`
	r := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()

	f.handlers.StartSession(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, string(apperrors.ErrCodeValidation), errBody["error"])
}

func TestGetSession_NotFound(t *testing.T) {
	f := newSessionFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/api/sessions/missing", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	f.handlers.GetSession(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmPayment_Flow(t *testing.T) {
	f := newSessionFixture(t)
	job := unpaidJob()
	paid := unpaidJob()
	paid.AmountPaid = true
	now := time.Now()
	paid.PaidAt = &now
	done := &model.JobStatusResponse{JobID: job.JobID, Status: model.JobStatusCompleted, Result: `{"674":{"agent_id":"a1"}}`}

	f.jobs.EXPECT().FindLatestByIdentifier(gomock.Any(), testIdentifier).Return(job, nil)
	f.jobs.EXPECT().GetByJobID(gomock.Any(), job.JobID).Return(job, nil)
	f.payments.EXPECT().SubmitPayment(gomock.Any(), gomock.Any()).Return(nil)
	f.jobs.EXPECT().PatchPayment(gomock.Any(), gomock.Any()).Return(paid, nil)
	f.agent.EXPECT().GetStatus(gomock.Any(), job.JobID).Return(done, nil).AnyTimes()

	body := `{"identifier":"` + testIdentifier + `","location":"Berlin"}`
	r := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	w := httptest.NewRecorder()
	f.handlers.StartSession(w, r)
	require.Equal(t, http.StatusCreated, w.Code)

	var started service.SessionView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&started))

	require.Eventually(t, func() bool {
		v, err := f.handlers.Svc.Get(started.ID)
		return err == nil && v.State == session.StateAwaitingPayment
	}, 2*time.Second, 5*time.Millisecond)

	r = httptest.NewRequest(http.MethodPost, "/api/sessions/"+started.ID+"/payment", nil)
	r.SetPathValue("id", started.ID)
	w = httptest.NewRecorder()
	f.handlers.ConfirmPayment(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var confirmed service.SessionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&confirmed))
	require.NotNil(t, confirmed.Job)
	assert.True(t, confirmed.Job.AmountPaid)

	// Let the session settle so no mock call outlives the test.
	require.Eventually(t, func() bool {
		v, err := f.handlers.Svc.Get(started.ID)
		return err == nil && v.State.Terminal()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestConfirmPayment_UnknownSession(t *testing.T) {
	f := newSessionFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/api/sessions/missing/payment", nil)
	r.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	f.handlers.ConfirmPayment(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
