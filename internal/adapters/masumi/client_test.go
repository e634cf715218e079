package masumi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/climatewatch/internal/domain/model"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/testutil"
)

func TestAgentClient_StartJob(t *testing.T) {
	want := testutil.NewStartJobResponse().WithJobID("job-42").Build()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/start_job", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req model.StartJobRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1234567890123456", req.IdentifierFromPurchaser)
		assert.Contains(t, req.InputData.Text, "air quality")

		require.NoError(t, json.NewEncoder(w).Encode(want))
	}))
	defer srv.Close()

	client, err := NewAgentClient(AgentConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := client.StartJob(context.Background(), model.StartJobRequest{
		IdentifierFromPurchaser: "1234567890123456",
		InputData:               model.StartJobInput{Text: "Monitor air quality in Berlin: PM2.5, CO, temperature, and humidity"},
	})
	require.NoError(t, err)
	assert.Equal(t, "job-42", resp.JobID)
	assert.Equal(t, want.Bundle(), resp.Bundle())
}

func TestAgentClient_StartJob_MissingJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	client, err := NewAgentClient(AgentConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.StartJob(context.Background(), model.StartJobRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsProtocol(err))
}

func TestAgentClient_StartJob_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewAgentClient(AgentConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.StartJob(context.Background(), model.StartJobRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsCollaborator(err))
	assert.Contains(t, err.Error(), "502")
}

func TestAgentClient_GetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		assert.Equal(t, "job-42", r.URL.Query().Get("job_id"))
		_, _ = w.Write([]byte(`{"job_id":"job-42","status":"running","payment_status":"completed"}`))
	}))
	defer srv.Close()

	client, err := NewAgentClient(AgentConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	status, err := client.GetStatus(context.Background(), "job-42")
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusRunning, status.Status)
	assert.Equal(t, model.PaymentStatusCompleted, status.PaymentStatus)
}

func TestAgentClient_GetStatus_EmptyJobID(t *testing.T) {
	client, err := NewAgentClient(AgentConfig{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = client.GetStatus(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAgentClient_GetStatus_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client, err := NewAgentClient(AgentConfig{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.GetStatus(context.Background(), "job-42")
	require.Error(t, err)
	assert.True(t, apperrors.IsProtocol(err))
}

func TestNewAgentClient_RequiresBaseURL(t *testing.T) {
	_, err := NewAgentClient(AgentConfig{})
	assert.Error(t, err)
}

func TestPaymentClient_SubmitPayment(t *testing.T) {
	var got model.PaymentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.Header.Get("token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	client, err := NewPaymentClient(PaymentConfig{URL: srv.URL, APIKey: "secret-key"})
	require.NoError(t, err)

	bundle := testutil.NewStartJobResponse().Build().Bundle()
	req := model.NewPaymentRequest("1234567890123456", "Preprod", bundle)
	require.NoError(t, client.SubmitPayment(context.Background(), req))

	// Bundle fields arrive verbatim.
	assert.Equal(t, req, got)
	assert.Equal(t, "Preprod", got.Network)
	assert.Equal(t, bundle.BlockchainIdentifier, got.BlockchainIdentifier)
}

func TestPaymentClient_SubmitPayment_MissingFields(t *testing.T) {
	client, err := NewPaymentClient(PaymentConfig{URL: "http://localhost:1", APIKey: "k"})
	require.NoError(t, err)

	err = client.SubmitPayment(context.Background(), model.PaymentRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPaymentClient_SubmitPayment_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"insufficient funds"}`, http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client, err := NewPaymentClient(PaymentConfig{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	bundle := testutil.NewStartJobResponse().Build().Bundle()
	err = client.SubmitPayment(context.Background(), model.NewPaymentRequest("1234567890123456", "Preprod", bundle))
	require.Error(t, err)
	assert.True(t, apperrors.IsCollaborator(err))
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestNewPaymentClient_RequiresConfig(t *testing.T) {
	_, err := NewPaymentClient(PaymentConfig{URL: "http://x"})
	assert.Error(t, err)
	_, err = NewPaymentClient(PaymentConfig{APIKey: "k"})
	assert.Error(t, err)
}
