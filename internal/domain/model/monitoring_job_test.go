package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_Valid(t *testing.T) {
	assert.True(t, JobStatusAwaitingPayment.Valid())
	assert.True(t, JobStatusRunning.Valid())
	assert.True(t, JobStatusCompleted.Valid())
	assert.True(t, JobStatusFailed.Valid())
	assert.False(t, JobStatus("queued").Valid())
	assert.False(t, JobStatus("").Valid())
}

func TestJobStatus_Terminal(t *testing.T) {
	assert.True(t, JobStatusCompleted.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.False(t, JobStatusAwaitingPayment.Terminal())
	assert.False(t, JobStatusRunning.Terminal())
}

func TestCreateMonitoringJobRequest_Validate(t *testing.T) {
	valid := CreateMonitoringJobRequest{
		PurchaserIdentifier: "1234567890123456",
		JobID:               "job-1",
		Location:            "Berlin",
		RequestText:         "Monitor air quality in Berlin: PM2.5, CO, temperature, and humidity",
	}

	tests := []struct {
		name    string
		mutate  func(*CreateMonitoringJobRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(*CreateMonitoringJobRequest) {}},
		{
			name:    "missing identifier",
			mutate:  func(r *CreateMonitoringJobRequest) { r.PurchaserIdentifier = "  " },
			wantErr: "purchaser identifier is required",
		},
		{
			name:    "missing job id",
			mutate:  func(r *CreateMonitoringJobRequest) { r.JobID = "" },
			wantErr: "job id is required",
		},
		{
			name:    "missing location",
			mutate:  func(r *CreateMonitoringJobRequest) { r.Location = "" },
			wantErr: "location is required",
		},
		{
			name:    "missing request text",
			mutate:  func(r *CreateMonitoringJobRequest) { r.RequestText = "" },
			wantErr: "request text is required",
		},
		{
			name:    "invalid status",
			mutate:  func(r *CreateMonitoringJobRequest) { r.Status = JobStatus("queued") },
			wantErr: "invalid job status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestStartJobResponse_Bundle(t *testing.T) {
	resp := StartJobResponse{
		JobID:                     "job-1",
		BlockchainIdentifier:      "bc-1",
		AgentIdentifier:           "agent-1",
		SellerVKey:                "vkey-1",
		Amounts:                   []Amount{{Amount: "10000000", Unit: "lovelace"}},
		PayByTime:                 "1700000000000",
		SubmitResultTime:          "1700001000000",
		UnlockTime:                "1700002000000",
		ExternalDisputeUnlockTime: "1700003000000",
		InputHash:                 "hash-1",
	}

	bundle := resp.Bundle()
	assert.Equal(t, "bc-1", bundle.BlockchainIdentifier)
	assert.Equal(t, "agent-1", bundle.AgentIdentifier)
	assert.Equal(t, "vkey-1", bundle.SellerVKey)
	assert.Equal(t, "hash-1", bundle.InputHash)
	require.Len(t, bundle.Amounts, 1)
	assert.Equal(t, "10000000", bundle.Amounts[0].Amount)
}

func TestNewPaymentRequest_EchoesBundleVerbatim(t *testing.T) {
	bundle := PaymentBundle{
		BlockchainIdentifier:      "bc-1",
		AgentIdentifier:           "agent-1",
		SellerVKey:                "vkey-1",
		PayByTime:                 "1700000000000",
		SubmitResultTime:          "1700001000000",
		UnlockTime:                "1700002000000",
		ExternalDisputeUnlockTime: "1700003000000",
		InputHash:                 "hash-1",
	}

	req := NewPaymentRequest("1234567890123456", "Preprod", bundle)
	assert.Equal(t, "1234567890123456", req.IdentifierFromPurchaser)
	assert.Equal(t, "Preprod", req.Network)
	assert.Equal(t, bundle.SellerVKey, req.SellerVkey)
	assert.Equal(t, bundle.BlockchainIdentifier, req.BlockchainIdentifier)
	assert.Equal(t, bundle.PayByTime, req.PayByTime)
	assert.Equal(t, bundle.SubmitResultTime, req.SubmitResultTime)
	assert.Equal(t, bundle.UnlockTime, req.UnlockTime)
	assert.Equal(t, bundle.ExternalDisputeUnlockTime, req.ExternalDisputeUnlockTime)
	assert.Equal(t, bundle.AgentIdentifier, req.AgentIdentifier)
	assert.Equal(t, bundle.InputHash, req.InputHash)
}
