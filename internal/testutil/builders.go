package testutil

import (
	"fmt"
	"math/rand/v2"

	"github.com/clearskies/climatewatch/internal/domain/model"
)

// MonitoringJobBuilder provides a fluent interface for building
// CreateMonitoringJobRequest objects for testing.
type MonitoringJobBuilder struct {
	req *model.CreateMonitoringJobRequest
}

// NewMonitoringJob creates a MonitoringJobBuilder with sensible defaults.
func NewMonitoringJob() *MonitoringJobBuilder {
	return &MonitoringJobBuilder{
		req: &model.CreateMonitoringJobRequest{
			PurchaserIdentifier: "1234567890123456",
			JobID:               fmt.Sprintf("job-%08d", rand.IntN(100000000)),
			Location:            "Berlin",
			RequestText:         "Monitor air quality in Berlin: PM2.5, CO, temperature, and humidity",
			Bundle: model.PaymentBundle{
				BlockchainIdentifier:      "bc-test-1",
				AgentIdentifier:           "agent-test-1",
				SellerVKey:                "vkey-test",
				Amounts:                   []model.Amount{{Amount: "3000000", Unit: "lovelace"}},
				PayByTime:                 "1767225600000",
				SubmitResultTime:          "1767229200000",
				UnlockTime:                "1767232800000",
				ExternalDisputeUnlockTime: "1767236400000",
				InputHash:                 "deadbeef",
			},
		},
	}
}

// WithIdentifier sets the purchaser identifier.
func (b *MonitoringJobBuilder) WithIdentifier(id string) *MonitoringJobBuilder {
	b.req.PurchaserIdentifier = id
	return b
}

// WithJobID sets the agent-assigned job id.
func (b *MonitoringJobBuilder) WithJobID(jobID string) *MonitoringJobBuilder {
	b.req.JobID = jobID
	return b
}

// WithLocation sets the location.
func (b *MonitoringJobBuilder) WithLocation(loc string) *MonitoringJobBuilder {
	b.req.Location = loc
	return b
}

// WithRequestText sets the request text.
func (b *MonitoringJobBuilder) WithRequestText(text string) *MonitoringJobBuilder {
	b.req.RequestText = text
	return b
}

// WithStatus sets the initial job status.
func (b *MonitoringJobBuilder) WithStatus(status model.JobStatus) *MonitoringJobBuilder {
	b.req.Status = status
	return b
}

// WithBundle replaces the payment bundle.
func (b *MonitoringJobBuilder) WithBundle(bundle model.PaymentBundle) *MonitoringJobBuilder {
	b.req.Bundle = bundle
	return b
}

// WithPayByTime sets the bundle's pay_by_time.
func (b *MonitoringJobBuilder) WithPayByTime(t string) *MonitoringJobBuilder {
	b.req.Bundle.PayByTime = t
	return b
}

// Build returns the constructed request.
func (b *MonitoringJobBuilder) Build() *model.CreateMonitoringJobRequest {
	req := *b.req
	return &req
}

// StartJobResponseBuilder builds agent StartJobResponse payloads for testing.
type StartJobResponseBuilder struct {
	resp *model.StartJobResponse
}

// NewStartJobResponse creates a StartJobResponseBuilder with sensible defaults.
func NewStartJobResponse() *StartJobResponseBuilder {
	return &StartJobResponseBuilder{
		resp: &model.StartJobResponse{
			Status:                    "success",
			JobID:                     fmt.Sprintf("job-%08d", rand.IntN(100000000)),
			BlockchainIdentifier:      "bc-test-1",
			PayByTime:                 "1767225600000",
			SubmitResultTime:          "1767229200000",
			UnlockTime:                "1767232800000",
			ExternalDisputeUnlockTime: "1767236400000",
			AgentIdentifier:           "agent-test-1",
			SellerVKey:                "vkey-test",
			IdentifierFromPurchaser:   "1234567890123456",
			Amounts:                   []model.Amount{{Amount: "3000000", Unit: "lovelace"}},
			InputHash:                 "deadbeef",
		},
	}
}

// WithJobID sets the job id.
func (b *StartJobResponseBuilder) WithJobID(jobID string) *StartJobResponseBuilder {
	b.resp.JobID = jobID
	return b
}

// WithIdentifier sets the purchaser identifier echo.
func (b *StartJobResponseBuilder) WithIdentifier(id string) *StartJobResponseBuilder {
	b.resp.IdentifierFromPurchaser = id
	return b
}

// WithBlockchainIdentifier sets the escrow's blockchain identifier.
func (b *StartJobResponseBuilder) WithBlockchainIdentifier(id string) *StartJobResponseBuilder {
	b.resp.BlockchainIdentifier = id
	return b
}

// WithAmounts sets the price amounts.
func (b *StartJobResponseBuilder) WithAmounts(amounts ...model.Amount) *StartJobResponseBuilder {
	b.resp.Amounts = amounts
	return b
}

// Build returns the constructed response.
func (b *StartJobResponseBuilder) Build() *model.StartJobResponse {
	resp := *b.resp
	return &resp
}
