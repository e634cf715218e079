// Package core defines the port interfaces between the service layer and
// the data/adapter layers. Services depend on these contracts, never on
// concrete implementations.
package core

import (
	"context"
	"time"

	"github.com/clearskies/climatewatch/internal/domain/model"
)

// MonitoringJobRepository defines the job store boundary: the durable owner
// of monitoring job records across sessions.
type MonitoringJobRepository interface {
	Create(ctx context.Context, req *model.CreateMonitoringJobRequest) (*model.MonitoringJob, error)
	// FindLatestByIdentifier returns the most recently created job for the
	// purchaser identifier, or a NotFound error when none exists. "Most
	// recent wins" is the resume invariant: ordered by creation time
	// descending, limit one.
	FindLatestByIdentifier(ctx context.Context, identifier string) (*model.MonitoringJob, error)
	GetByJobID(ctx context.Context, jobID string) (*model.MonitoringJob, error)
	// PatchPayment updates only the payment fields of the record keyed by
	// the agent-assigned job id.
	PatchPayment(ctx context.Context, params model.PatchPaymentParams) (*model.MonitoringJob, error)
	ListRecent(ctx context.Context, limit int) ([]*model.MonitoringJob, error)
}

// ProcessingClient defines the remote processing agent boundary.
type ProcessingClient interface {
	StartJob(ctx context.Context, req model.StartJobRequest) (*model.StartJobResponse, error)
	GetStatus(ctx context.Context, jobID string) (*model.JobStatusResponse, error)
}

// PaymentClient defines the blockchain payment service boundary.
type PaymentClient interface {
	// SubmitPayment funds the escrow described by the request. The payment
	// service treats a given blockchain identifier idempotently, which is
	// what makes user-driven retries safe.
	SubmitPayment(ctx context.Context, req model.PaymentRequest) error
}

// CacheRepository defines the interface for ephemeral cross-process state:
// duplicate-start dedupe locks and session progress snapshots.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
	// SetIfNotExists atomically sets a key only if it doesn't already exist.
	SetIfNotExists(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// ExpireUnpaidParams groups parameters for ReaperRepository.FailExpiredUnpaid.
type ExpireUnpaidParams struct {
	Now       time.Time
	BatchSize int
}

// DeleteOldJobsParams groups parameters for ReaperRepository.DeleteOldJobs.
type DeleteOldJobsParams struct {
	Status    model.JobStatus
	MaxAge    time.Duration
	BatchSize int
}

// ReaperRepository defines the interface for job record cleanup operations.
type ReaperRepository interface {
	// FailExpiredUnpaid marks unpaid awaiting_payment records whose
	// pay_by_time has lapsed as failed. The escrow can no longer be funded,
	// so the record is dead weight for resume purposes.
	// Returns the number of records updated.
	FailExpiredUnpaid(ctx context.Context, params ExpireUnpaidParams) (int64, error)

	// DeleteOldJobs deletes records with the given status older than MaxAge.
	// Processes up to BatchSize rows per call to prevent long locks.
	DeleteOldJobs(ctx context.Context, params DeleteOldJobsParams) (int64, error)
}
