package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/domain/model"
	"github.com/clearskies/climatewatch/internal/domain/session"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/observability/metrics"
	"github.com/clearskies/climatewatch/internal/observability/statsd"
)

// startLockKeyPrefix namespaces the cross-process duplicate-start locks.
const startLockKeyPrefix = "monitor:start:"

// MonitorServiceOptions groups dependencies for MonitorService.
type MonitorServiceOptions struct {
	Jobs     core.MonitoringJobRepository // Required: durable job store
	Agent    core.ProcessingClient        // Required: remote processing agent
	Payments core.PaymentClient           // Required: payment service
	Cache    core.CacheRepository         // Optional: duplicate-start dedupe
	Config   config.MonitorConfig         // Required: polling policy
	Network  string                       // Required: blockchain network for purchases
	Logger   *slog.Logger                 // Optional: structured logger
	Metrics  statsd.Sink                  // Optional: metrics sink (StatsD-compatible)
}

// MonitorService orchestrates the monitoring job lifecycle: creating or
// resuming jobs against the agent, funding their escrow, polling until a
// terminal status, and extracting the structured climate report.
//
// The service holds no per-session state; the session registry layers that
// on top.
type MonitorService struct {
	jobs     core.MonitoringJobRepository
	agent    core.ProcessingClient
	payments core.PaymentClient
	cache    core.CacheRepository
	config   config.MonitorConfig
	network  string
	logger   *slog.Logger
	metrics  statsd.Sink

	timeProvider func() time.Time
}

// NewMonitorService constructs a new MonitorService.
func NewMonitorService(opts MonitorServiceOptions) (*MonitorService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("MonitoringJobRepository is required")
	}
	if opts.Agent == nil {
		return nil, errors.New("ProcessingClient is required")
	}
	if opts.Payments == nil {
		return nil, errors.New("PaymentClient is required")
	}
	if opts.Network == "" {
		return nil, errors.New("network is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "monitor_service")
	}

	return &MonitorService{
		jobs:         opts.Jobs,
		agent:        opts.Agent,
		payments:     opts.Payments,
		cache:        opts.Cache,
		config:       opts.Config,
		network:      opts.Network,
		logger:       logger,
		metrics:      opts.Metrics,
		timeProvider: time.Now,
	}, nil
}

// BuildRequestText renders the free-text monitoring request sent to the agent.
func BuildRequestText(location string) string {
	return fmt.Sprintf("Monitor air quality in %s: PM2.5, CO, temperature, and humidity", location)
}

// ResumeOrCreate returns the job to drive for the purchaser identifier.
// When a previous record exists for the identifier, the most recent one is
// resumed; otherwise a fresh job is registered with the agent and persisted.
// A store lookup failure degrades to creating a new job rather than failing
// the session.
func (s *MonitorService) ResumeOrCreate(ctx context.Context, identifier, location string) (*model.MonitoringJob, bool, error) {
	if !session.ValidIdentifier(identifier) {
		return nil, false, apperrors.ValidationField("identifier", "identifier must be exactly 16 digits")
	}
	if location == "" {
		return nil, false, apperrors.ValidationField("location", "location is required")
	}

	existing, err := s.jobs.FindLatestByIdentifier(ctx, identifier)
	switch {
	case err == nil:
		if s.logger != nil {
			s.logger.InfoContext(ctx, "resuming monitoring job",
				"job_id", existing.JobID, "paid", existing.AmountPaid, "status", existing.Status)
		}
		s.emit("resume", metrics.ResultSuccess, true, nil)
		return existing, true, nil
	case apperrors.IsNotFound(err):
		// First session for this identifier.
	default:
		if s.logger != nil {
			s.logger.WarnContext(ctx, "job store lookup failed, creating fresh job", "error", err)
		}
	}

	job, err := s.createJob(ctx, identifier, location)
	if err != nil {
		s.emit("create", metrics.ResultError, false, err)
		return nil, false, err
	}
	s.emit("create", metrics.ResultSuccess, false, nil)
	return job, false, nil
}

func (s *MonitorService) createJob(ctx context.Context, identifier, location string) (*model.MonitoringJob, error) {
	unlock, err := s.acquireStartLock(ctx, identifier)
	if err != nil {
		return nil, err
	}
	defer unlock()

	resp, err := s.agent.StartJob(ctx, model.StartJobRequest{
		IdentifierFromPurchaser: identifier,
		InputData:               model.StartJobInput{Text: BuildRequestText(location)},
	})
	if err != nil {
		return nil, fmt.Errorf("start job: %w", err)
	}

	job, err := s.jobs.Create(ctx, &model.CreateMonitoringJobRequest{
		PurchaserIdentifier: identifier,
		JobID:               resp.JobID,
		Location:            location,
		RequestText:         BuildRequestText(location),
		Status:              model.JobStatusAwaitingPayment,
		Bundle:              resp.Bundle(),
	})
	if err != nil {
		// The agent knows about the job even though persisting failed. A
		// later session for this identifier cannot resume it, so surface
		// the failure instead of continuing with an unrecorded job.
		return nil, fmt.Errorf("persist job %s: %w", resp.JobID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "monitoring job created",
			"job_id", job.JobID, "location", location)
	}
	return job, nil
}

// acquireStartLock takes the cross-process dedupe lock for an identifier.
// Without a cache the lock degrades to a no-op.
func (s *MonitorService) acquireStartLock(ctx context.Context, identifier string) (func(), error) {
	if s.cache == nil {
		return func() {}, nil
	}

	key := startLockKeyPrefix + identifier
	ok, err := s.cache.SetIfNotExists(ctx, key, []byte("1"), s.config.StartLockTTL)
	if err != nil {
		// Cache trouble must not block job creation.
		if s.logger != nil {
			s.logger.WarnContext(ctx, "start lock unavailable", "error", err)
		}
		return func() {}, nil
	}
	if !ok {
		return nil, apperrors.Conflict("a monitoring session for this identifier is already starting")
	}
	return func() {
		if _, derr := s.cache.Delete(context.WithoutCancel(ctx), key); derr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "start lock release failed", "error", derr)
		}
	}, nil
}

// ConfirmPayment funds the escrow for a job and records the payment. Calling
// it for an already-paid job is a no-op that returns the stored record with
// its original paid timestamp.
func (s *MonitorService) ConfirmPayment(ctx context.Context, jobID string) (*model.MonitoringJob, error) {
	job, err := s.jobs.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.AmountPaid {
		s.emit("payment", metrics.ResultNoop, false, nil)
		return job, nil
	}

	req := model.NewPaymentRequest(job.PurchaserIdentifier, s.network, job.PaymentBundle)
	if err := s.payments.SubmitPayment(ctx, req); err != nil {
		s.emit("payment", metrics.ResultError, false, err)
		return nil, fmt.Errorf("submit payment for job %s: %w", jobID, err)
	}

	updated, err := s.jobs.PatchPayment(ctx, model.PatchPaymentParams{
		JobID:      jobID,
		AmountPaid: true,
		PaidAt:     s.timeProvider().UTC(),
	})
	if err != nil {
		// Payment went through but the record was not updated. The payment
		// service is idempotent per blockchain identifier, so a retry of
		// this call is safe.
		s.emit("payment", metrics.ResultError, false, err)
		return nil, fmt.Errorf("record payment for job %s: %w", jobID, err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "payment recorded", "job_id", jobID)
	}
	s.emit("payment", metrics.ResultSuccess, false, nil)
	return updated, nil
}

// PollUntilDone polls the agent until the job reaches a terminal status or
// the attempt ceiling is hit. The observer, when set, sees every status
// snapshot including the terminal one. A failed status call aborts the run
// immediately: surfacing a clear error beats looping silently.
func (s *MonitorService) PollUntilDone(ctx context.Context, jobID string, observe func(model.JobStatusResponse)) (*model.JobStatusResponse, error) {
	start := s.timeProvider()

	for attempt := 1; attempt <= s.config.MaxPollAttempts; attempt++ {
		status, err := s.agent.GetStatus(ctx, jobID)
		if err != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "status poll failed",
					"job_id", jobID, "attempt", attempt, "error", err)
			}
			s.emit("poll", metrics.ResultError, false, err)
			return nil, err
		}

		if observe != nil {
			observe(*status)
		}
		if status.Status.Terminal() {
			s.emit("poll", metrics.ResultSuccess, false, nil)
			if s.logger != nil {
				s.logger.InfoContext(ctx, "job reached terminal status",
					"job_id", jobID, "status", status.Status,
					"attempts", attempt, "elapsed", s.timeProvider().Sub(start))
			}
			return status, nil
		}

		if attempt == s.config.MaxPollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.config.PollInterval):
		}
	}

	s.emit("poll", metrics.ResultError, false, nil)
	return nil, apperrors.Timeout(fmt.Sprintf("job %s did not complete within %d poll attempts", jobID, s.config.MaxPollAttempts))
}

// FinalizeResult extracts the climate report from a terminal status. A
// completed job without a result body is a contract violation by the agent.
func (s *MonitorService) FinalizeResult(status *model.JobStatusResponse) (*model.ClimateResult, error) {
	if status == nil || status.Status != model.JobStatusCompleted {
		return nil, apperrors.Protocol("result finalization requires a completed status")
	}
	if status.Result == "" {
		return nil, apperrors.Protocol(fmt.Sprintf("job %s completed with no result body", status.JobID))
	}
	return ParseClimateResult(status.Result)
}

func (s *MonitorService) emit(transition, result string, resumed bool, err error) {
	metrics.EmitSessionLifecycle(s.metrics, metrics.SessionMetric{
		Transition: transition,
		Result:     result,
		Resumed:    resumed,
		Err:        err,
	})
}
