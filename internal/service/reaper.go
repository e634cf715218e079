package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearskies/climatewatch/config"
	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/domain/model"
	"github.com/clearskies/climatewatch/internal/observability/statsd"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    core.ReaperRepository // Required: reaper repository
	Config  config.ReaperConfig   // Required: reaper configuration
	Logger  *slog.Logger          // Optional: structured logger
	Metrics statsd.Sink           // Optional: metrics sink (StatsD-compatible)
}

// ReaperService provides monitoring record cleanup.
//
// This service manages:
// - Failing awaiting_payment records whose payment deadline lapsed unfunded.
// - Deleting old completed records to prevent database bloat.
// - Deleting old failed records to prevent database bloat.
type ReaperService struct {
	repo    core.ReaperRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ReaperRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
	}

	return &ReaperService{
		repo:    opts.Repo,
		config:  opts.Config,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	// Jitter prevents a thundering herd when multiple instances start together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.RunCleanup(ctx); err != nil && s.logger != nil {
		s.logger.Error("initial cleanup failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunCleanup(ctx); err != nil && s.logger != nil {
				s.logger.Error("cleanup failed", "error", err)
			}
		}
	}
}

// waitWithJitter delays up to 10% of the interval.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// If crypto/rand fails, skip jitter rather than failing startup.
		return
	}
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

// RunCleanup performs one full cleanup pass. Individual step failures are
// joined so one bad statement doesn't hide the others.
func (s *ReaperService) RunCleanup(ctx context.Context) error {
	start := time.Now()
	var errs []error

	expired, err := s.repo.FailExpiredUnpaid(ctx, core.ExpireUnpaidParams{
		Now:       time.Now(),
		BatchSize: s.config.BatchSize,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("fail expired unpaid: %w", err))
	}

	completed, err := s.repo.DeleteOldJobs(ctx, core.DeleteOldJobsParams{
		Status:    model.JobStatusCompleted,
		MaxAge:    s.config.CompletedMaxAge,
		BatchSize: s.config.BatchSize,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("delete old completed: %w", err))
	}

	failed, err := s.repo.DeleteOldJobs(ctx, core.DeleteOldJobsParams{
		Status:    model.JobStatusFailed,
		MaxAge:    s.config.FailedMaxAge,
		BatchSize: s.config.BatchSize,
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("delete old failed: %w", err))
	}

	s.emitCleanupMetrics(expired, completed, failed, time.Since(start))

	if s.logger != nil && (expired > 0 || completed > 0 || failed > 0) {
		s.logger.InfoContext(ctx, "cleanup pass finished",
			"expired_unpaid", expired,
			"deleted_completed", completed,
			"deleted_failed", failed,
			"elapsed", time.Since(start),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
	}
	return nil
}

func (s *ReaperService) emitCleanupMetrics(expired, completed, failed int64, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count("reaper.expired_unpaid", expired, nil)
	s.metrics.Count("reaper.deleted", completed, map[string]string{"status": "completed"})
	s.metrics.Count("reaper.deleted", failed, map[string]string{"status": "failed"})
	s.metrics.Timing("reaper.pass_duration", elapsed, nil)
}
