package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clearskies/climatewatch/internal/data/pgxutil"
	"github.com/clearskies/climatewatch/internal/domain/model"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
)

const monitoringJobColumns = `
	id, purchaser_identifier, job_id, location, request_text, amount_paid, status,
	blockchain_identifier, agent_identifier, seller_vkey, amounts,
	pay_by_time, submit_result_time, unlock_time, external_dispute_unlock_time, input_hash,
	created_at, paid_at`

// MonitoringJobRepo provides database operations for monitoring job records.
type MonitoringJobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMonitoringJobRepo creates a new MonitoringJobRepo with real time provider.
func NewMonitoringJobRepo(db *sql.DB) *MonitoringJobRepo {
	return &MonitoringJobRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewMonitoringJobRepoWithTimeProvider creates a MonitoringJobRepo with a
// custom time provider (useful for tests).
func NewMonitoringJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MonitoringJobRepo {
	return &MonitoringJobRepo{DB: db, timeProvider: tp}
}

// Create inserts a new monitoring job record.
func (r *MonitoringJobRepo) Create(ctx context.Context, req *model.CreateMonitoringJobRequest) (*model.MonitoringJob, error) {
	if req == nil {
		return nil, apperrors.Validation("create monitoring job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("request", err.Error())
	}

	status := req.Status
	if status == "" {
		status = model.JobStatusAwaitingPayment
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.MonitoringJob
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO monitoring_jobs (
				purchaser_identifier, job_id, location, request_text, amount_paid, status,
				blockchain_identifier, agent_identifier, seller_vkey, amounts,
				pay_by_time, submit_result_time, unlock_time, external_dispute_unlock_time, input_hash,
				created_at
			) VALUES (
				$1, $2, $3, $4, false, $5,
				$6, $7, $8, $9,
				$10, $11, $12, $13, $14,
				$15
			) RETURNING `+monitoringJobColumns,
			req.PurchaserIdentifier,
			req.JobID,
			req.Location,
			req.RequestText,
			status,
			req.Bundle.BlockchainIdentifier,
			req.Bundle.AgentIdentifier,
			req.Bundle.SellerVKey,
			req.Bundle.Amounts,
			req.Bundle.PayByTime,
			req.Bundle.SubmitResultTime,
			req.Bundle.UnlockTime,
			req.Bundle.ExternalDisputeUnlockTime,
			req.Bundle.InputHash,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MonitoringJob])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, apperrors.Conflict("monitoring job already exists for this job id")
		}
		return nil, fmt.Errorf("create monitoring job: %w", err)
	}
	return &out, nil
}

// FindLatestByIdentifier returns the most recently created record for the
// purchaser identifier. Most recent wins: older records for the same
// identifier are never considered for resume.
func (r *MonitoringJobRepo) FindLatestByIdentifier(ctx context.Context, identifier string) (*model.MonitoringJob, error) {
	return r.getOne(ctx, `
		SELECT `+monitoringJobColumns+`
		FROM monitoring_jobs
		WHERE purchaser_identifier = $1
		ORDER BY created_at DESC
		LIMIT 1`, identifier)
}

// GetByJobID retrieves a record by the agent-assigned job id.
func (r *MonitoringJobRepo) GetByJobID(ctx context.Context, jobID string) (*model.MonitoringJob, error) {
	return r.getOne(ctx, `
		SELECT `+monitoringJobColumns+`
		FROM monitoring_jobs
		WHERE job_id = $1`, jobID)
}

func (r *MonitoringJobRepo) getOne(ctx context.Context, query string, arg any) (*model.MonitoringJob, error) {
	var out model.MonitoringJob
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MonitoringJob])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("monitoring job not found")
		}
		return nil, fmt.Errorf("get monitoring job: %w", err)
	}
	return &out, nil
}

// PatchPayment updates the payment fields of the record keyed by job id,
// leaving everything else untouched.
func (r *MonitoringJobRepo) PatchPayment(ctx context.Context, params model.PatchPaymentParams) (*model.MonitoringJob, error) {
	if params.JobID == "" {
		return nil, apperrors.Validation("job id is required")
	}
	var out model.MonitoringJob
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE monitoring_jobs
			SET amount_paid = $2, paid_at = $3
			WHERE job_id = $1
			RETURNING `+monitoringJobColumns,
			params.JobID, params.AmountPaid, params.PaidAt.UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MonitoringJob])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("monitoring job not found")
		}
		return nil, fmt.Errorf("patch payment: %w", err)
	}
	return &out, nil
}

// ListRecent retrieves the most recently created records, newest first.
func (r *MonitoringJobRepo) ListRecent(ctx context.Context, limit int) ([]*model.MonitoringJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var rowsOut []model.MonitoringJob
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+monitoringJobColumns+`
			FROM monitoring_jobs
			ORDER BY created_at DESC
			LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.MonitoringJob])
		return err
	}); err != nil {
		return nil, fmt.Errorf("list monitoring jobs: %w", err)
	}
	res := make([]*model.MonitoringJob, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
