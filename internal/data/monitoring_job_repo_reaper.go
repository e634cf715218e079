package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clearskies/climatewatch/internal/core"
	"github.com/clearskies/climatewatch/internal/data/pgxutil"
)

// Advisory lock namespace for reaper operations, using the two-arg
// pg_try_advisory_xact_lock(major, minor) form. Major key 2100 is reserved
// for climatewatch reaper operations.
const (
	advisoryLockReaperMajor       = 2100
	advisoryLockReaperFailUnpaid  = 1
	advisoryLockReaperDeleteJobs  = 2
)

// FailExpiredUnpaid marks unpaid awaiting_payment records whose pay_by_time
// has lapsed as failed. pay_by_time is stored verbatim as the agent's
// millisecond epoch string, so rows with a non-numeric value are skipped.
// Uses an advisory lock so concurrent reaper instances don't conflict.
func (r *MonitoringJobRepo) FailExpiredUnpaid(ctx context.Context, params core.ExpireUnpaidParams) (int64, error) {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	now := params.Now
	if now.IsZero() {
		now = r.timeProvider.Now()
	}

	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
			advisoryLockReaperMajor, advisoryLockReaperFailUnpaid).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			rowsAffected = 0
			return nil
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE monitoring_jobs
			SET status = 'failed'
			WHERE id IN (
				SELECT id FROM monitoring_jobs
				WHERE status = 'awaiting_payment'
				  AND amount_paid = false
				  AND pay_by_time ~ '^[0-9]+$'
				  AND pay_by_time::bigint < $1
				ORDER BY created_at
				LIMIT $2
			)
		`, now.UnixMilli(), batchSize)
		if err != nil {
			return fmt.Errorf("fail expired unpaid jobs: %w", err)
		}
		rowsAffected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}

// DeleteOldJobs deletes records with the given status older than MaxAge.
// Processes up to BatchSize rows per call to prevent long locks.
func (r *MonitoringJobRepo) DeleteOldJobs(ctx context.Context, params core.DeleteOldJobsParams) (int64, error) {
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	cutoff := r.timeProvider.Now().Add(-params.MaxAge)

	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked bool
		if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
			advisoryLockReaperMajor, advisoryLockReaperDeleteJobs).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			rowsAffected = 0
			return nil
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM monitoring_jobs
			WHERE id IN (
				SELECT id FROM monitoring_jobs
				WHERE status = $1
				  AND created_at < $2
				ORDER BY created_at
				LIMIT $3
			)
		`, params.Status, cutoff.UTC(), batchSize)
		if err != nil {
			return fmt.Errorf("delete old jobs: %w", err)
		}
		rowsAffected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return rowsAffected, nil
}
