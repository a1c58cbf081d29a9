// Package job implements the durable webhook job queue on PostgreSQL.
// The conditional UPDATE in Claim is the only guard against two workers
// processing the same job.
package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/domain"
)

const table = "webhook_jobs"

var columns = []string{
	"id", "tenant", "topic", "entity_id", "payload", "idempotency_key", "status", "attempts",
	"scheduled_at", "claimed_at", "last_error", "completed_at", "created_at", "updated_at",
}

// Repo provides job persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new job repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const enqueueSQL = `
INSERT INTO webhook_jobs (id, tenant, topic, entity_id, payload, idempotency_key,
                          status, attempts, scheduled_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', 0, $7, $8, $8)
ON CONFLICT (idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING
RETURNING id`

// Enqueue inserts a pending job. A colliding idempotency key is not an error:
// no row is written and created is false.
func (r *Repo) Enqueue(ctx context.Context, job *domain.Job) (bool, error) {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	if job.ScheduledAt.IsZero() {
		job.ScheduledAt = job.CreatedAt
	}

	var id uuid.UUID
	err := r.q(ctx).QueryRow(ctx, enqueueSQL,
		job.ID, job.Tenant, job.Topic, job.EntityID, job.Payload, job.IdempotencyKey,
		job.ScheduledAt, job.CreatedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(err, "webhook_job", job.ID)
	}

	job.Status = domain.JobStatusPending
	job.UpdatedAt = job.CreatedAt
	return true, nil
}

const claimSQL = `
UPDATE webhook_jobs
   SET status = 'processing', attempts = attempts + 1, claimed_at = now(), updated_at = now()
 WHERE id = $1 AND status = 'pending'`

// Claim atomically moves a pending job to processing and increments its
// attempt count. It returns false when another worker got there first.
func (r *Repo) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, claimSQL, id)
	if err != nil {
		return false, postgres.MapError(err, "webhook_job", id)
	}
	return tag.RowsAffected() == 1, nil
}

const completeSQL = `
UPDATE webhook_jobs
   SET status = 'completed', completed_at = now(), last_error = NULL, updated_at = now()
 WHERE id = $1 AND status = 'processing'`

// Complete marks a processing job completed. Returns domain.ErrConflict when
// the job is no longer held in processing (for example after a stale reclaim).
func (r *Repo) Complete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, completeSQL, id)
	if err != nil {
		return postgres.MapError(err, "webhook_job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook_job %s: %w", id, domain.ErrConflict)
	}
	return nil
}

const rescheduleSQL = `
UPDATE webhook_jobs
   SET status = 'pending', scheduled_at = $2, last_error = $3, claimed_at = NULL, updated_at = now()
 WHERE id = $1 AND status = 'processing'`

// Reschedule returns a processing job to pending, runnable at the given time.
func (r *Repo) Reschedule(ctx context.Context, id uuid.UUID, at time.Time, errMsg string) error {
	tag, err := r.q(ctx).Exec(ctx, rescheduleSQL, id, at, errMsg)
	if err != nil {
		return postgres.MapError(err, "webhook_job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook_job %s: %w", id, domain.ErrConflict)
	}
	return nil
}

const markFailedSQL = `
UPDATE webhook_jobs
   SET status = 'failed', last_error = $2, updated_at = now()
 WHERE id = $1 AND status = 'processing'`

// MarkFailed moves a processing job to the terminal failed state.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	tag, err := r.q(ctx).Exec(ctx, markFailedSQL, id, errMsg)
	if err != nil {
		return postgres.MapError(err, "webhook_job", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook_job %s: %w", id, domain.ErrConflict)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Maintenance
// ---------------------------------------------------------------------------

const sweepSQL = `
DELETE FROM webhook_jobs
 WHERE status IN ('completed', 'failed') AND updated_at < $1`

// Sweep deletes terminal jobs last touched before olderThan. Pending and
// processing rows are never touched.
func (r *Repo) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx, sweepSQL, olderThan)
	if err != nil {
		return 0, fmt.Errorf("sweep webhook_jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

const reclaimSQL = `
UPDATE webhook_jobs
   SET status       = CASE WHEN attempts >= $2 THEN 'failed' ELSE 'pending' END,
       scheduled_at = now(),
       claimed_at   = NULL,
       last_error   = 'processing lease expired',
       updated_at   = now()
 WHERE status = 'processing' AND claimed_at < $1`

// ReclaimStale releases jobs stuck in processing since before claimedBefore,
// typically left behind by a crashed worker. Jobs that already used
// maxAttempts claims become failed instead of pending.
func (r *Repo) ReclaimStale(ctx context.Context, claimedBefore time.Time, maxAttempts int) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx, reclaimSQL, claimedBefore, maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("reclaim webhook_jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns a job by id. Returns domain.ErrNotFound if absent.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	job, err := scanJob(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "webhook_job", id)
	}
	return job, nil
}

// ListReady returns pending jobs due at or before now, oldest first.
func (r *Repo) ListReady(ctx context.Context, now time.Time, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		return []domain.Job{}, nil
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": string(domain.JobStatusPending)}).
		Where(squirrel.LtOrEq{"scheduled_at": now}).
		OrderBy("scheduled_at", "created_at").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ready webhook_jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook_job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook_jobs: %w", err)
	}

	return jobs, nil
}

const statsSQL = `SELECT status, count(*) FROM webhook_jobs GROUP BY status`

// Stats returns job counts by status.
func (r *Repo) Stats(ctx context.Context) (domain.JobStats, error) {
	var stats domain.JobStats

	rows, err := r.q(ctx).Query(ctx, statsSQL)
	if err != nil {
		return stats, fmt.Errorf("webhook_job stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return stats, fmt.Errorf("scan webhook_job stats: %w", err)
		}
		switch domain.JobStatus(status) {
		case domain.JobStatusPending:
			stats.Pending = int(n)
		case domain.JobStatusProcessing:
			stats.Processing = int(n)
		case domain.JobStatusCompleted:
			stats.Completed = int(n)
		case domain.JobStatusFailed:
			stats.Failed = int(n)
		}
	}

	return stats, rows.Err()
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		j      domain.Job
		status string
	)
	err := row.Scan(
		&j.ID, &j.Tenant, &j.Topic, &j.EntityID, &j.Payload, &j.IdempotencyKey, &status, &j.Attempts,
		&j.ScheduledAt, &j.ClaimedAt, &j.LastError, &j.CompletedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	j.Status = domain.JobStatus(status)
	return &j, nil
}
