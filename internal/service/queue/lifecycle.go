package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
)

// ListReady returns up to limit pending jobs that are due.
func (s *Service) ListReady(ctx context.Context, limit int) ([]domain.Job, error) {
	jobs, err := s.jobs.ListReady(ctx, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list ready jobs: %w", err)
	}
	return jobs, nil
}

// Claim takes ownership of a pending job. False means another worker won.
func (s *Service) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.jobs.Claim(ctx, id)
	if err != nil {
		return false, fmt.Errorf("claim job %s: %w", id, err)
	}
	if ok {
		metrics.JobsClaimed.Inc()
	}
	return ok, nil
}

// Complete marks a claimed job done.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	if err := s.jobs.Complete(ctx, id); err != nil {
		return fmt.Errorf("complete job %s: %w", id, err)
	}
	return nil
}

// Fail records a failed attempt. job.Attempts must count the attempt that
// just failed. While attempts stay within MaxRetries the job is rescheduled
// with exponential backoff; afterwards it becomes failed for good.
func (s *Service) Fail(ctx context.Context, job domain.Job, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}

	if job.Attempts <= s.cfg.MaxRetries {
		delay := Backoff(s.cfg.BackoffBase, job.Attempts)
		at := s.now().UTC().Add(delay)
		if err := s.jobs.Reschedule(ctx, job.ID, at, msg); err != nil {
			return fmt.Errorf("reschedule job %s: %w", job.ID, err)
		}
		metrics.JobsRetried.Inc()

		s.log.WarnContext(ctx, "job attempt failed, rescheduled",
			slog.String("job_id", job.ID.String()),
			slog.String("tenant", job.Tenant),
			slog.String("topic", job.Topic),
			slog.Int("attempt", job.Attempts),
			slog.Duration("retry_in", delay),
			slog.String("error", msg),
		)
		return nil
	}

	if err := s.jobs.MarkFailed(ctx, job.ID, msg); err != nil {
		return fmt.Errorf("mark job %s failed: %w", job.ID, err)
	}
	metrics.JobsAbandoned.Inc()

	s.log.ErrorContext(ctx, "job abandoned after retries",
		slog.String("job_id", job.ID.String()),
		slog.String("tenant", job.Tenant),
		slog.String("topic", job.Topic),
		slog.Int("attempts", job.Attempts),
		slog.String("error", msg),
	)
	return nil
}
