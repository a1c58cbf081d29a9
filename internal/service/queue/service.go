// Package queue owns the webhook job lifecycle on top of the job repository:
// input validation, the retry policy and the maintenance passes.
package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
)

type jobRepo interface {
	Enqueue(ctx context.Context, job *domain.Job) (bool, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time, errMsg string) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	ListReady(ctx context.Context, now time.Time, limit int) ([]domain.Job, error)
	Sweep(ctx context.Context, olderThan time.Time) (int64, error)
	ReclaimStale(ctx context.Context, claimedBefore time.Time, maxAttempts int) (int64, error)
	Stats(ctx context.Context) (domain.JobStats, error)
}

// trigger wakes the processor after new work arrives.
type trigger interface {
	Trigger()
}

// Service provides job queue operations.
type Service struct {
	jobs    jobRepo
	trigger trigger
	cfg     config.QueueConfig
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a queue Service. trig may be nil for one-shot tools that
// never process jobs.
func NewService(log *slog.Logger, jobs jobRepo, trig trigger, cfg config.QueueConfig) *Service {
	return &Service{
		jobs:    jobs,
		trigger: trig,
		cfg:     cfg,
		now:     time.Now,
		log:     log.With("service", "queue"),
	}
}

// Backoff returns the delay before retry after the given failed attempt
// (1-based): base, 2·base, 4·base, ...
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
