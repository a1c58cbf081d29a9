package queue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// Enqueue stores a notification as a pending job. A redelivery carrying an
// already queued idempotency key is reported as Duplicate, not as an error.
func (s *Service) Enqueue(ctx context.Context, input EnqueueInput) (EnqueueResult, error) {
	if err := input.Validate(); err != nil {
		return EnqueueResult{}, err
	}

	topic := webhook.Normalize(input.Topic)
	now := s.now().UTC()
	job := &domain.Job{
		ID:          uuid.New(),
		Tenant:      strings.TrimSpace(input.Tenant),
		Topic:       topic,
		EntityID:    input.EntityID,
		Payload:     input.Payload,
		CreatedAt:   now,
		ScheduledAt: now.Add(input.Delay),
	}
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		job.IdempotencyKey = &key
	}

	created, err := s.jobs.Enqueue(ctx, job)
	if err != nil {
		return EnqueueResult{}, fmt.Errorf("enqueue job: %w", err)
	}
	metrics.RecordEnqueue(webhook.CategoryOf(topic).String(), created)

	if !created {
		s.log.DebugContext(ctx, "duplicate job ignored",
			slog.String("tenant", job.Tenant),
			slog.String("topic", topic),
			slog.String("idempotency_key", job.Key()),
		)
		return EnqueueResult{Duplicate: true}, nil
	}

	s.log.InfoContext(ctx, "job enqueued",
		slog.String("job_id", job.ID.String()),
		slog.String("tenant", job.Tenant),
		slog.String("topic", topic),
		slog.String("entity_id", job.EntityID),
	)

	if s.trigger != nil && input.Delay == 0 {
		s.trigger.Trigger()
	}

	return EnqueueResult{JobID: job.ID}, nil
}
