package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
)

// Sweep deletes completed and failed jobs older than maxAgeDays.
func (s *Service) Sweep(ctx context.Context, maxAgeDays int) (int64, error) {
	if maxAgeDays <= 0 {
		return 0, domain.NewValidationError("max_age_days", "must be positive")
	}

	cutoff := s.now().UTC().AddDate(0, 0, -maxAgeDays)
	n, err := s.jobs.Sweep(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep jobs: %w", err)
	}
	metrics.JobsSwept.Add(float64(n))

	if n > 0 {
		s.log.InfoContext(ctx, "terminal jobs swept",
			slog.Int64("deleted", n),
			slog.Time("cutoff", cutoff),
		)
	}
	return n, nil
}

// ReclaimStale returns jobs whose worker vanished mid-processing to the
// queue. A job whose lease expired on its last allowed attempt becomes failed.
func (s *Service) ReclaimStale(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.cfg.StaleAfter)
	n, err := s.jobs.ReclaimStale(ctx, cutoff, s.cfg.MaxRetries+1)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale jobs: %w", err)
	}
	metrics.JobsReclaimed.Add(float64(n))

	if n > 0 {
		s.log.WarnContext(ctx, "stale jobs reclaimed",
			slog.Int64("jobs", n),
			slog.Duration("stale_after", s.cfg.StaleAfter),
		)
		if s.trigger != nil {
			s.trigger.Trigger()
		}
	}
	return n, nil
}

// Stats returns queue counts and publishes them as gauges.
func (s *Service) Stats(ctx context.Context) (domain.JobStats, error) {
	stats, err := s.jobs.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("job stats: %w", err)
	}
	metrics.SetQueueDepth(stats.Pending, stats.Processing, stats.Completed, stats.Failed)
	return stats, nil
}

