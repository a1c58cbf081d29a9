// Package digest hands undigested change events to the notification
// dispatcher, once per tenant.
package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventRepo interface {
	MarkDigested(ctx context.Context, tenant string, at time.Time, limit int) ([]domain.ChangeEvent, error)
	TenantsWithPending(ctx context.Context) ([]string, error)
}

type dispatcher interface {
	SendDigest(ctx context.Context, tenant string, events []domain.ChangeEvent) error
}

// DefaultLimit caps the events handed off in one digest.
const DefaultLimit = 1000

// Service runs digests.
type Service struct {
	tx       txManager
	events   eventRepo
	notifier dispatcher
	limit    int
	now      func() time.Time
	log      *slog.Logger
}

// NewService creates a digest Service.
func NewService(log *slog.Logger, tx txManager, events eventRepo, notifier dispatcher) *Service {
	return &Service{
		tx:       tx,
		events:   events,
		notifier: notifier,
		limit:    DefaultLimit,
		now:      time.Now,
		log:      log.With("service", "digest"),
	}
}

// Run stamps the tenant's undigested events and sends them. A send failure
// rolls the stamps back, so the events stay pending for the next run.
//
// The send happens inside the transaction. If the commit fails after a
// successful send, the events stay pending and the next run delivers them
// again: delivery is at-least-once, never lost.
func (s *Service) Run(ctx context.Context, tenant string) (int, error) {
	if tenant == "" {
		return 0, domain.NewValidationError("tenant", "required")
	}

	var sent int
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		events, err := s.events.MarkDigested(ctx, tenant, s.now().UTC(), s.limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		if err := s.notifier.SendDigest(ctx, tenant, events); err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		sent = len(events)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("digest %s: %w", tenant, err)
	}

	metrics.DigestEvents.Add(float64(sent))
	if sent > 0 {
		s.log.InfoContext(ctx, "digest sent", slog.String("tenant", tenant), slog.Int("events", sent))
	}
	return sent, nil
}

// RunAll digests every tenant with pending events. A failing tenant does not
// stop the others; the first error is returned at the end.
func (s *Service) RunAll(ctx context.Context) (int, error) {
	tenants, err := s.events.TenantsWithPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list tenants with pending events: %w", err)
	}

	var (
		total    int
		firstErr error
	)
	for _, tenant := range tenants {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		n, err := s.Run(ctx, tenant)
		if err != nil {
			s.log.ErrorContext(ctx, "digest failed", slog.String("tenant", tenant), slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		total += n
	}
	return total, firstErr
}
