// Package notify delivers change events to tenants. LogDispatcher is the
// in-repo implementation: it writes structured log lines that an external
// mailer tails. Email transport and templates live outside this service.
package notify

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// LogDispatcher logs alerts and digests.
type LogDispatcher struct {
	log *slog.Logger
}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{log: logger.With("adapter", "notify")}
}

// SendInstant emits one instant alert.
func (d *LogDispatcher) SendInstant(ctx context.Context, e domain.ChangeEvent) error {
	d.log.InfoContext(ctx, "instant alert",
		slog.String("tenant", e.Tenant),
		slog.String("event_id", e.ID.String()),
		slog.String("event_type", e.EventType.String()),
		slog.String("importance", e.Importance.String()),
		slog.String("resource", e.ResourceName),
		slog.String("context", string(e.Context)),
	)
	return nil
}

// SendDigest emits one digest line per tenant plus one per event.
func (d *LogDispatcher) SendDigest(ctx context.Context, tenant string, events []domain.ChangeEvent) error {
	counts := make(map[domain.Importance]int, 3)
	for _, e := range events {
		counts[e.Importance]++
	}

	d.log.InfoContext(ctx, "digest",
		slog.String("tenant", tenant),
		slog.Int("events", len(events)),
		slog.Int("high", counts[domain.ImportanceHigh]),
		slog.Int("medium", counts[domain.ImportanceMedium]),
		slog.Int("low", counts[domain.ImportanceLow]),
	)
	for _, e := range events {
		d.log.DebugContext(ctx, "digest item",
			slog.String("tenant", tenant),
			slog.String("event_id", e.ID.String()),
			slog.String("event_type", e.EventType.String()),
			slog.String("resource", e.ResourceName),
		)
	}
	return nil
}
