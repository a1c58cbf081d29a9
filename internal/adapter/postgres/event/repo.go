// Package event persists change events, the published output of the pipeline.
// Events are immutable except for digested_at.
package event

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

const table = "change_events"

var columns = []string{
	"id", "tenant", "entity_type", "entity_id", "event_type", "resource_name", "before_value",
	"after_value", "importance", "detected_at", "context", "source", "idempotency_key", "digested_at",
}

// DefaultListLimit caps List when the filter sets no limit.
const DefaultListLimit = 500

// Repo provides change event persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new change event repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO change_events (id, tenant, entity_type, entity_id, event_type, resource_name,
                           before_value, after_value, importance, detected_at, context, source,
                           idempotency_key)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (tenant, idempotency_key) WHERE idempotency_key IS NOT NULL DO NOTHING
RETURNING id`

// Create inserts an event. When an event with the same tenant and
// idempotency key exists, nothing is written and created is false.
func (r *Repo) Create(ctx context.Context, e *domain.ChangeEvent) (bool, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.DetectedAt.IsZero() {
		e.DetectedAt = time.Now().UTC()
	}
	if e.Source == "" {
		e.Source = domain.EventSourceWebhook
	}
	eventCtx := []byte(e.Context)
	if len(eventCtx) == 0 {
		eventCtx = []byte("{}")
	}

	var id uuid.UUID
	err := r.q(ctx).QueryRow(ctx, createSQL,
		e.ID, e.Tenant, string(e.EntityType), e.EntityID, string(e.EventType), e.ResourceName,
		e.Before, e.After, string(e.Importance), e.DetectedAt, eventCtx, e.Source, e.IdempotencyKey,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(err, "change_event", e.ID)
	}
	return true, nil
}

const existsRecentSQL = `
SELECT EXISTS (
    SELECT 1 FROM change_events
     WHERE tenant = $1 AND entity_id = $2 AND event_type = $3
       AND digested_at IS NULL AND detected_at >= $4
)`

// ExistsRecent reports whether an undigested event of the same type for the
// same entity was detected at or after since. It backs the dedup window.
func (r *Repo) ExistsRecent(ctx context.Context, tenant, entityID string, eventType domain.EventType, since time.Time) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, existsRecentSQL, tenant, entityID, string(eventType), since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("change_event dedup lookup: %w", err)
	}
	return exists, nil
}

const markDigestedSQL = `
UPDATE change_events
   SET digested_at = $2
 WHERE id IN (
       SELECT id FROM change_events
        WHERE tenant = $1 AND digested_at IS NULL
        ORDER BY detected_at
        LIMIT $3
          FOR UPDATE SKIP LOCKED)
RETURNING id, tenant, entity_type, entity_id, event_type, resource_name, before_value,
          after_value, importance, detected_at, context, source, idempotency_key, digested_at`

// MarkDigested stamps up to limit undigested events of a tenant and returns
// them. Rows locked by a concurrent digest run are skipped, so no event is
// handed off twice.
func (r *Repo) MarkDigested(ctx context.Context, tenant string, at time.Time, limit int) ([]domain.ChangeEvent, error) {
	rows, err := r.q(ctx).Query(ctx, markDigestedSQL, tenant, at, limit)
	if err != nil {
		return nil, fmt.Errorf("mark change_events digested: %w", err)
	}
	return collect(rows)
}

const tenantsPendingSQL = `
SELECT DISTINCT tenant FROM change_events WHERE digested_at IS NULL ORDER BY tenant`

// TenantsWithPending returns tenants that have undigested events.
func (r *Repo) TenantsWithPending(ctx context.Context) ([]string, error) {
	rows, err := r.q(ctx).Query(ctx, tenantsPendingSQL)
	if err != nil {
		return nil, fmt.Errorf("list tenants with pending events: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns events matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f domain.EventFilter) ([]domain.ChangeEvent, error) {
	if f.Tenant == "" {
		return nil, domain.NewValidationError("tenant", "required")
	}

	qb := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant": f.Tenant})

	if f.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"detected_at": *f.From})
	}
	if f.To != nil {
		qb = qb.Where(squirrel.Lt{"detected_at": *f.To})
	}
	if f.UndigestedOnly {
		qb = qb.Where(squirrel.Eq{"digested_at": nil})
	}
	if f.MinImportance != "" {
		qb = qb.Where(squirrel.Eq{"importance": importancesAtLeast(f.MinImportance)})
	}
	if len(f.EventTypes) > 0 {
		types := make([]string, len(f.EventTypes))
		for i, t := range f.EventTypes {
			types[i] = string(t)
		}
		qb = qb.Where(squirrel.Eq{"event_type": types})
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	qb = qb.OrderBy("detected_at DESC", "id").Limit(uint64(limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list change_events: %w", err)
	}
	return collect(rows)
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func importancesAtLeast(floor domain.Importance) []string {
	var out []string
	for _, i := range []domain.Importance{domain.ImportanceLow, domain.ImportanceMedium, domain.ImportanceHigh} {
		if i.AtLeast(floor) {
			out = append(out, string(i))
		}
	}
	return out
}

func collect(rows pgx.Rows) ([]domain.ChangeEvent, error) {
	defer rows.Close()

	events := []domain.ChangeEvent{}
	for rows.Next() {
		var (
			e                                 domain.ChangeEvent
			entityType, eventType, importance string
			eventCtx                          []byte
		)
		err := rows.Scan(
			&e.ID, &e.Tenant, &entityType, &e.EntityID, &eventType, &e.ResourceName, &e.Before,
			&e.After, &importance, &e.DetectedAt, &eventCtx, &e.Source, &e.IdempotencyKey, &e.DigestedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan change_event: %w", err)
		}
		e.EntityType = domain.EntityType(entityType)
		e.EventType = domain.EventType(eventType)
		e.Importance = domain.Importance(importance)
		e.Context = eventCtx
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change_events: %w", err)
	}

	return events, nil
}
