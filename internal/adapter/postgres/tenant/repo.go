// Package tenant reads and writes per-shop settings.
package tenant

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/domain"
)

const table = "tenants"

var columns = []string{
	"tenant", "plan", "access_token", "low_stock_threshold", "instant_alerts", "alert_email",
	"disabled_features",
}

// Repo provides tenant persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new tenant repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// Get returns a tenant's settings. Returns domain.ErrNotFound if the shop is
// not installed.
func (r *Repo) Get(ctx context.Context, tenant string) (*domain.Tenant, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant": tenant}).
		ToSql()
	if err != nil {
		return nil, err
	}

	t, err := scanTenant(r.q(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "tenant", tenant)
	}
	return t, nil
}

// GetMany returns the settings of the installed shops among tenants, in no
// particular order. Unknown shops are omitted.
func (r *Repo) GetMany(ctx context.Context, tenants []string) ([]domain.Tenant, error) {
	if len(tenants) == 0 {
		return []domain.Tenant{}, nil
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"tenant": tenants}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Tenant, 0, len(tenants))
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return out, nil
}

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var (
		t        domain.Tenant
		plan     string
		disabled []string
	)
	if err := row.Scan(
		&t.Tenant, &plan, &t.AccessToken, &t.LowStockThreshold, &t.InstantAlerts, &t.AlertEmail, &disabled,
	); err != nil {
		return nil, err
	}

	t.Plan = domain.Plan(plan)
	for _, f := range disabled {
		t.DisabledFeatures = append(t.DisabledFeatures, domain.Feature(f))
	}
	return &t, nil
}

const upsertSQL = `
INSERT INTO tenants (tenant, plan, access_token, low_stock_threshold, instant_alerts, alert_email,
                     disabled_features, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (tenant) DO UPDATE
   SET plan                = EXCLUDED.plan,
       access_token        = EXCLUDED.access_token,
       low_stock_threshold = EXCLUDED.low_stock_threshold,
       instant_alerts      = EXCLUDED.instant_alerts,
       alert_email         = EXCLUDED.alert_email,
       disabled_features   = EXCLUDED.disabled_features,
       updated_at          = now()`

// Upsert creates or replaces a tenant's settings.
func (r *Repo) Upsert(ctx context.Context, t *domain.Tenant) error {
	disabled := make([]string, len(t.DisabledFeatures))
	for i, f := range t.DisabledFeatures {
		disabled[i] = string(f)
	}

	_, err := r.q(ctx).Exec(ctx, upsertSQL,
		t.Tenant, string(t.Plan), t.AccessToken, t.LowStockThreshold, t.InstantAlerts, t.AlertEmail, disabled,
	)
	if err != nil {
		return postgres.MapError(err, "tenant", t.Tenant)
	}
	return nil
}
