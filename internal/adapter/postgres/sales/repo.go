// Package sales reads product sales velocity. Rows are written by an external
// order sync; Upsert exists for that sync and for tests.
package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/domain"
)

// Repo provides sales velocity persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new sales repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

const velocitySQL = `
SELECT daily_sales_rate, total_revenue::text, total_units_sold, period_days
  FROM product_sales
 WHERE tenant = $1 AND product_id = $2`

// Velocity returns the sales velocity of a product, or nil when no sales
// data has been synced for it.
func (r *Repo) Velocity(ctx context.Context, tenant, productID string) (*domain.Velocity, error) {
	var (
		v       domain.Velocity
		revenue string
	)
	err := r.q(ctx).QueryRow(ctx, velocitySQL, tenant, productID).Scan(
		&v.DailySalesRate, &revenue, &v.TotalUnitsSold, &v.PeriodDays,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "product_sales", productID)
	}

	if v.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
		return nil, fmt.Errorf("product_sales %s: parse total_revenue %q: %w", productID, revenue, err)
	}
	return &v, nil
}

const upsertSQL = `
INSERT INTO product_sales (tenant, product_id, daily_sales_rate, total_revenue, total_units_sold,
                           period_days, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5, $6, now())
ON CONFLICT (tenant, product_id) DO UPDATE
   SET daily_sales_rate = EXCLUDED.daily_sales_rate,
       total_revenue    = EXCLUDED.total_revenue,
       total_units_sold = EXCLUDED.total_units_sold,
       period_days      = EXCLUDED.period_days,
       updated_at       = now()`

// Upsert stores the velocity of a product.
func (r *Repo) Upsert(ctx context.Context, tenant, productID string, v domain.Velocity) error {
	_, err := r.q(ctx).Exec(ctx, upsertSQL,
		tenant, productID, v.DailySalesRate, v.TotalRevenue.String(), v.TotalUnitsSold, v.PeriodDays,
	)
	if err != nil {
		return postgres.MapError(err, "product_sales", productID)
	}
	return nil
}
