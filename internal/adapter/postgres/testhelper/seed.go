package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueTenant returns a fresh shop domain so parallel tests never share rows.
func UniqueTenant() string {
	return "shop-" + uniqueSuffix() + ".myshopify.com"
}

// SeedTenant inserts a tenant on the given plan with default settings.
func SeedTenant(t *testing.T, pool *pgxpool.Pool, plan domain.Plan) domain.Tenant {
	t.Helper()
	ctx := context.Background()

	tenant := domain.Tenant{
		Tenant:            UniqueTenant(),
		Plan:              plan,
		AccessToken:       "shpat_" + uniqueSuffix(),
		LowStockThreshold: domain.DefaultLowStockThreshold,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO tenants (tenant, plan, access_token, low_stock_threshold, instant_alerts)
		 VALUES ($1, $2, $3, $4, $5)`,
		tenant.Tenant, string(tenant.Plan), tenant.AccessToken, tenant.LowStockThreshold, tenant.InstantAlerts,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTenant: %v", err)
	}

	return tenant
}

// SeedJob inserts a job directly in the given status. Attempts and claimed_at
// are set so the row looks like it went through the normal transitions.
func SeedJob(t *testing.T, pool *pgxpool.Pool, tenant string, status domain.JobStatus, attempts int) domain.Job {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	key := "seed-" + uniqueSuffix()
	job := domain.Job{
		ID:             uuid.New(),
		Tenant:         tenant,
		Topic:          "products/update",
		EntityID:       "1000" + uniqueSuffix()[:4],
		Payload:        []byte(`{"id": 1}`),
		IdempotencyKey: &key,
		Status:         status,
		Attempts:       attempts,
		ScheduledAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if status == domain.JobStatusProcessing {
		job.ClaimedAt = &now
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO webhook_jobs (id, tenant, topic, entity_id, payload, idempotency_key, status,
		                           attempts, scheduled_at, claimed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		job.ID, job.Tenant, job.Topic, job.EntityID, job.Payload, job.IdempotencyKey, string(job.Status),
		job.Attempts, job.ScheduledAt, job.ClaimedAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedJob: %v", err)
	}

	return job
}

// AgeJob moves a job's claimed_at and updated_at into the past.
func AgeJob(t *testing.T, pool *pgxpool.Pool, id uuid.UUID, by time.Duration) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`UPDATE webhook_jobs
		    SET claimed_at = claimed_at - make_interval(secs => $2),
		        updated_at = updated_at - make_interval(secs => $2)
		  WHERE id = $1`,
		id, by.Seconds(),
	)
	if err != nil {
		t.Fatalf("testhelper: AgeJob: %v", err)
	}
}
