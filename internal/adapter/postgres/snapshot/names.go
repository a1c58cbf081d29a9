package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/domain"
)

// ---------------------------------------------------------------------------
// Resource display names
// ---------------------------------------------------------------------------

const getNameSQL = `
SELECT name FROM resource_names
 WHERE tenant = $1 AND entity_type = $2 AND entity_id = $3`

// GetName returns the last known display name of a collection, discount or
// domain, or nil when never seen.
func (r *Repo) GetName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) (*string, error) {
	var name string
	err := r.q(ctx).QueryRow(ctx, getNameSQL, tenant, string(entityType), entityID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "resource_name", entityID)
	}
	return &name, nil
}

const upsertNameSQL = `
INSERT INTO resource_names (tenant, entity_type, entity_id, name, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (tenant, entity_type, entity_id) DO UPDATE
   SET name = EXCLUDED.name, updated_at = now()`

// UpsertName records the current display name.
func (r *Repo) UpsertName(ctx context.Context, tenant string, entityType domain.EntityType, entityID, name string) error {
	if _, err := r.q(ctx).Exec(ctx, upsertNameSQL, tenant, string(entityType), entityID, name); err != nil {
		return postgres.MapError(err, "resource_name", entityID)
	}
	return nil
}

const deleteNameSQL = `
DELETE FROM resource_names
 WHERE tenant = $1 AND entity_type = $2 AND entity_id = $3`

// DeleteName forgets the display name after a deletion event was recorded.
func (r *Repo) DeleteName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) error {
	if _, err := r.q(ctx).Exec(ctx, deleteNameSQL, tenant, string(entityType), entityID); err != nil {
		return postgres.MapError(err, "resource_name", entityID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Granted permission scopes
// ---------------------------------------------------------------------------

// GetScopes returns the last stored scope set. ok is false when the tenant
// has no stored set yet.
func (r *Repo) GetScopes(ctx context.Context, tenant string, forUpdate bool) (scopes []string, ok bool, err error) {
	err = r.q(ctx).QueryRow(ctx,
		`SELECT scopes FROM tenant_scopes WHERE tenant = $1`+lockSuffix(forUpdate), tenant,
	).Scan(&scopes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tenant_scopes %s: %w", tenant, err)
	}
	return scopes, true, nil
}

const putScopesSQL = `
INSERT INTO tenant_scopes (tenant, scopes, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (tenant) DO UPDATE
   SET scopes = EXCLUDED.scopes, updated_at = now()`

// PutScopes replaces the stored scope set.
func (r *Repo) PutScopes(ctx context.Context, tenant string, scopes []string) error {
	if scopes == nil {
		scopes = []string{}
	}
	if _, err := r.q(ctx).Exec(ctx, putScopesSQL, tenant, scopes); err != nil {
		return fmt.Errorf("tenant_scopes %s: %w", tenant, err)
	}
	return nil
}
