// Package snapshot implements the Snapshot Store: the last materialized state
// of each tracked product and variant, used as the diff baseline. It also keeps
// the small per-tenant lookups the detection engine needs (resource display
// names and granted permission scopes).
//
// Every write is a single INSERT ... ON CONFLICT DO UPDATE so concurrent jobs
// for sibling variants never lose updates.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	postgres "github.com/heartmarshall/storewatch/internal/adapter/postgres"
	"github.com/heartmarshall/storewatch/internal/domain"
)

// Repo provides snapshot persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new snapshot repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

func lockSuffix(forUpdate bool) string {
	if forUpdate {
		return " FOR UPDATE"
	}
	return ""
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

const getProductSQL = `
SELECT tenant, product_id, title, description, vendor, product_type, status, tags,
       image_count, options, updated_at
  FROM product_snapshots
 WHERE tenant = $1 AND product_id = $2`

// GetProduct returns the product snapshot with its variants ordered by
// position, or nil when the product has never been observed. With forUpdate
// the product and variant rows stay locked until the surrounding transaction
// ends.
func (r *Repo) GetProduct(ctx context.Context, tenant, productID string, forUpdate bool) (*domain.ProductSnapshot, error) {
	var (
		p       domain.ProductSnapshot
		status  string
		options []byte
	)
	err := r.q(ctx).QueryRow(ctx, getProductSQL+lockSuffix(forUpdate), tenant, productID).Scan(
		&p.Tenant, &p.ProductID, &p.Title, &p.Description, &p.Vendor, &p.ProductType, &status,
		&p.Tags, &p.ImageCount, &options, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "product_snapshot", productID)
	}

	p.Status = domain.ProductStatus(status)
	if len(options) > 0 {
		if err := json.Unmarshal(options, &p.Options); err != nil {
			return nil, fmt.Errorf("product_snapshot %s: decode options: %w", productID, err)
		}
	}

	p.Variants, err = r.GetVariants(ctx, tenant, productID, forUpdate)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

const upsertProductSQL = `
INSERT INTO product_snapshots (tenant, product_id, title, description, vendor, product_type,
                               status, tags, image_count, options, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
ON CONFLICT (tenant, product_id) DO UPDATE
   SET title        = EXCLUDED.title,
       description  = EXCLUDED.description,
       vendor       = EXCLUDED.vendor,
       product_type = EXCLUDED.product_type,
       status       = EXCLUDED.status,
       tags         = EXCLUDED.tags,
       image_count  = EXCLUDED.image_count,
       options      = EXCLUDED.options,
       updated_at   = now()`

const pruneVariantsSQL = `
DELETE FROM variant_snapshots
 WHERE tenant = $1 AND product_id = $2 AND NOT (variant_id = ANY($3))`

// UpsertProduct writes the product row and replaces its variant set: variants
// in p are upserted, variants no longer present are removed. A stored
// inventory quantity is kept; only UpdateVariantInventory changes it.
func (r *Repo) UpsertProduct(ctx context.Context, p *domain.ProductSnapshot) error {
	options, err := json.Marshal(nonNilOptions(p.Options))
	if err != nil {
		return fmt.Errorf("product_snapshot %s: encode options: %w", p.ProductID, err)
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	q := r.q(ctx)
	_, err = q.Exec(ctx, upsertProductSQL,
		p.Tenant, p.ProductID, p.Title, p.Description, p.Vendor, p.ProductType,
		string(p.Status), tags, p.ImageCount, options,
	)
	if err != nil {
		return postgres.MapError(err, "product_snapshot", p.ProductID)
	}

	ids := make([]string, 0, len(p.Variants))
	batch := &pgx.Batch{}
	for i := range p.Variants {
		v := p.Variants[i]
		v.Tenant, v.ProductID = p.Tenant, p.ProductID
		ids = append(ids, v.VariantID)
		batch.Queue(upsertVariantSQL, variantArgs(&v)...)
	}

	if _, err := q.Exec(ctx, pruneVariantsSQL, p.Tenant, p.ProductID, ids); err != nil {
		return postgres.MapError(err, "product_snapshot", p.ProductID)
	}

	if batch.Len() == 0 {
		return nil
	}
	return sendBatchExec(ctx, q, batch)
}

const deleteProductSQL = `DELETE FROM product_snapshots WHERE tenant = $1 AND product_id = $2`

// DeleteProduct removes the product snapshot; variant rows cascade. Returns
// false when there was nothing to delete.
func (r *Repo) DeleteProduct(ctx context.Context, tenant, productID string) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, deleteProductSQL, tenant, productID)
	if err != nil {
		return false, postgres.MapError(err, "product_snapshot", productID)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Variants
// ---------------------------------------------------------------------------

const variantColumns = `tenant, product_id, variant_id, title, price::text, compare_at_price::text,
       sku, inventory_item_id, inventory_quantity, weight::text, position, updated_at`

const getVariantsSQL = `
SELECT ` + variantColumns + `
  FROM variant_snapshots
 WHERE tenant = $1 AND product_id = $2
 ORDER BY position, variant_id`

// GetVariants returns all variant snapshots of a product ordered by position.
func (r *Repo) GetVariants(ctx context.Context, tenant, productID string, forUpdate bool) ([]domain.VariantSnapshot, error) {
	rows, err := r.q(ctx).Query(ctx, getVariantsSQL+lockSuffix(forUpdate), tenant, productID)
	if err != nil {
		return nil, fmt.Errorf("list variant_snapshots: %w", err)
	}
	defer rows.Close()

	variants := []domain.VariantSnapshot{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant_snapshot: %w", err)
		}
		variants = append(variants, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant_snapshots: %w", err)
	}

	return variants, nil
}

const getVariantSQL = `
SELECT ` + variantColumns + `
  FROM variant_snapshots
 WHERE tenant = $1 AND product_id = $2 AND variant_id = $3`

// GetVariant returns one variant snapshot or nil when unknown.
func (r *Repo) GetVariant(ctx context.Context, tenant, productID, variantID string, forUpdate bool) (*domain.VariantSnapshot, error) {
	v, err := scanVariant(r.q(ctx).QueryRow(ctx, getVariantSQL+lockSuffix(forUpdate), tenant, productID, variantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "variant_snapshot", variantID)
	}
	return v, nil
}

const upsertVariantSQL = `
INSERT INTO variant_snapshots (tenant, product_id, variant_id, title, price, compare_at_price, sku,
                               inventory_item_id, inventory_quantity, weight, position, updated_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, $10::numeric, $11, now())
ON CONFLICT (tenant, product_id, variant_id) DO UPDATE
   SET title              = EXCLUDED.title,
       price              = EXCLUDED.price,
       compare_at_price   = EXCLUDED.compare_at_price,
       sku                = EXCLUDED.sku,
       inventory_item_id  = EXCLUDED.inventory_item_id,
       inventory_quantity = COALESCE(variant_snapshots.inventory_quantity, EXCLUDED.inventory_quantity),
       weight             = EXCLUDED.weight,
       position           = EXCLUDED.position,
       updated_at         = now()`

// UpsertVariant writes one variant row. The product row must already exist.
func (r *Repo) UpsertVariant(ctx context.Context, v *domain.VariantSnapshot) error {
	if _, err := r.q(ctx).Exec(ctx, upsertVariantSQL, variantArgs(v)...); err != nil {
		return postgres.MapError(err, "variant_snapshot", v.VariantID)
	}
	return nil
}

const updateInventorySQL = `
UPDATE variant_snapshots
   SET inventory_quantity = $4, updated_at = now()
 WHERE tenant = $1 AND product_id = $2 AND variant_id = $3`

// UpdateVariantInventory stores a new aggregated quantity for a known variant.
// It reports false when the variant has no snapshot yet.
func (r *Repo) UpdateVariantInventory(ctx context.Context, tenant, productID, variantID string, qty int) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, updateInventorySQL, tenant, productID, variantID, qty)
	if err != nil {
		return false, postgres.MapError(err, "variant_snapshot", variantID)
	}
	return tag.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func variantArgs(v *domain.VariantSnapshot) []any {
	return []any{
		v.Tenant, v.ProductID, v.VariantID, v.Title, v.Price.String(), decimalPtrToText(v.CompareAtPrice),
		v.SKU, v.InventoryItemID, v.InventoryQuantity, decimalPtrToText(v.Weight), v.Position,
	}
}

func scanVariant(row pgx.Row) (*domain.VariantSnapshot, error) {
	var (
		v                 domain.VariantSnapshot
		price             string
		compareAt, weight *string
	)
	err := row.Scan(
		&v.Tenant, &v.ProductID, &v.VariantID, &v.Title, &price, &compareAt,
		&v.SKU, &v.InventoryItemID, &v.InventoryQuantity, &weight, &v.Position, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if v.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	if v.CompareAtPrice, err = textToDecimalPtr(compareAt); err != nil {
		return nil, fmt.Errorf("parse compare_at_price: %w", err)
	}
	if v.Weight, err = textToDecimalPtr(weight); err != nil {
		return nil, fmt.Errorf("parse weight: %w", err)
	}

	return &v, nil
}

func decimalPtrToText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func textToDecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nonNilOptions(o []domain.ProductOption) []domain.ProductOption {
	if o == nil {
		return []domain.ProductOption{}
	}
	return o
}

func sendBatchExec(ctx context.Context, q postgres.Querier, batch *pgx.Batch) error {
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}

	return nil
}
