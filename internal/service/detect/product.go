package detect

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/service/enrich"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// productEventFields are the fields reported as product_updated. Status and
// price have their own events and inventory is tracked through inventory
// level notifications.
var productEventFields = map[string]bool{
	FieldTitle:          true,
	FieldDescription:    true,
	FieldVendor:         true,
	FieldProductType:    true,
	FieldTags:           true,
	FieldImages:         true,
	FieldOptions:        true,
	FieldVariants:       true,
	FieldCompareAtPrice: true,
	FieldSKU:            true,
}

// HandleProduct processes products/create and products/update. The first
// observation of a product only records the baseline, except on create where
// a product_created event is also emitted.
func (e *Engine) HandleProduct(ctx context.Context, job domain.Job, p *webhook.ProductPayload) ([]domain.ChangeEvent, error) {
	next := BuildSnapshot(job.Tenant, p)

	var out []domain.ChangeEvent
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		prev, err := e.snapshots.GetProduct(ctx, job.Tenant, next.ProductID, true)
		if err != nil {
			return fmt.Errorf("load product snapshot: %w", err)
		}
		keepBaselines(prev, &next, p)
		if err := e.snapshots.UpsertProduct(ctx, &next); err != nil {
			return fmt.Errorf("store product snapshot: %w", err)
		}

		var candidates []candidate
		if prev == nil {
			if job.Topic != webhook.TopicProductsCreate {
				e.log.DebugContext(ctx, "product baseline recorded",
					slog.String("tenant", job.Tenant), slog.String("product_id", next.ProductID))
				return nil
			}
			candidates = append(candidates, candidate{
				entityType: domain.EntityTypeProduct,
				entityID:   next.ProductID,
				eventType:  domain.EventProductCreated,
				name:       next.Title,
				after:      ptr(next.Title),
				importance: ImportanceOf(domain.EventProductCreated),
				ctx:        eventContext{Summary: "Product created: " + next.Title},
			})
		} else {
			candidates = e.productChanges(prev, &next)
		}

		if len(candidates) == 0 {
			return nil
		}
		if author := e.attribute(ctx, job.Tenant, "Product", next.ProductID, webhook.Verb(job.Topic)); author != nil {
			for i := range candidates {
				candidates[i].ctx.ChangedBy = author
			}
		}

		out, err = e.emit(ctx, job, candidates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// keepBaselines carries over state a product notification must not overwrite.
// The stored inventory quantity belongs to the inventory handler, which keeps
// the aggregated total; a product payload only seeds it. A variant sent
// without a price keeps its previous price.
func keepBaselines(prev, next *domain.ProductSnapshot, p *webhook.ProductPayload) {
	if prev == nil {
		return
	}
	priced := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		if v.Price.Valid {
			priced[v.ID.String()] = true
		}
	}
	for i := range next.Variants {
		nv := &next.Variants[i]
		pv := prev.Variant(nv.VariantID)
		if pv == nil {
			continue
		}
		if pv.InventoryQuantity != nil {
			q := *pv.InventoryQuantity
			nv.InventoryQuantity = &q
		}
		if !priced[nv.VariantID] {
			nv.Price = pv.Price
		}
	}
}

func (e *Engine) productChanges(prev, next *domain.ProductSnapshot) []candidate {
	var out []candidate

	for i := range next.Variants {
		nv := &next.Variants[i]
		pv := prev.Variant(nv.VariantID)
		if pv == nil {
			continue
		}
		imp, changed := e.policy.ClassifyPrice(pv.Price, nv.Price)
		if !changed {
			continue
		}
		oldPrice, newPrice := pv.Price, nv.Price
		out = append(out, candidate{
			entityType: domain.EntityTypeVariant,
			entityID:   nv.VariantID,
			eventType:  domain.EventPriceChange,
			name:       variantName(next.Title, nv.Title),
			before:     ptr(oldPrice.String()),
			after:      ptr(newPrice.String()),
			importance: imp,
			keySuffix:  nv.VariantID,
			productID:  next.ProductID,
			enrich:     enrich.Input{OldPrice: &oldPrice, NewPrice: &newPrice, UnitPrice: newPrice},
		})
	}

	if imp, changed := ClassifyVisibility(prev.Status, next.Status); changed {
		c := candidate{
			entityType: domain.EntityTypeProduct,
			entityID:   next.ProductID,
			eventType:  domain.EventVisibilityChange,
			name:       next.Title,
			before:     ptr(string(prev.Status)),
			after:      ptr(string(next.Status)),
			importance: imp,
			productID:  next.ProductID,
		}
		c.enrich.Hidden = !next.Status.Visible()
		if v := next.FirstVariant(); v != nil {
			c.enrich.UnitPrice = v.Price
		}
		out = append(out, c)
	}

	var fields []FieldChange
	for _, fc := range DiffProduct(prev, next) {
		if productEventFields[fc.Field] {
			fields = append(fields, fc)
		}
	}
	if len(fields) > 0 {
		c := candidate{
			entityType: domain.EntityTypeProduct,
			entityID:   next.ProductID,
			eventType:  domain.EventProductUpdated,
			name:       next.Title,
			importance: ImportanceOf(domain.EventProductUpdated),
			ctx:        eventContext{Summary: Describe(fields), Changes: fields},
		}
		if len(fields) == 1 {
			c.before, c.after = ptr(fields[0].Old), ptr(fields[0].New)
		}
		out = append(out, c)
	}

	return out
}

// HandleProductDelete processes products/delete. The event is emitted even
// when the product was never observed.
func (e *Engine) HandleProductDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error) {
	productID := p.Entity()

	var out []domain.ChangeEvent
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		prev, err := e.snapshots.GetProduct(ctx, job.Tenant, productID, true)
		if err != nil {
			return fmt.Errorf("load product snapshot: %w", err)
		}
		if _, err := e.snapshots.DeleteProduct(ctx, job.Tenant, productID); err != nil {
			return fmt.Errorf("delete product snapshot: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeProduct,
			entityID:   productID,
			eventType:  domain.EventProductDeleted,
			name:       "Product " + productID,
			importance: ImportanceOf(domain.EventProductDeleted),
		}
		if prev != nil {
			c.name = prev.Title
			c.before = ptr(prev.Title)
		}
		c.ctx.Summary = "Product deleted: " + c.name
		c.ctx.ChangedBy = e.attribute(ctx, job.Tenant, "Product", productID, "destroy")

		out, err = e.emit(ctx, job, []candidate{c})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func variantName(product, variant string) string {
	if variant == "" || strings.EqualFold(variant, "Default Title") {
		return product
	}
	return product + " - " + variant
}
