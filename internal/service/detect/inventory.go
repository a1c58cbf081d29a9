package detect

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// HandleInventory processes inventory_levels/* notifications. The quantity
// compared against the snapshot is the sum over all locations, never the
// single level in the payload.
func (e *Engine) HandleInventory(ctx context.Context, job domain.Job, p *webhook.InventoryLevelPayload) ([]domain.ChangeEvent, error) {
	itemID := p.InventoryItemID.String()
	log := e.log.With(slog.String("tenant", job.Tenant), slog.String("inventory_item_id", itemID))

	ref, err := e.catalog.FetchVariantByInventoryItem(ctx, job.Tenant, itemID)
	if err != nil {
		return nil, fmt.Errorf("resolve inventory item: %w", err)
	}
	if ref == nil {
		log.DebugContext(ctx, "inventory item has no variant")
		return nil, nil
	}

	agg := e.stock.Aggregate(ctx, job.Tenant, itemID, p.LocationID.String())
	if !agg.Known {
		metrics.RecordSuppressed("inventory_unknown")
		log.WarnContext(ctx, "inventory total unavailable, skipping diff", slog.Int("pages", agg.Pages))
		return nil, nil
	}

	threshold, err := e.settings.LowStockThreshold(ctx, job.Tenant)
	if err != nil {
		return nil, fmt.Errorf("low stock threshold: %w", err)
	}

	var out []domain.ChangeEvent
	err = e.tx.RunInTx(ctx, func(ctx context.Context) error {
		v, err := e.snapshots.GetVariant(ctx, job.Tenant, ref.ProductID, ref.VariantID, true)
		if err != nil {
			return fmt.Errorf("load variant snapshot: %w", err)
		}
		if v == nil {
			log.DebugContext(ctx, "no variant baseline yet", slog.String("variant_id", ref.VariantID))
			return nil
		}

		eventType, crossed := ClassifyInventory(v.InventoryQuantity, agg.Total, threshold)
		if _, err := e.snapshots.UpdateVariantInventory(ctx, job.Tenant, ref.ProductID, ref.VariantID, agg.Total); err != nil {
			return fmt.Errorf("store inventory: %w", err)
		}
		if !crossed {
			return nil
		}

		if eventType == domain.EventInventoryZero {
			since := e.now().Add(-e.policy.DedupWindow)
			dup, err := e.events.ExistsRecent(ctx, job.Tenant, ref.VariantID, eventType, since)
			if err != nil {
				return err
			}
			if dup {
				metrics.RecordSuppressed("dedup")
				log.DebugContext(ctx, "inventory_zero suppressed inside dedup window",
					slog.String("variant_id", ref.VariantID), slog.Duration("window", e.policy.DedupWindow))
				return nil
			}
		}

		qty := agg.Total
		c := candidate{
			entityType: domain.EntityTypeVariant,
			entityID:   ref.VariantID,
			eventType:  eventType,
			name:       variantName(ref.ProductTitle, ref.Title),
			before:     ptr(strconv.Itoa(*v.InventoryQuantity)),
			after:      ptr(strconv.Itoa(qty)),
			importance: ImportanceOf(eventType),
			keySuffix:  ref.VariantID,
			productID:  ref.ProductID,
			ctx: eventContext{
				Location:  agg.LocationName,
				Truncated: agg.Truncated,
			},
		}
		c.enrich.Quantity = &qty
		c.enrich.LocationName = agg.LocationName
		c.enrich.UnitPrice = v.Price

		out, err = e.emit(ctx, job, []candidate{c})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
