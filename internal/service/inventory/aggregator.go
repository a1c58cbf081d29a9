// Package inventory sums an item's available stock across all locations.
package inventory

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/storewatch/internal/adapter/catalog"
	"github.com/heartmarshall/storewatch/internal/metrics"
)

type levelsFetcher interface {
	FetchInventoryLevels(ctx context.Context, tenant, inventoryItemID, cursor string, first int) (*catalog.InventoryPage, error)
}

// Aggregate is the result of one aggregation. Known is false when any page
// failed; the other fields are then zero and must not be used as a baseline.
type Aggregate struct {
	Total        int
	Known        bool
	Truncated    bool
	LocationName *string
	Pages        int
}

// Aggregator pages through inventory levels.
type Aggregator struct {
	levels   levelsFetcher
	pageSize int
	maxPages int
	log      *slog.Logger
}

// NewAggregator creates an Aggregator fetching pageSize levels per request
// and at most maxPages pages per item.
func NewAggregator(log *slog.Logger, levels levelsFetcher, pageSize, maxPages int) *Aggregator {
	return &Aggregator{
		levels:   levels,
		pageSize: pageSize,
		maxPages: maxPages,
		log:      log.With("service", "inventory"),
	}
}

// Aggregate returns the total available quantity of the item. The name of the
// location matching triggeringLocationID is reported when it is seen. Errors
// are logged and reported as Known=false; they are never returned.
func (a *Aggregator) Aggregate(ctx context.Context, tenant, inventoryItemID, triggeringLocationID string) Aggregate {
	var (
		agg    Aggregate
		cursor string
	)

	for agg.Pages < a.maxPages {
		page, err := a.levels.FetchInventoryLevels(ctx, tenant, inventoryItemID, cursor, a.pageSize)
		if err != nil {
			a.log.WarnContext(ctx, "inventory aggregation failed",
				slog.String("tenant", tenant),
				slog.String("inventory_item_id", inventoryItemID),
				slog.Int("page", agg.Pages+1),
				slog.String("error", err.Error()),
			)
			return Aggregate{Pages: agg.Pages}
		}
		agg.Pages++

		for _, l := range page.Levels {
			agg.Total += l.Available
			if agg.LocationName == nil && l.LocationID == triggeringLocationID && l.LocationName != "" {
				name := l.LocationName
				agg.LocationName = &name
			}
		}

		if !page.HasNextPage || page.EndCursor == "" {
			agg.Known = true
			metrics.RecordAggregation(agg.Pages, false)
			return agg
		}
		cursor = page.EndCursor
	}

	agg.Known = true
	agg.Truncated = true
	metrics.RecordAggregation(agg.Pages, true)

	a.log.WarnContext(ctx, "inventory aggregation truncated",
		slog.String("tenant", tenant),
		slog.String("inventory_item_id", inventoryItemID),
		slog.Int("pages", agg.Pages),
		slog.Int("partial_total", agg.Total),
	)
	return agg
}
