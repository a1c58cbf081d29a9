// Package detect turns decoded notifications into change events. It diffs
// each notification against the stored snapshot, classifies what changed and
// writes the snapshot and the resulting events in one transaction.
package detect

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/config"
	"github.com/heartmarshall/storewatch/internal/domain"
)

// Policy holds every classification threshold.
type Policy struct {
	// Relative price change at or above which a change is high / medium.
	PriceHighRatio   decimal.Decimal
	PriceMediumRatio decimal.Decimal

	// Undigested inventory_zero events for the same variant inside this
	// window suppress a new one.
	DedupWindow time.Duration
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		PriceHighRatio:   decimal.NewFromFloat(0.50),
		PriceMediumRatio: decimal.NewFromFloat(0.15),
		DedupWindow:      24 * time.Hour,
	}
}

// PolicyFromConfig builds a Policy from the detection config section.
func PolicyFromConfig(cfg config.DetectionConfig) Policy {
	return Policy{
		PriceHighRatio:   decimal.NewFromFloat(cfg.PriceHighRatio),
		PriceMediumRatio: decimal.NewFromFloat(cfg.PriceMediumRatio),
		DedupWindow:      cfg.DedupWindow,
	}
}

// fixedImportance is the importance of event types that are not graded by
// magnitude.
var fixedImportance = map[domain.EventType]domain.Importance{
	domain.EventCollectionCreated: domain.ImportanceLow,
	domain.EventCollectionUpdated: domain.ImportanceLow,
	domain.EventCollectionDeleted: domain.ImportanceHigh,
	domain.EventDiscountCreated:   domain.ImportanceMedium,
	domain.EventDiscountUpdated:   domain.ImportanceMedium,
	domain.EventDiscountDeleted:   domain.ImportanceHigh,
	domain.EventDomainChanged:     domain.ImportanceHigh,
	domain.EventDomainRemoved:     domain.ImportanceHigh,
	domain.EventProductCreated:    domain.ImportanceLow,
	domain.EventProductUpdated:    domain.ImportanceLow,
	domain.EventProductDeleted:    domain.ImportanceHigh,
	domain.EventThemePublish:      domain.ImportanceHigh,
	domain.EventInventoryZero:     domain.ImportanceHigh,
	domain.EventInventoryLow:      domain.ImportanceMedium,
}

// ImportanceOf returns the fixed importance of t. Graded types (price,
// visibility, permissions) report low.
func ImportanceOf(t domain.EventType) domain.Importance {
	if imp, ok := fixedImportance[t]; ok {
		return imp
	}
	return domain.ImportanceLow
}

// featureOf maps an event type to the plan feature gating it.
var featureOf = map[domain.EventType]domain.Feature{
	domain.EventPriceChange:           domain.FeaturePriceChanges,
	domain.EventVisibilityChange:      domain.FeatureVisibility,
	domain.EventInventoryZero:         domain.FeatureInventoryZero,
	domain.EventInventoryLow:          domain.FeatureLowStock,
	domain.EventThemePublish:          domain.FeatureThemePublish,
	domain.EventCollectionCreated:     domain.FeatureCollections,
	domain.EventCollectionUpdated:     domain.FeatureCollections,
	domain.EventCollectionDeleted:     domain.FeatureCollections,
	domain.EventDiscountCreated:       domain.FeatureDiscounts,
	domain.EventDiscountUpdated:       domain.FeatureDiscounts,
	domain.EventDiscountDeleted:       domain.FeatureDiscounts,
	domain.EventDomainChanged:         domain.FeatureDomains,
	domain.EventDomainRemoved:         domain.FeatureDomains,
	domain.EventAppPermissionsChanged: domain.FeatureAppPermissions,
	domain.EventProductCreated:        domain.FeatureProductChanges,
	domain.EventProductUpdated:        domain.FeatureProductChanges,
	domain.EventProductDeleted:        domain.FeatureProductChanges,
}

// enriched lists the event types that carry business context.
var enriched = map[domain.EventType]bool{
	domain.EventPriceChange:      true,
	domain.EventInventoryZero:    true,
	domain.EventInventoryLow:     true,
	domain.EventVisibilityChange: true,
	domain.EventThemePublish:     true,
}
