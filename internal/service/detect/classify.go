package detect

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// ClassifyPrice grades a price change. Any change to or from zero is high;
// otherwise the change relative to the old price decides.
func (p Policy) ClassifyPrice(oldPrice, newPrice decimal.Decimal) (domain.Importance, bool) {
	if oldPrice.Equal(newPrice) {
		return "", false
	}
	if oldPrice.IsZero() || newPrice.IsZero() {
		return domain.ImportanceHigh, true
	}

	ratio := newPrice.Sub(oldPrice).Abs().Div(oldPrice.Abs())
	switch {
	case ratio.GreaterThanOrEqual(p.PriceHighRatio):
		return domain.ImportanceHigh, true
	case ratio.GreaterThanOrEqual(p.PriceMediumRatio):
		return domain.ImportanceMedium, true
	}
	return domain.ImportanceLow, true
}

// ClassifyVisibility grades a status change. Leaving the storefront is high,
// returning to it is medium; moves between hidden states are not events.
func ClassifyVisibility(oldStatus, newStatus domain.ProductStatus) (domain.Importance, bool) {
	if oldStatus == newStatus {
		return "", false
	}
	switch {
	case oldStatus.Visible() && !newStatus.Visible():
		return domain.ImportanceHigh, true
	case !oldStatus.Visible() && newStatus.Visible():
		return domain.ImportanceMedium, true
	}
	return "", false
}

// ClassifyInventory decides whether a quantity change crosses zero or the low
// stock threshold. Without a previous quantity nothing is reported. Only an
// exact zero counts as a stockout; oversold (negative) quantities do not.
func ClassifyInventory(prev *int, next, threshold int) (domain.EventType, bool) {
	if prev == nil {
		return "", false
	}
	switch {
	case *prev > 0 && next == 0:
		return domain.EventInventoryZero, true
	case *prev > threshold && next <= threshold && next > 0:
		return domain.EventInventoryLow, true
	}
	return "", false
}

// ClassifyScopes diffs two permission sets. Gaining access is high, losing it
// medium, both high.
func ClassifyScopes(prev, next []string) (added, removed []string, imp domain.Importance, changed bool) {
	for _, s := range next {
		if !slices.Contains(prev, s) && !slices.Contains(added, s) {
			added = append(added, s)
		}
	}
	for _, s := range prev {
		if !slices.Contains(next, s) && !slices.Contains(removed, s) {
			removed = append(removed, s)
		}
	}
	slices.Sort(added)
	slices.Sort(removed)

	switch {
	case len(added) > 0:
		return added, removed, domain.ImportanceHigh, true
	case len(removed) > 0:
		return added, removed, domain.ImportanceMedium, true
	}
	return nil, nil, "", false
}
