// Package enrich attaches business context to change events: how fast the
// product sells and a rough money impact of the change.
//
// Estimates are coarse. A price drop is assumed to go unnoticed
// for DiscoveryDays; a stockout or hidden product for DiscoveryHours; either
// way only Factor of the naive figure is reported.
package enrich

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// Params tunes the estimates.
type Params struct {
	DiscoveryHours float64
	DiscoveryDays  float64
	Factor         float64
}

// DefaultParams returns the production estimate parameters.
func DefaultParams() Params {
	return Params{DiscoveryHours: 2, DiscoveryDays: 3, Factor: 0.5}
}

// Input describes the change being enriched.
type Input struct {
	EventType    domain.EventType
	ResourceName string
	Velocity     *domain.Velocity

	// Price changes.
	OldPrice *decimal.Decimal
	NewPrice *decimal.Decimal

	// Current unit price, used when sales data has no average.
	UnitPrice decimal.Decimal

	// Inventory events.
	Quantity     *int
	LocationName *string

	// Visibility changes: true when the product stopped being visible.
	Hidden bool
}

// Context is the enrichment merged into an event's context.
type Context struct {
	Summary       string           `json:"summary"`
	Velocity      *string          `json:"velocity,omitempty"`
	RevenueAtRisk *decimal.Decimal `json:"revenue_at_risk,omitempty"`
	MoneySaved    *decimal.Decimal `json:"money_saved,omitempty"`
}

// Enricher computes event context.
type Enricher struct {
	p Params
}

// New creates an Enricher.
func New(p Params) *Enricher {
	return &Enricher{p: p}
}

// Enrich is pure: it only reads in.
func (e *Enricher) Enrich(in Input) *Context {
	out := &Context{Summary: summary(in)}

	v := in.Velocity
	if v == nil {
		return out
	}
	if d := DescribeVelocity(*v); d != "" {
		out.Velocity = &d
	}
	if v.DailySalesRate <= 0 {
		return out
	}

	switch in.EventType {
	case domain.EventPriceChange:
		out.MoneySaved = e.moneySaved(v.DailySalesRate, in.OldPrice, in.NewPrice)
	case domain.EventInventoryZero:
		out.RevenueAtRisk = e.revenueAtRisk(*v, in.UnitPrice)
	case domain.EventVisibilityChange:
		if in.Hidden {
			out.RevenueAtRisk = e.revenueAtRisk(*v, in.UnitPrice)
		}
	}

	return out
}

// moneySaved estimates what catching a price drop early saves. Increases
// carry no estimate.
func (e *Enricher) moneySaved(daily float64, oldPrice, newPrice *decimal.Decimal) *decimal.Decimal {
	if oldPrice == nil || newPrice == nil || !newPrice.LessThan(*oldPrice) {
		return nil
	}
	drop := oldPrice.Sub(*newPrice)
	est := decimal.NewFromFloat(daily).
		Mul(decimal.NewFromFloat(e.p.DiscoveryDays)).
		Mul(drop).
		Mul(decimal.NewFromFloat(e.p.Factor)).
		Round(2)
	return &est
}

// revenueAtRisk estimates sales lost while a product cannot be bought.
func (e *Enricher) revenueAtRisk(v domain.Velocity, fallback decimal.Decimal) *decimal.Decimal {
	unit, ok := v.AverageUnitPrice()
	if !ok {
		unit = fallback
	}
	if !unit.IsPositive() {
		return nil
	}
	est := decimal.NewFromFloat(v.DailySalesRate).
		Div(decimal.NewFromInt(24)).
		Mul(decimal.NewFromFloat(e.p.DiscoveryHours)).
		Mul(unit).
		Mul(decimal.NewFromFloat(e.p.Factor)).
		Round(2)
	return &est
}

// DescribeVelocity renders sales speed for people: per day when at least one
// sells daily, per week when at least one sells weekly, else the period total.
// Returns "" when nothing sold in the period.
func DescribeVelocity(v domain.Velocity) string {
	switch {
	case v.DailySalesRate >= 1:
		return "selling " + formatRate(v.DailySalesRate) + "/day"
	case v.DailySalesRate*7 >= 1:
		return "selling ~" + strconv.Itoa(int(math.Round(v.DailySalesRate*7))) + "/week"
	case v.TotalUnitsSold > 0:
		return fmt.Sprintf("sold %d in last %d days", v.TotalUnitsSold, v.PeriodDays)
	}
	return ""
}

func formatRate(r float64) string {
	return strconv.FormatFloat(math.Round(r*10)/10, 'f', -1, 64)
}

func summary(in Input) string {
	name := in.ResourceName
	if name == "" {
		name = "Item"
	}

	switch in.EventType {
	case domain.EventPriceChange:
		if in.OldPrice != nil && in.NewPrice != nil {
			return fmt.Sprintf("%s price changed from %s to %s", name, in.OldPrice.StringFixed(2), in.NewPrice.StringFixed(2))
		}
		return name + " price changed"
	case domain.EventInventoryZero:
		if in.LocationName != nil {
			return fmt.Sprintf("%s is out of stock (last change at %s)", name, *in.LocationName)
		}
		return name + " is out of stock"
	case domain.EventInventoryLow:
		if in.Quantity != nil {
			return fmt.Sprintf("%s is running low: %d left", name, *in.Quantity)
		}
		return name + " is running low"
	case domain.EventVisibilityChange:
		if in.Hidden {
			return name + " is no longer visible in the store"
		}
		return name + " is visible in the store again"
	case domain.EventThemePublish:
		return fmt.Sprintf("Theme %q was published", name)
	}
	return name + " changed"
}
