package domain

import "slices"

// Plan is a subscription tier. Plan transitions are owned by billing.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStarter  Plan = "starter"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Feature is a trackable change category gated by plan.
type Feature string

const (
	FeaturePriceChanges    Feature = "price_changes"
	FeatureVisibility      Feature = "visibility_changes"
	FeatureInventoryZero   Feature = "inventory_zero"
	FeatureLowStock        Feature = "low_stock"
	FeatureProductChanges  Feature = "product_changes"
	FeatureThemePublish    Feature = "theme_publish"
	FeatureCollections     Feature = "collection_changes"
	FeatureDiscounts       Feature = "discount_changes"
	FeatureDomains         Feature = "domain_changes"
	FeatureAppPermissions  Feature = "app_permissions"
	FeatureInstantAlerts   Feature = "instant_alerts"
	FeatureRevenueEstimate Feature = "revenue_estimates"
)

var planFeatures = map[Plan][]Feature{
	PlanFree: {
		FeaturePriceChanges, FeatureInventoryZero, FeatureProductChanges,
	},
	PlanStarter: {
		FeaturePriceChanges, FeatureInventoryZero, FeatureProductChanges,
		FeatureVisibility, FeatureLowStock, FeatureThemePublish,
	},
	PlanPro: {
		FeaturePriceChanges, FeatureInventoryZero, FeatureProductChanges,
		FeatureVisibility, FeatureLowStock, FeatureThemePublish,
		FeatureCollections, FeatureDiscounts, FeatureDomains, FeatureAppPermissions,
		FeatureInstantAlerts, FeatureRevenueEstimate,
	},
}

func init() {
	planFeatures[PlanBusiness] = planFeatures[PlanPro]
}

// Allows reports whether the plan includes the feature. Unknown plans get nothing.
func (p Plan) Allows(f Feature) bool {
	return slices.Contains(planFeatures[p], f)
}

// DefaultLowStockThreshold applies when a tenant has not configured one.
const DefaultLowStockThreshold = 5

// Tenant holds per-shop settings consumed by the pipeline.
type Tenant struct {
	Tenant            string
	Plan              Plan
	AccessToken       string
	LowStockThreshold int
	InstantAlerts     bool
	AlertEmail        *string
	DisabledFeatures  []Feature
}

// CanTrack reports whether the tenant's plan allows the feature and the tenant
// has not switched it off.
func (t Tenant) CanTrack(f Feature) bool {
	if !t.Plan.Allows(f) {
		return false
	}
	return !slices.Contains(t.DisabledFeatures, f)
}
