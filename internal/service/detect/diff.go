package detect

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// Field names reported by DiffProduct.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldVendor         = "vendor"
	FieldProductType    = "product_type"
	FieldStatus         = "status"
	FieldTags           = "tags"
	FieldImages         = "image_count"
	FieldOptions        = "options"
	FieldVariants       = "variant_count"
	FieldPrice          = "price"
	FieldCompareAtPrice = "compare_at_price"
	FieldSKU            = "sku"
	FieldInventory      = "inventory"
)

var fieldLabels = map[string]string{
	FieldTitle:          "Title",
	FieldDescription:    "Description",
	FieldVendor:         "Vendor",
	FieldProductType:    "Product type",
	FieldStatus:         "Status",
	FieldTags:           "Tags",
	FieldImages:         "Images",
	FieldOptions:        "Options",
	FieldVariants:       "Variants",
	FieldPrice:          "Price",
	FieldCompareAtPrice: "Compare-at price",
	FieldSKU:            "SKU",
	FieldInventory:      "Inventory",
}

// FieldChange is one changed product attribute.
type FieldChange struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// DiffProduct compares two snapshots of the same product. Variant level
// fields are taken from the first variant.
func DiffProduct(prev, next *domain.ProductSnapshot) []FieldChange {
	var changes []FieldChange
	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, FieldChange{
				Field: field, Label: fieldLabels[field], Old: oldValue, New: newValue,
			})
		}
	}

	add(FieldTitle, prev.Title, next.Title)
	add(FieldDescription, prev.Description, next.Description)
	add(FieldVendor, prev.Vendor, next.Vendor)
	add(FieldProductType, prev.ProductType, next.ProductType)
	add(FieldStatus, string(prev.Status), string(next.Status))
	add(FieldTags, joinSorted(prev.Tags), joinSorted(next.Tags))
	add(FieldImages, strconv.Itoa(prev.ImageCount), strconv.Itoa(next.ImageCount))
	add(FieldOptions, formatOptions(prev.Options), formatOptions(next.Options))
	add(FieldVariants, strconv.Itoa(len(prev.Variants)), strconv.Itoa(len(next.Variants)))

	pv, nv := prev.FirstVariant(), next.FirstVariant()
	if pv != nil && nv != nil {
		add(FieldPrice, pv.Price.String(), nv.Price.String())
		add(FieldCompareAtPrice, formatDecimal(pv.CompareAtPrice), formatDecimal(nv.CompareAtPrice))
		add(FieldSKU, pv.SKU, nv.SKU)
		add(FieldInventory, formatQuantity(pv.InventoryQuantity), formatQuantity(nv.InventoryQuantity))
	}

	return changes
}

const describeValueMax = 60

// Describe renders a one-line summary of a change set.
func Describe(changes []FieldChange) string {
	switch n := len(changes); {
	case n == 0:
		return ""
	case n == 1:
		c := changes[0]
		return fmt.Sprintf("%s: %s → %s", c.Label, clip(orNone(c.Old)), clip(orNone(c.New)))
	case n <= 3:
		labels := make([]string, n)
		for i, c := range changes {
			labels[i] = c.Label
		}
		return strings.Join(labels, ", ") + " changed"
	default:
		return fmt.Sprintf("%d fields changed", n)
	}
}

// BuildSnapshot materializes a product notification into a snapshot.
// Variants are ordered by position.
func BuildSnapshot(tenant string, p *webhook.ProductPayload) domain.ProductSnapshot {
	s := domain.ProductSnapshot{
		Tenant:      tenant,
		ProductID:   p.ID.String(),
		Title:       p.Title,
		Description: p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Status:      domain.ProductStatus(strings.ToLower(p.Status)),
		Tags:        []string(p.Tags),
		ImageCount:  len(p.Images),
	}
	if s.Status == "" {
		s.Status = domain.ProductStatusActive
	}
	for _, o := range p.Options {
		s.Options = append(s.Options, domain.ProductOption{Name: o.Name, Values: o.Values})
	}

	s.Variants = make([]domain.VariantSnapshot, 0, len(p.Variants))
	for _, v := range p.Variants {
		vs := domain.VariantSnapshot{
			Tenant:            tenant,
			ProductID:         s.ProductID,
			VariantID:         v.ID.String(),
			Title:             v.Title,
			Price:             v.Price.Amount,
			CompareAtPrice:    v.CompareAtPrice.Ptr(),
			SKU:               v.SKU,
			InventoryItemID:   v.InventoryItemID.String(),
			InventoryQuantity: v.InventoryQuantity,
			Position:          v.Position,
		}
		if v.Weight != nil {
			w := decimal.NewFromFloat(*v.Weight)
			vs.Weight = &w
		}
		s.Variants = append(s.Variants, vs)
	}
	slices.SortStableFunc(s.Variants, func(a, b domain.VariantSnapshot) int {
		return a.Position - b.Position
	})

	return s
}

func joinSorted(tags []string) string {
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	return strings.Join(sorted, ", ")
}

func formatOptions(opts []domain.ProductOption) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.Name + ": " + strings.Join(o.Values, "/")
	}
	return strings.Join(parts, "; ")
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatQuantity(q *int) string {
	if q == nil {
		return ""
	}
	return strconv.Itoa(*q)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= describeValueMax {
		return s
	}
	return string(r[:describeValueMax]) + "…"
}
