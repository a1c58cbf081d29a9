package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductOption is one option axis of a product (e.g. Size: S, M, L).
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ProductSnapshot is the last materialized state of a tracked product.
type ProductSnapshot struct {
	Tenant      string
	ProductID   string
	Title       string
	Description string
	Vendor      string
	ProductType string
	Status      ProductStatus
	Tags        []string
	ImageCount  int
	Options     []ProductOption
	UpdatedAt   time.Time

	// Variants is populated by the snapshot store on read, ordered by position.
	Variants []VariantSnapshot
}

// FirstVariant returns the lowest-position variant, if any.
func (p *ProductSnapshot) FirstVariant() *VariantSnapshot {
	if p == nil || len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// Variant returns the variant with the given id, if present.
func (p *ProductSnapshot) Variant(id string) *VariantSnapshot {
	if p == nil {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].VariantID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// VariantSnapshot is the last materialized state of a product variant.
type VariantSnapshot struct {
	Tenant            string
	ProductID         string
	VariantID         string
	Title             string
	Price             decimal.Decimal
	CompareAtPrice    *decimal.Decimal
	SKU               string
	InventoryItemID   string
	InventoryQuantity *int
	Weight            *decimal.Decimal
	Position          int
	UpdatedAt         time.Time
}
