package domain

// JobStatus represents the lifecycle state of a queued webhook job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

func (s JobStatus) String() string { return string(s) }

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Importance is the severity classification of a change event.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

func (i Importance) String() string { return string(i) }

func (i Importance) IsValid() bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return true
	}
	return false
}

// Rank orders importances: low < medium < high. Unknown values rank 0.
func (i Importance) Rank() int {
	switch i {
	case ImportanceLow:
		return 1
	case ImportanceMedium:
		return 2
	case ImportanceHigh:
		return 3
	}
	return 0
}

// AtLeast reports whether i is as severe as floor.
func (i Importance) AtLeast(floor Importance) bool { return i.Rank() >= floor.Rank() }

// EntityType identifies the kind of catalog entity a change event refers to.
type EntityType string

const (
	EntityTypeProduct    EntityType = "product"
	EntityTypeVariant    EntityType = "variant"
	EntityTypeCollection EntityType = "collection"
	EntityTypeDiscount   EntityType = "discount"
	EntityTypeDomain     EntityType = "domain"
	EntityTypeTheme      EntityType = "theme"
	EntityTypeApp        EntityType = "app"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypeProduct, EntityTypeVariant, EntityTypeCollection, EntityTypeDiscount,
		EntityTypeDomain, EntityTypeTheme, EntityTypeApp:
		return true
	}
	return false
}

// EventType is the closed set of change event kinds.
type EventType string

const (
	EventPriceChange           EventType = "price_change"
	EventVisibilityChange      EventType = "visibility_change"
	EventInventoryZero         EventType = "inventory_zero"
	EventInventoryLow          EventType = "inventory_low"
	EventInventoryUpdate       EventType = "inventory_update"
	EventThemePublish          EventType = "theme_publish"
	EventCollectionCreated     EventType = "collection_created"
	EventCollectionUpdated     EventType = "collection_updated"
	EventCollectionDeleted     EventType = "collection_deleted"
	EventDiscountCreated       EventType = "discount_created"
	EventDiscountUpdated       EventType = "discount_updated"
	EventDiscountDeleted       EventType = "discount_deleted"
	EventDomainChanged         EventType = "domain_changed"
	EventDomainRemoved         EventType = "domain_removed"
	EventAppPermissionsChanged EventType = "app_permissions_changed"
	EventProductCreated        EventType = "product_created"
	EventProductUpdated        EventType = "product_updated"
	EventProductDeleted        EventType = "product_deleted"
)

func (t EventType) String() string { return string(t) }

func (t EventType) IsValid() bool {
	switch t {
	case EventPriceChange, EventVisibilityChange, EventInventoryZero, EventInventoryLow,
		EventInventoryUpdate, EventThemePublish, EventCollectionCreated, EventCollectionUpdated,
		EventCollectionDeleted, EventDiscountCreated, EventDiscountUpdated, EventDiscountDeleted,
		EventDomainChanged, EventDomainRemoved, EventAppPermissionsChanged, EventProductCreated,
		EventProductUpdated, EventProductDeleted:
		return true
	}
	return false
}

// ProductStatus is the storefront visibility state of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

func (s ProductStatus) String() string { return string(s) }

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	}
	return false
}

// Visible reports whether the product is shown on the storefront.
func (s ProductStatus) Visible() bool { return s == ProductStatusActive }
