package webhook

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/domain"
)

// Payload is the typed body of one notification. The concrete type is fixed by
// the topic: see Decode.
type Payload interface {
	// Entity returns the id of the entity the notification is about.
	Entity() string
}

// ID accepts both numeric REST ids and string GraphQL ids.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Money is a price that may be absent, null or an empty string upstream.
type Money struct {
	Amount decimal.Decimal
	Valid  bool
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*m = Money{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money %q: %w", s, err)
	}
	*m = Money{Amount: d, Valid: true}
	return nil
}

// Ptr returns the amount or nil when absent.
func (m Money) Ptr() *decimal.Decimal {
	if !m.Valid {
		return nil
	}
	d := m.Amount
	return &d
}

// Tags accepts the comma-separated string form as well as a JSON array.
type Tags []string

func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = nil
		return nil
	}
	if b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = cleanTags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = cleanTags(strings.Split(s, ","))
	return nil
}

func cleanTags(in []string) Tags {
	out := make(Tags, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

// ProductPayload is the body of products/create and products/update.
type ProductPayload struct {
	ID          ID                `json:"id"`
	Title       string            `json:"title"`
	BodyHTML    string            `json:"body_html"`
	Vendor      string            `json:"vendor"`
	ProductType string            `json:"product_type"`
	Status      string            `json:"status"`
	Tags        Tags              `json:"tags"`
	Images      []json.RawMessage `json:"images"`
	Options     []OptionPayload   `json:"options"`
	Variants    []VariantPayload  `json:"variants"`
	UpdatedAt   *time.Time        `json:"updated_at"`
}

func (p *ProductPayload) Entity() string { return p.ID.String() }

// OptionPayload is one product option axis.
type OptionPayload struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariantPayload is one variant inside a product payload.
type VariantPayload struct {
	ID                ID       `json:"id"`
	Title             string   `json:"title"`
	Price             Money    `json:"price"`
	CompareAtPrice    Money    `json:"compare_at_price"`
	SKU               string   `json:"sku"`
	InventoryItemID   ID       `json:"inventory_item_id"`
	InventoryQuantity *int     `json:"inventory_quantity"`
	Weight            *float64 `json:"weight"`
	Position          int      `json:"position"`
}

// DeletePayload is the body of */delete and */destroy topics that carry only an id.
type DeletePayload struct {
	ID             ID `json:"id"`
	AdminGraphQLID ID `json:"admin_graphql_api_id"`
}

func (p *DeletePayload) Entity() string {
	if p.ID != "" {
		return p.ID.String()
	}
	return p.AdminGraphQLID.String()
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// InventoryLevelPayload is the body of inventory_levels/* topics.
type InventoryLevelPayload struct {
	InventoryItemID ID         `json:"inventory_item_id"`
	LocationID      ID         `json:"location_id"`
	Available       *int       `json:"available"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

func (p *InventoryLevelPayload) Entity() string { return p.InventoryItemID.String() }

// ---------------------------------------------------------------------------
// Store-level resources
// ---------------------------------------------------------------------------

// CollectionPayload is the body of collections/create and collections/update.
type CollectionPayload struct {
	ID          ID         `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	PublishedAt *time.Time `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (p *CollectionPayload) Entity() string { return p.ID.String() }

// DiscountPayload is the body of discounts/* topics.
type DiscountPayload struct {
	AdminGraphQLID ID         `json:"admin_graphql_api_id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

func (p *DiscountPayload) Entity() string { return p.AdminGraphQLID.String() }

// DomainPayload is the body of domains/* topics.
type DomainPayload struct {
	ID         ID     `json:"id"`
	Host       string `json:"host"`
	SSLEnabled bool   `json:"ssl_enabled"`
}

func (p *DomainPayload) Entity() string { return p.ID.String() }

// ThemePayload is the body of themes/publish.
type ThemePayload struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (p *ThemePayload) Entity() string { return p.ID.String() }

// ThemeRoleMain is the role of the live storefront theme.
const ThemeRoleMain = "main"

// ScopesPayload is the body of app/scopes_update.
type ScopesPayload struct {
	ID        ID         `json:"id"`
	Previous  []string   `json:"previous"`
	Current   []string   `json:"current"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (p *ScopesPayload) Entity() string { return p.ID.String() }

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// Decode parses raw into the payload type owned by the canonical topic.
// Unhandled topics return domain.ErrUnknownTopic; undecodable or incomplete
// bodies return an error wrapping domain.ErrMalformedPayload.
func Decode(topic string, raw []byte) (Payload, error) {
	var p Payload
	switch topic {
	case TopicProductsCreate, TopicProductsUpdate:
		p = &ProductPayload{}
	case TopicProductsDelete, TopicCollectionsDelete:
		p = &DeletePayload{}
	case TopicInventoryLevelsUpdate, TopicInventoryLevelsConnect, TopicInventoryLevelsDisconnect:
		p = &InventoryLevelPayload{}
	case TopicCollectionsCreate, TopicCollectionsUpdate:
		p = &CollectionPayload{}
	case TopicDiscountsCreate, TopicDiscountsUpdate, TopicDiscountsDelete:
		p = &DiscountPayload{}
	case TopicDomainsCreate, TopicDomainsUpdate, TopicDomainsDestroy:
		p = &DomainPayload{}
	case TopicThemesPublish:
		p = &ThemePayload{}
	case TopicAppScopesUpdate:
		p = &ScopesPayload{}
	default:
		return nil, fmt.Errorf("%s: %w", topic, domain.ErrUnknownTopic)
	}

	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", topic, domain.ErrMalformedPayload, err)
	}

	// Scopes notifications are shop-wide and may omit an id.
	if p.Entity() == "" && topic != TopicAppScopesUpdate {
		return nil, fmt.Errorf("decode %s: %w: missing entity id", topic, domain.ErrMalformedPayload)
	}

	return p, nil
}
