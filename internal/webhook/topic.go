// Package webhook normalizes platform notification topics and decodes their
// payloads into typed structs. Everything here is pure: no I/O, no logging.
package webhook

import "strings"

// Canonical topics handled by the pipeline.
const (
	TopicProductsCreate            = "products/create"
	TopicProductsUpdate            = "products/update"
	TopicProductsDelete            = "products/delete"
	TopicInventoryLevelsUpdate     = "inventory_levels/update"
	TopicInventoryLevelsConnect    = "inventory_levels/connect"
	TopicInventoryLevelsDisconnect = "inventory_levels/disconnect"
	TopicCollectionsCreate         = "collections/create"
	TopicCollectionsUpdate         = "collections/update"
	TopicCollectionsDelete         = "collections/delete"
	TopicDiscountsCreate           = "discounts/create"
	TopicDiscountsUpdate           = "discounts/update"
	TopicDiscountsDelete           = "discounts/delete"
	TopicDomainsCreate             = "domains/create"
	TopicDomainsUpdate             = "domains/update"
	TopicDomainsDestroy            = "domains/destroy"
	TopicThemesPublish             = "themes/publish"
	TopicAppScopesUpdate           = "app/scopes_update"
)

// Category groups topics by the handler that owns them.
type Category string

const (
	CategoryProduct    Category = "product"
	CategoryCollection Category = "collection"
	CategoryInventory  Category = "inventory"
	CategoryTheme      Category = "theme"
	CategoryDiscount   Category = "discount"
	CategoryDomain     Category = "domain"
	CategoryAppScopes  Category = "app_scopes"
	CategoryUnknown    Category = "unknown"
)

func (c Category) String() string { return string(c) }

var handledTopics = []string{
	TopicProductsCreate, TopicProductsUpdate, TopicProductsDelete,
	TopicInventoryLevelsUpdate, TopicInventoryLevelsConnect, TopicInventoryLevelsDisconnect,
	TopicCollectionsCreate, TopicCollectionsUpdate, TopicCollectionsDelete,
	TopicDiscountsCreate, TopicDiscountsUpdate, TopicDiscountsDelete,
	TopicDomainsCreate, TopicDomainsUpdate, TopicDomainsDestroy,
	TopicThemesPublish,
	TopicAppScopesUpdate,
}

// underscoreForms maps "products_update" style names to canonical topics.
// Resource names themselves contain underscores, so the split point cannot be
// guessed for handled topics.
var underscoreForms = func() map[string]string {
	m := make(map[string]string, len(handledTopics))
	for _, t := range handledTopics {
		m[strings.ReplaceAll(t, "/", "_")] = t
	}
	return m
}()

var categoryPrefixes = []struct {
	prefix   string
	category Category
}{
	{"products/", CategoryProduct},
	{"collections/", CategoryCollection},
	{"inventory_levels/", CategoryInventory},
	{"inventory_items/", CategoryInventory},
	{"themes/", CategoryTheme},
	{"discounts/", CategoryDiscount},
	{"domains/", CategoryDomain},
}

// Normalize converts a raw topic ("PRODUCTS_UPDATE", "Products/Update",
// "products/update") to its canonical lowercase slash-separated form.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" || strings.Contains(t, "/") {
		return t
	}
	if canonical, ok := underscoreForms[t]; ok {
		return canonical
	}
	// Unknown underscore topic: the verb is the final segment.
	if i := strings.LastIndex(t, "_"); i > 0 && i < len(t)-1 {
		return t[:i] + "/" + t[i+1:]
	}
	return t
}

// IsHandled reports whether the canonical topic belongs to the closed handled set.
func IsHandled(topic string) bool {
	for _, t := range handledTopics {
		if t == topic {
			return true
		}
	}
	return false
}

// HandledTopics returns a copy of the handled topic list.
func HandledTopics() []string {
	out := make([]string, len(handledTopics))
	copy(out, handledTopics)
	return out
}

// CategoryOf classifies a canonical topic. app/scopes_update is matched exactly,
// everything else by prefix.
func CategoryOf(topic string) Category {
	if topic == TopicAppScopesUpdate {
		return CategoryAppScopes
	}
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(topic, p.prefix) {
			return p.category
		}
	}
	return CategoryUnknown
}

// Verb returns the final path segment of a topic ("update" for "products/update").
func Verb(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}

// Resource returns the leading path segment ("products" for "products/update").
func Resource(topic string) string {
	if i := strings.Index(topic, "/"); i >= 0 {
		return topic[:i]
	}
	return topic
}
