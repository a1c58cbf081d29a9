package detect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/storewatch/internal/adapter/catalog"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/metrics"
	"github.com/heartmarshall/storewatch/internal/service/enrich"
	"github.com/heartmarshall/storewatch/internal/service/inventory"
)

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type snapshotStore interface {
	GetProduct(ctx context.Context, tenant, productID string, forUpdate bool) (*domain.ProductSnapshot, error)
	UpsertProduct(ctx context.Context, p *domain.ProductSnapshot) error
	DeleteProduct(ctx context.Context, tenant, productID string) (bool, error)
	GetVariant(ctx context.Context, tenant, productID, variantID string, forUpdate bool) (*domain.VariantSnapshot, error)
	UpdateVariantInventory(ctx context.Context, tenant, productID, variantID string, qty int) (bool, error)
	GetName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) (*string, error)
	UpsertName(ctx context.Context, tenant string, entityType domain.EntityType, entityID, name string) error
	DeleteName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) error
	GetScopes(ctx context.Context, tenant string, forUpdate bool) ([]string, bool, error)
	PutScopes(ctx context.Context, tenant string, scopes []string) error
}

type eventStore interface {
	Create(ctx context.Context, e *domain.ChangeEvent) (bool, error)
	ExistsRecent(ctx context.Context, tenant, entityID string, eventType domain.EventType, since time.Time) (bool, error)
}

type settings interface {
	CanTrack(ctx context.Context, tenant string, feature domain.Feature) (bool, error)
	LowStockThreshold(ctx context.Context, tenant string) (int, error)
}

type catalogClient interface {
	FetchEvents(ctx context.Context, tenant, resourceType, resourceID, verb string) (*string, error)
	FetchVariantByInventoryItem(ctx context.Context, tenant, inventoryItemID string) (*catalog.VariantRef, error)
}

type stockAggregator interface {
	Aggregate(ctx context.Context, tenant, inventoryItemID, triggeringLocationID string) inventory.Aggregate
}

type salesSource interface {
	Velocity(ctx context.Context, tenant, productID string) (*domain.Velocity, error)
}

// attributionTimeout bounds the author lookup made while snapshot rows are
// locked.
const attributionTimeout = 3 * time.Second

// Engine is the change detection engine. Each Handle method processes one
// job and returns the events it created.
type Engine struct {
	tx        txManager
	snapshots snapshotStore
	events    eventStore
	settings  settings
	catalog   catalogClient
	stock     stockAggregator
	sales     salesSource
	enricher  *enrich.Enricher
	policy    Policy
	now       func() time.Time
	log       *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(
	log *slog.Logger,
	tx txManager,
	snapshots snapshotStore,
	events eventStore,
	settings settings,
	catalog catalogClient,
	stock stockAggregator,
	sales salesSource,
	enricher *enrich.Enricher,
	policy Policy,
) *Engine {
	return &Engine{
		tx:        tx,
		snapshots: snapshots,
		events:    events,
		settings:  settings,
		catalog:   catalog,
		stock:     stock,
		sales:     sales,
		enricher:  enricher,
		policy:    policy,
		now:       time.Now,
		log:       log.With("service", "detect"),
	}
}

// candidate is an event the engine intends to emit.
type candidate struct {
	entityType domain.EntityType
	entityID   string
	eventType  domain.EventType
	name       string
	before     *string
	after      *string
	importance domain.Importance

	// keySuffix distinguishes several events of one type from one job.
	keySuffix string
	// productID is used for the sales lookup of enriched events.
	productID string
	enrich    enrich.Input
	ctx       eventContext
}

// eventContext is the JSON stored with each event.
type eventContext struct {
	Summary       string           `json:"summary,omitempty"`
	Changes       []FieldChange    `json:"changes,omitempty"`
	Added         []string         `json:"added,omitempty"`
	Removed       []string         `json:"removed,omitempty"`
	ChangedBy     *string          `json:"changed_by,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Truncated     bool             `json:"inventory_truncated,omitempty"`
	Topic         string           `json:"topic,omitempty"`
	Velocity      *string          `json:"velocity,omitempty"`
	RevenueAtRisk *decimal.Decimal `json:"revenue_at_risk,omitempty"`
	MoneySaved    *decimal.Decimal `json:"money_saved,omitempty"`
}

func (c *eventContext) merge(ec *enrich.Context) {
	if ec == nil {
		return
	}
	if c.Summary == "" {
		c.Summary = ec.Summary
	}
	c.Velocity = ec.Velocity
	c.RevenueAtRisk = ec.RevenueAtRisk
	c.MoneySaved = ec.MoneySaved
}

// eventKey derives a per-event idempotency key from the job so a retried job
// never writes an event twice.
func eventKey(job domain.Job, c candidate) string {
	base := job.Key()
	if base == "" {
		base = job.ID.String()
	}
	key := base + ":" + string(c.eventType)
	if c.keySuffix != "" {
		key += ":" + c.keySuffix
	}
	return key
}

// emit gates, enriches and stores candidates. It must run inside the
// transaction that also writes the snapshot.
func (e *Engine) emit(ctx context.Context, job domain.Job, candidates []candidate) ([]domain.ChangeEvent, error) {
	var out []domain.ChangeEvent
	for _, c := range candidates {
		ok, err := e.settings.CanTrack(ctx, job.Tenant, featureOf[c.eventType])
		if err != nil {
			return nil, fmt.Errorf("plan check %s: %w", c.eventType, err)
		}
		if !ok {
			metrics.RecordSuppressed("plan")
			e.log.DebugContext(ctx, "event suppressed by plan",
				slog.String("tenant", job.Tenant), slog.String("event_type", string(c.eventType)))
			continue
		}

		if enriched[c.eventType] {
			if err := e.enrichCandidate(ctx, job.Tenant, &c); err != nil {
				return nil, err
			}
		}
		c.ctx.Topic = job.Topic

		raw, err := json.Marshal(c.ctx)
		if err != nil {
			return nil, fmt.Errorf("encode event context: %w", err)
		}
		key := eventKey(job, c)
		ev := domain.ChangeEvent{
			Tenant:         job.Tenant,
			EntityType:     c.entityType,
			EntityID:       c.entityID,
			EventType:      c.eventType,
			ResourceName:   c.name,
			Before:         c.before,
			After:          c.after,
			Importance:     c.importance,
			DetectedAt:     e.now().UTC(),
			Context:        raw,
			Source:         domain.EventSourceWebhook,
			IdempotencyKey: &key,
		}

		created, err := e.events.Create(ctx, &ev)
		if err != nil {
			return nil, fmt.Errorf("create %s event: %w", c.eventType, err)
		}
		if !created {
			metrics.RecordSuppressed("duplicate")
			continue
		}

		metrics.RecordEvent(string(ev.EventType), string(ev.Importance))
		out = append(out, ev)
	}
	return out, nil
}

func (e *Engine) enrichCandidate(ctx context.Context, tenant string, c *candidate) error {
	c.enrich.EventType = c.eventType
	c.enrich.ResourceName = c.name

	if c.productID != "" {
		ok, err := e.settings.CanTrack(ctx, tenant, domain.FeatureRevenueEstimate)
		if err != nil {
			return fmt.Errorf("plan check %s: %w", domain.FeatureRevenueEstimate, err)
		}
		if ok {
			v, err := e.sales.Velocity(ctx, tenant, c.productID)
			if err != nil {
				return fmt.Errorf("sales velocity: %w", err)
			}
			c.enrich.Velocity = v
		}
	}

	c.ctx.merge(e.enricher.Enrich(c.enrich))
	return nil
}

// attribute looks up who made a change. Failures only lose attribution.
func (e *Engine) attribute(ctx context.Context, tenant, resourceType, resourceID, verb string) *string {
	ctx, cancel := context.WithTimeout(ctx, attributionTimeout)
	defer cancel()

	author, err := e.catalog.FetchEvents(ctx, tenant, resourceType, resourceID, verb)
	if err != nil {
		e.log.WarnContext(ctx, "change attribution failed",
			slog.String("tenant", tenant),
			slog.String("resource", resourceType),
			slog.String("id", resourceID),
			slog.String("error", err.Error()))
		return nil
	}
	return author
}

func ptr(s string) *string { return &s }
