package detect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/storewatch/internal/adapter/catalog"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/service/enrich"
	"github.com/heartmarshall/storewatch/internal/service/inventory"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

const tenant = "acme.myshopify.com"

var fixedNow = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

type passthroughTx struct{ calls int }

func (p *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type fakeSettings struct {
	deny      map[domain.Feature]bool
	threshold int
}

func (f fakeSettings) CanTrack(_ context.Context, _ string, feature domain.Feature) (bool, error) {
	return !f.deny[feature], nil
}

func (f fakeSettings) LowStockThreshold(context.Context, string) (int, error) {
	if f.threshold == 0 {
		return domain.DefaultLowStockThreshold, nil
	}
	return f.threshold, nil
}

type fakeStock struct{ agg inventory.Aggregate }

func (f fakeStock) Aggregate(context.Context, string, string, string) inventory.Aggregate { return f.agg }

type fakeSales struct{ v *domain.Velocity }

func (f fakeSales) Velocity(context.Context, string, string) (*domain.Velocity, error) { return f.v, nil }

// recordingEvents accepts every event and keeps it.
func recordingEvents() *eventStoreMock {
	m := &eventStoreMock{}
	m.CreateFunc = func(ctx context.Context, e *domain.ChangeEvent) (bool, error) { return true, nil }
	m.ExistsRecentFunc = func(ctx context.Context, tenant, entityID string, eventType domain.EventType, since time.Time) (bool, error) {
		return false, nil
	}
	return m
}

func noAuthor() *catalogClientMock {
	return &catalogClientMock{
		FetchEventsFunc: func(ctx context.Context, tenant, resourceType, resourceID, verb string) (*string, error) {
			return nil, nil
		},
	}
}

type engineDeps struct {
	tx        *passthroughTx
	snapshots *snapshotStoreMock
	events    *eventStoreMock
	settings  fakeSettings
	catalog   *catalogClientMock
	stock     fakeStock
	sales     fakeSales
}

func newTestEngine(d engineDeps) *Engine {
	if d.tx == nil {
		d.tx = &passthroughTx{}
	}
	if d.events == nil {
		d.events = recordingEvents()
	}
	if d.catalog == nil {
		d.catalog = noAuthor()
	}
	e := NewEngine(slog.Default(), d.tx, d.snapshots, d.events, d.settings, d.catalog,
		d.stock, d.sales, enrich.New(enrich.DefaultParams()), DefaultPolicy())
	e.now = func() time.Time { return fixedNow }
	return e
}

func updateJob(topic string) domain.Job {
	key := "wh-1"
	return domain.Job{ID: uuid.New(), Tenant: tenant, Topic: topic, IdempotencyKey: &key}
}

func decodeContext(t *testing.T, ev domain.ChangeEvent) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(ev.Context, &m))
	return m
}

func productPayload(title, status, price string) *webhook.ProductPayload {
	p := &webhook.ProductPayload{ID: "100", Title: title, Status: status, Vendor: "Acme", Tags: webhook.Tags{"summer", "sale"}}
	p.Variants = []webhook.VariantPayload{{
		ID:                "v1",
		Title:             "Default Title",
		Price:             webhook.Money{Amount: dec(price), Valid: true},
		InventoryQuantity: intPtr(10),
	}}
	return p
}

func storedProduct(title string, status domain.ProductStatus, price string) *domain.ProductSnapshot {
	p := product(title, status, price)
	p.Variants[0].ProductID = "100"
	return p
}

func productStore(prev *domain.ProductSnapshot) *snapshotStoreMock {
	return &snapshotStoreMock{
		GetProductFunc: func(ctx context.Context, tenant, productID string, forUpdate bool) (*domain.ProductSnapshot, error) {
			return prev, nil
		},
		UpsertProductFunc: func(ctx context.Context, p *domain.ProductSnapshot) error { return nil },
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func TestHandleProduct_FirstUpdateOnlyRecordsBaseline(t *testing.T) {
	t.Parallel()

	snaps := productStore(nil)
	events := recordingEvents()
	e := newTestEngine(engineDeps{snapshots: snaps, events: events})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "active", "10.00"))
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Len(t, snaps.UpsertProductCalls(), 1)
	assert.Empty(t, events.CreateCalls())
	require.Len(t, snaps.GetProductCalls(), 1)
	assert.True(t, snaps.GetProductCalls()[0].ForUpdate)
}

func TestHandleProduct_CreateEmitsProductCreated(t *testing.T) {
	t.Parallel()

	e := newTestEngine(engineDeps{snapshots: productStore(nil)})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsCreate), productPayload("Mug", "active", "10.00"))
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, domain.EventProductCreated, out[0].EventType)
	assert.Equal(t, domain.ImportanceLow, out[0].Importance)
	assert.Equal(t, "wh-1:product_created", *out[0].IdempotencyKey)
}

func TestHandleProduct_PriceDropWithMoneySaved(t *testing.T) {
	t.Parallel()

	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "89.00")),
		sales:     fakeSales{v: &domain.Velocity{DailySalesRate: 8, TotalUnitsSold: 240, TotalRevenue: dec("21360"), PeriodDays: 30}},
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "active", "8.90"))
	require.NoError(t, err)

	require.Len(t, out, 1)
	ev := out[0]
	assert.Equal(t, domain.EventPriceChange, ev.EventType)
	assert.Equal(t, domain.EntityTypeVariant, ev.EntityType)
	assert.Equal(t, "v1", ev.EntityID)
	assert.Equal(t, domain.ImportanceHigh, ev.Importance)
	assert.Equal(t, "89", *ev.Before)
	assert.Equal(t, "8.9", *ev.After)
	assert.Equal(t, "wh-1:price_change:v1", *ev.IdempotencyKey)
	assert.Equal(t, fixedNow, ev.DetectedAt)

	ctx := decodeContext(t, ev)
	assert.Equal(t, "961.2", ctx["money_saved"])
	assert.Equal(t, "selling 8/day", ctx["velocity"])
	assert.Equal(t, "Mug price changed from 89.00 to 8.90", ctx["summary"])
	assert.Equal(t, webhook.TopicProductsUpdate, ctx["topic"])
}

func TestHandleProduct_NoRevenueEstimateWithoutPlan(t *testing.T) {
	t.Parallel()

	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "89.00")),
		settings:  fakeSettings{deny: map[domain.Feature]bool{domain.FeatureRevenueEstimate: true}},
		sales:     fakeSales{v: &domain.Velocity{DailySalesRate: 8}},
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "active", "8.90"))
	require.NoError(t, err)

	require.Len(t, out, 1)
	ctx := decodeContext(t, out[0])
	assert.NotContains(t, ctx, "money_saved")
	assert.NotContains(t, ctx, "velocity")
}

func TestHandleProduct_VisibilityAndFieldChanges(t *testing.T) {
	t.Parallel()

	author := "Jane Merchant"
	cat := &catalogClientMock{
		FetchEventsFunc: func(ctx context.Context, tenant, resourceType, resourceID, verb string) (*string, error) {
			return &author, nil
		},
	}
	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00")),
		catalog:   cat,
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Travel Mug", "draft", "10.00"))
	require.NoError(t, err)

	require.Len(t, out, 2)
	vis, upd := out[0], out[1]

	assert.Equal(t, domain.EventVisibilityChange, vis.EventType)
	assert.Equal(t, domain.ImportanceHigh, vis.Importance)
	assert.Equal(t, "active", *vis.Before)
	assert.Equal(t, "draft", *vis.After)

	assert.Equal(t, domain.EventProductUpdated, upd.EventType)
	assert.Equal(t, "Mug", *upd.Before)
	assert.Equal(t, "Travel Mug", *upd.After)
	ctx := decodeContext(t, upd)
	assert.Equal(t, "Title: Mug → Travel Mug", ctx["summary"])
	assert.Equal(t, author, ctx["changed_by"])

	require.Len(t, cat.FetchEventsCalls(), 1)
	call := cat.FetchEventsCalls()[0]
	assert.Equal(t, "Product", call.ResourceType)
	assert.Equal(t, "update", call.Verb)
}

func TestHandleProduct_AttributionFailureIsIgnored(t *testing.T) {
	t.Parallel()

	cat := &catalogClientMock{
		FetchEventsFunc: func(ctx context.Context, tenant, resourceType, resourceID, verb string) (*string, error) {
			return nil, errors.New("circuit breaker is open")
		},
	}
	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00")),
		catalog:   cat,
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Travel Mug", "active", "10.00"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.NotContains(t, decodeContext(t, out[0]), "changed_by")
}

func TestHandleProduct_PlanGating(t *testing.T) {
	t.Parallel()

	events := recordingEvents()
	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00")),
		events:    events,
		settings:  fakeSettings{deny: map[domain.Feature]bool{domain.FeatureVisibility: true}},
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "archived", "15.00"))
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, domain.EventPriceChange, out[0].EventType)
	assert.Len(t, events.CreateCalls(), 1)
}

func TestHandleProduct_DuplicateEventIsNotReturned(t *testing.T) {
	t.Parallel()

	events := &eventStoreMock{
		CreateFunc: func(ctx context.Context, e *domain.ChangeEvent) (bool, error) { return false, nil },
	}
	e := newTestEngine(engineDeps{
		snapshots: productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00")),
		events:    events,
	})

	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "active", "11.00"))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, events.CreateCalls(), 1)
}

func TestHandleProduct_StoreErrorAborts(t *testing.T) {
	t.Parallel()

	snaps := productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00"))
	snaps.UpsertProductFunc = func(ctx context.Context, p *domain.ProductSnapshot) error {
		return errors.New("connection reset")
	}
	events := recordingEvents()
	e := newTestEngine(engineDeps{snapshots: snaps, events: events})

	_, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), productPayload("Mug", "active", "20.00"))
	require.Error(t, err)
	assert.Empty(t, events.CreateCalls())
}

func TestHandleProductDelete(t *testing.T) {
	t.Parallel()

	snaps := productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00"))
	snaps.DeleteProductFunc = func(ctx context.Context, tenant, productID string) (bool, error) { return true, nil }
	e := newTestEngine(engineDeps{snapshots: snaps})

	out, err := e.HandleProductDelete(context.Background(), updateJob(webhook.TopicProductsDelete), &webhook.DeletePayload{ID: "100"})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, domain.EventProductDeleted, out[0].EventType)
	assert.Equal(t, domain.ImportanceHigh, out[0].Importance)
	assert.Equal(t, "Mug", out[0].ResourceName)
	assert.Len(t, snaps.DeleteProductCalls(), 1)
}

func TestHandleProductDelete_Unknown(t *testing.T) {
	t.Parallel()

	snaps := productStore(nil)
	snaps.DeleteProductFunc = func(ctx context.Context, tenant, productID string) (bool, error) { return false, nil }
	e := newTestEngine(engineDeps{snapshots: snaps})

	out, err := e.HandleProductDelete(context.Background(), updateJob(webhook.TopicProductsDelete), &webhook.DeletePayload{ID: "777"})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "Product 777", out[0].ResourceName)
	assert.Nil(t, out[0].Before)
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

func variantRefCatalog(ref *catalog.VariantRef) *catalogClientMock {
	return &catalogClientMock{
		FetchVariantByInventoryItemFunc: func(ctx context.Context, tenant, inventoryItemID string) (*catalog.VariantRef, error) {
			return ref, nil
		},
	}
}

func variantStore(v *domain.VariantSnapshot) *snapshotStoreMock {
	return &snapshotStoreMock{
		GetVariantFunc: func(ctx context.Context, tenant, productID, variantID string, forUpdate bool) (*domain.VariantSnapshot, error) {
			return v, nil
		},
		UpdateVariantInventoryFunc: func(ctx context.Context, tenant, productID, variantID string, qty int) (bool, error) {
			return true, nil
		},
	}
}

var mugRef = &catalog.VariantRef{VariantID: "v1", ProductID: "100", Title: "Large", ProductTitle: "Mug", Price: dec("24.00")}

func inventoryPayload() *webhook.InventoryLevelPayload {
	return &webhook.InventoryLevelPayload{InventoryItemID: "555", LocationID: "1", Available: intPtr(0)}
}

func TestHandleInventory_Zero(t *testing.T) {
	t.Parallel()

	warehouse := "Warehouse"
	snaps := variantStore(&domain.VariantSnapshot{VariantID: "v1", ProductID: "100", Price: dec("24.00"), InventoryQuantity: intPtr(3)})
	events := recordingEvents()
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		events:    events,
		catalog:   variantRefCatalog(mugRef),
		stock:     fakeStock{agg: inventory.Aggregate{Total: 0, Known: true, LocationName: &warehouse, Pages: 1}},
		sales:     fakeSales{v: &domain.Velocity{DailySalesRate: 24, PeriodDays: 30}},
	})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)

	require.Len(t, out, 1)
	ev := out[0]
	assert.Equal(t, domain.EventInventoryZero, ev.EventType)
	assert.Equal(t, domain.ImportanceHigh, ev.Importance)
	assert.Equal(t, "Mug - Large", ev.ResourceName)
	assert.Equal(t, "3", *ev.Before)
	assert.Equal(t, "0", *ev.After)

	ctx := decodeContext(t, ev)
	assert.Equal(t, "Warehouse", ctx["location"])
	assert.Equal(t, "24", ctx["revenue_at_risk"])
	assert.Equal(t, "Mug - Large is out of stock (last change at Warehouse)", ctx["summary"])

	require.Len(t, snaps.UpdateVariantInventoryCalls(), 1)
	assert.Equal(t, 0, snaps.UpdateVariantInventoryCalls()[0].Qty)

	require.Len(t, events.ExistsRecentCalls(), 1)
	assert.Equal(t, fixedNow.Add(-24*time.Hour), events.ExistsRecentCalls()[0].Since)
}

func TestHandleInventory_ZeroSuppressedInsideDedupWindow(t *testing.T) {
	t.Parallel()

	snaps := variantStore(&domain.VariantSnapshot{VariantID: "v1", ProductID: "100", InventoryQuantity: intPtr(3)})
	events := recordingEvents()
	events.ExistsRecentFunc = func(ctx context.Context, tenant, entityID string, eventType domain.EventType, since time.Time) (bool, error) {
		return true, nil
	}
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		events:    events,
		catalog:   variantRefCatalog(mugRef),
		stock:     fakeStock{agg: inventory.Aggregate{Total: 0, Known: true}},
	})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Empty(t, events.CreateCalls())
	assert.Len(t, snaps.UpdateVariantInventoryCalls(), 1, "quantity is stored even when the event is suppressed")
}

func TestHandleInventory_LowStockUsesTenantThreshold(t *testing.T) {
	t.Parallel()

	snaps := variantStore(&domain.VariantSnapshot{VariantID: "v1", ProductID: "100", InventoryQuantity: intPtr(20)})
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		catalog:   variantRefCatalog(mugRef),
		settings:  fakeSettings{threshold: 10},
		stock:     fakeStock{agg: inventory.Aggregate{Total: 8, Known: true, Truncated: true}},
	})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, domain.EventInventoryLow, out[0].EventType)
	assert.Equal(t, domain.ImportanceMedium, out[0].Importance)
	ctx := decodeContext(t, out[0])
	assert.Equal(t, true, ctx["inventory_truncated"])
	assert.Equal(t, "Mug - Large is running low: 8 left", ctx["summary"])
}

func TestHandleInventory_UnknownTotalSkipsDiff(t *testing.T) {
	t.Parallel()

	snaps := variantStore(nil)
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		catalog:   variantRefCatalog(mugRef),
		stock:     fakeStock{agg: inventory.Aggregate{Pages: 2}},
	})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, snaps.GetVariantCalls())
	assert.Empty(t, snaps.UpdateVariantInventoryCalls())
}

func TestHandleInventory_ItemWithoutVariant(t *testing.T) {
	t.Parallel()

	snaps := variantStore(nil)
	e := newTestEngine(engineDeps{snapshots: snaps, catalog: variantRefCatalog(nil)})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, snaps.GetVariantCalls())
}

func TestHandleInventory_NoBaseline(t *testing.T) {
	t.Parallel()

	snaps := variantStore(nil)
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		catalog:   variantRefCatalog(mugRef),
		stock:     fakeStock{agg: inventory.Aggregate{Total: 0, Known: true}},
	})

	out, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, snaps.UpdateVariantInventoryCalls())
}

func TestHandleInventory_CatalogErrorIsRetried(t *testing.T) {
	t.Parallel()

	cat := &catalogClientMock{
		FetchVariantByInventoryItemFunc: func(ctx context.Context, tenant, inventoryItemID string) (*catalog.VariantRef, error) {
			return nil, catalog.ErrThrottled
		},
	}
	e := newTestEngine(engineDeps{snapshots: variantStore(nil), catalog: cat})

	_, err := e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	assert.ErrorIs(t, err, catalog.ErrThrottled)
}

// memoryStore keeps one product snapshot across handler calls.
func memoryStore(p *domain.ProductSnapshot) *snapshotStoreMock {
	return &snapshotStoreMock{
		GetProductFunc: func(ctx context.Context, tenant, productID string, forUpdate bool) (*domain.ProductSnapshot, error) {
			if p == nil {
				return nil, nil
			}
			cp := *p
			cp.Variants = append([]domain.VariantSnapshot(nil), p.Variants...)
			return &cp, nil
		},
		UpsertProductFunc: func(ctx context.Context, next *domain.ProductSnapshot) error {
			cp := *next
			cp.Variants = append([]domain.VariantSnapshot(nil), next.Variants...)
			p = &cp
			return nil
		},
		GetVariantFunc: func(ctx context.Context, tenant, productID, variantID string, forUpdate bool) (*domain.VariantSnapshot, error) {
			if p == nil {
				return nil, nil
			}
			if v := p.Variant(variantID); v != nil {
				cp := *v
				return &cp, nil
			}
			return nil, nil
		},
		UpdateVariantInventoryFunc: func(ctx context.Context, tenant, productID, variantID string, qty int) (bool, error) {
			if p == nil {
				return false, nil
			}
			v := p.Variant(variantID)
			if v == nil {
				return false, nil
			}
			v.InventoryQuantity = &qty
			return true, nil
		},
	}
}

func TestHandleProduct_UpdateThenInventoryStillReportsStockout(t *testing.T) {
	t.Parallel()

	snaps := memoryStore(storedProduct("Mug", domain.ProductStatusActive, "10.00"))
	ref := &catalog.VariantRef{VariantID: "v1", ProductID: "100", Title: "Default Title", ProductTitle: "Mug"}
	e := newTestEngine(engineDeps{
		snapshots: snaps,
		catalog:   variantRefCatalog(ref),
		stock:     fakeStock{agg: inventory.Aggregate{Total: 0, Known: true}},
	})

	p := productPayload("Mug", "active", "10.00")
	p.Variants[0].InventoryQuantity = intPtr(0)
	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), p)
	require.NoError(t, err)
	assert.Empty(t, out)

	stored := snaps.UpsertProductCalls()[0].P
	require.NotNil(t, stored.Variants[0].InventoryQuantity)
	assert.Equal(t, 10, *stored.Variants[0].InventoryQuantity)

	out, err = e.HandleInventory(context.Background(), updateJob(webhook.TopicInventoryLevelsUpdate), inventoryPayload())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.EventInventoryZero, out[0].EventType)
	assert.Equal(t, "10", *out[0].Before)
	assert.Equal(t, "0", *out[0].After)
}

func TestHandleProduct_MissingQuantityKeepsBaseline(t *testing.T) {
	t.Parallel()

	snaps := productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00"))
	e := newTestEngine(engineDeps{snapshots: snaps})

	p := productPayload("Mug", "active", "10.00")
	p.Variants[0].InventoryQuantity = nil
	_, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), p)
	require.NoError(t, err)

	stored := snaps.UpsertProductCalls()[0].P
	require.NotNil(t, stored.Variants[0].InventoryQuantity)
	assert.Equal(t, 10, *stored.Variants[0].InventoryQuantity)
}

func TestHandleProduct_MissingPriceIsNotADrop(t *testing.T) {
	t.Parallel()

	snaps := productStore(storedProduct("Mug", domain.ProductStatusActive, "10.00"))
	events := recordingEvents()
	e := newTestEngine(engineDeps{snapshots: snaps, events: events})

	p := productPayload("Mug", "active", "10.00")
	p.Variants[0].Price = webhook.Money{}
	out, err := e.HandleProduct(context.Background(), updateJob(webhook.TopicProductsUpdate), p)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Empty(t, events.CreateCalls())
	stored := snaps.UpsertProductCalls()[0].P
	assert.True(t, stored.Variants[0].Price.Equal(dec("10.00")))
}
