package detect

import (
	"context"
	"github.com/heartmarshall/storewatch/internal/adapter/catalog"
	"sync"
)

var _ catalogClient = &catalogClientMock{}

type catalogClientMock struct {
	FetchEventsFunc                 func(ctx context.Context, tenant string, resourceType string, resourceID string, verb string) (*string, error)
	FetchVariantByInventoryItemFunc func(ctx context.Context, tenant string, inventoryItemID string) (*catalog.VariantRef, error)

	calls struct {
		FetchEvents []struct {
			Tenant       string
			ResourceType string
			ResourceID   string
			Verb         string
		}
		FetchVariantByInventoryItem []struct {
			Tenant          string
			InventoryItemID string
		}
	}
	lockFetchEvents                 sync.RWMutex
	lockFetchVariantByInventoryItem sync.RWMutex
}

func (mock *catalogClientMock) FetchEvents(ctx context.Context, tenant string, resourceType string, resourceID string, verb string) (*string, error) {
	if mock.FetchEventsFunc == nil {
		panic("catalogClientMock.FetchEventsFunc: method is nil but catalogClient.FetchEvents was just called")
	}
	callInfo := struct {
		Tenant       string
		ResourceType string
		ResourceID   string
		Verb         string
	}{Tenant: tenant, ResourceType: resourceType, ResourceID: resourceID, Verb: verb}
	mock.lockFetchEvents.Lock()
	mock.calls.FetchEvents = append(mock.calls.FetchEvents, callInfo)
	mock.lockFetchEvents.Unlock()
	return mock.FetchEventsFunc(ctx, tenant, resourceType, resourceID, verb)
}

func (mock *catalogClientMock) FetchEventsCalls() []struct {
	Tenant       string
	ResourceType string
	ResourceID   string
	Verb         string
} {
	mock.lockFetchEvents.RLock()
	calls := mock.calls.FetchEvents
	mock.lockFetchEvents.RUnlock()
	return calls
}

func (mock *catalogClientMock) FetchVariantByInventoryItem(ctx context.Context, tenant string, inventoryItemID string) (*catalog.VariantRef, error) {
	if mock.FetchVariantByInventoryItemFunc == nil {
		panic("catalogClientMock.FetchVariantByInventoryItemFunc: method is nil but catalogClient.FetchVariantByInventoryItem was just called")
	}
	callInfo := struct {
		Tenant          string
		InventoryItemID string
	}{Tenant: tenant, InventoryItemID: inventoryItemID}
	mock.lockFetchVariantByInventoryItem.Lock()
	mock.calls.FetchVariantByInventoryItem = append(mock.calls.FetchVariantByInventoryItem, callInfo)
	mock.lockFetchVariantByInventoryItem.Unlock()
	return mock.FetchVariantByInventoryItemFunc(ctx, tenant, inventoryItemID)
}

func (mock *catalogClientMock) FetchVariantByInventoryItemCalls() []struct {
	Tenant          string
	InventoryItemID string
} {
	mock.lockFetchVariantByInventoryItem.RLock()
	calls := mock.calls.FetchVariantByInventoryItem
	mock.lockFetchVariantByInventoryItem.RUnlock()
	return calls
}
