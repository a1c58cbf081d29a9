package detect

import (
	"context"
	"github.com/heartmarshall/storewatch/internal/domain"
	"sync"
	"time"
)

var _ eventStore = &eventStoreMock{}

type eventStoreMock struct {
	CreateFunc       func(ctx context.Context, e *domain.ChangeEvent) (bool, error)
	ExistsRecentFunc func(ctx context.Context, tenant string, entityID string, eventType domain.EventType, since time.Time) (bool, error)

	calls struct {
		Create []struct {
			E *domain.ChangeEvent
		}
		ExistsRecent []struct {
			Tenant    string
			EntityID  string
			EventType domain.EventType
			Since     time.Time
		}
	}
	lockCreate       sync.RWMutex
	lockExistsRecent sync.RWMutex
}

func (mock *eventStoreMock) Create(ctx context.Context, e *domain.ChangeEvent) (bool, error) {
	if mock.CreateFunc == nil {
		panic("eventStoreMock.CreateFunc: method is nil but eventStore.Create was just called")
	}
	callInfo := struct {
		E *domain.ChangeEvent
	}{E: e}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, e)
}

func (mock *eventStoreMock) CreateCalls() []struct {
	E *domain.ChangeEvent
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *eventStoreMock) ExistsRecent(ctx context.Context, tenant string, entityID string, eventType domain.EventType, since time.Time) (bool, error) {
	if mock.ExistsRecentFunc == nil {
		panic("eventStoreMock.ExistsRecentFunc: method is nil but eventStore.ExistsRecent was just called")
	}
	callInfo := struct {
		Tenant    string
		EntityID  string
		EventType domain.EventType
		Since     time.Time
	}{Tenant: tenant, EntityID: entityID, EventType: eventType, Since: since}
	mock.lockExistsRecent.Lock()
	mock.calls.ExistsRecent = append(mock.calls.ExistsRecent, callInfo)
	mock.lockExistsRecent.Unlock()
	return mock.ExistsRecentFunc(ctx, tenant, entityID, eventType, since)
}

func (mock *eventStoreMock) ExistsRecentCalls() []struct {
	Tenant    string
	EntityID  string
	EventType domain.EventType
	Since     time.Time
} {
	mock.lockExistsRecent.RLock()
	calls := mock.calls.ExistsRecent
	mock.lockExistsRecent.RUnlock()
	return calls
}
