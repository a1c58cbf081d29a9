package processor

import (
	"context"
	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/webhook"
	"sync"
)

var _ detector = &detectorMock{}

type detectorMock struct {
	HandleProductFunc          func(ctx context.Context, job domain.Job, p *webhook.ProductPayload) ([]domain.ChangeEvent, error)
	HandleProductDeleteFunc    func(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error)
	HandleInventoryFunc        func(ctx context.Context, job domain.Job, p *webhook.InventoryLevelPayload) ([]domain.ChangeEvent, error)
	HandleCollectionFunc       func(ctx context.Context, job domain.Job, p *webhook.CollectionPayload) ([]domain.ChangeEvent, error)
	HandleCollectionDeleteFunc func(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error)
	HandleDiscountFunc         func(ctx context.Context, job domain.Job, p *webhook.DiscountPayload) ([]domain.ChangeEvent, error)
	HandleDomainFunc           func(ctx context.Context, job domain.Job, p *webhook.DomainPayload) ([]domain.ChangeEvent, error)
	HandleThemeFunc            func(ctx context.Context, job domain.Job, p *webhook.ThemePayload) ([]domain.ChangeEvent, error)
	HandleScopesFunc           func(ctx context.Context, job domain.Job, p *webhook.ScopesPayload) ([]domain.ChangeEvent, error)

	calls struct {
		HandleProduct []struct {
			Job domain.Job
			P   *webhook.ProductPayload
		}
		HandleProductDelete []struct {
			Job domain.Job
			P   *webhook.DeletePayload
		}
		HandleInventory []struct {
			Job domain.Job
			P   *webhook.InventoryLevelPayload
		}
		HandleCollection []struct {
			Job domain.Job
			P   *webhook.CollectionPayload
		}
		HandleCollectionDelete []struct {
			Job domain.Job
			P   *webhook.DeletePayload
		}
		HandleDiscount []struct {
			Job domain.Job
			P   *webhook.DiscountPayload
		}
		HandleDomain []struct {
			Job domain.Job
			P   *webhook.DomainPayload
		}
		HandleTheme []struct {
			Job domain.Job
			P   *webhook.ThemePayload
		}
		HandleScopes []struct {
			Job domain.Job
			P   *webhook.ScopesPayload
		}
	}
	lockHandleProduct          sync.RWMutex
	lockHandleProductDelete    sync.RWMutex
	lockHandleInventory        sync.RWMutex
	lockHandleCollection       sync.RWMutex
	lockHandleCollectionDelete sync.RWMutex
	lockHandleDiscount         sync.RWMutex
	lockHandleDomain           sync.RWMutex
	lockHandleTheme            sync.RWMutex
	lockHandleScopes           sync.RWMutex
}

func (mock *detectorMock) HandleProduct(ctx context.Context, job domain.Job, p *webhook.ProductPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleProductFunc == nil {
		panic("detectorMock.HandleProductFunc: method is nil but detector.HandleProduct was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.ProductPayload
	}{Job: job, P: p}
	mock.lockHandleProduct.Lock()
	mock.calls.HandleProduct = append(mock.calls.HandleProduct, callInfo)
	mock.lockHandleProduct.Unlock()
	return mock.HandleProductFunc(ctx, job, p)
}

func (mock *detectorMock) HandleProductCalls() []struct {
	Job domain.Job
	P   *webhook.ProductPayload
} {
	mock.lockHandleProduct.RLock()
	calls := mock.calls.HandleProduct
	mock.lockHandleProduct.RUnlock()
	return calls
}

func (mock *detectorMock) HandleProductDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error) {
	if mock.HandleProductDeleteFunc == nil {
		panic("detectorMock.HandleProductDeleteFunc: method is nil but detector.HandleProductDelete was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.DeletePayload
	}{Job: job, P: p}
	mock.lockHandleProductDelete.Lock()
	mock.calls.HandleProductDelete = append(mock.calls.HandleProductDelete, callInfo)
	mock.lockHandleProductDelete.Unlock()
	return mock.HandleProductDeleteFunc(ctx, job, p)
}

func (mock *detectorMock) HandleProductDeleteCalls() []struct {
	Job domain.Job
	P   *webhook.DeletePayload
} {
	mock.lockHandleProductDelete.RLock()
	calls := mock.calls.HandleProductDelete
	mock.lockHandleProductDelete.RUnlock()
	return calls
}

func (mock *detectorMock) HandleInventory(ctx context.Context, job domain.Job, p *webhook.InventoryLevelPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleInventoryFunc == nil {
		panic("detectorMock.HandleInventoryFunc: method is nil but detector.HandleInventory was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.InventoryLevelPayload
	}{Job: job, P: p}
	mock.lockHandleInventory.Lock()
	mock.calls.HandleInventory = append(mock.calls.HandleInventory, callInfo)
	mock.lockHandleInventory.Unlock()
	return mock.HandleInventoryFunc(ctx, job, p)
}

func (mock *detectorMock) HandleInventoryCalls() []struct {
	Job domain.Job
	P   *webhook.InventoryLevelPayload
} {
	mock.lockHandleInventory.RLock()
	calls := mock.calls.HandleInventory
	mock.lockHandleInventory.RUnlock()
	return calls
}

func (mock *detectorMock) HandleCollection(ctx context.Context, job domain.Job, p *webhook.CollectionPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleCollectionFunc == nil {
		panic("detectorMock.HandleCollectionFunc: method is nil but detector.HandleCollection was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.CollectionPayload
	}{Job: job, P: p}
	mock.lockHandleCollection.Lock()
	mock.calls.HandleCollection = append(mock.calls.HandleCollection, callInfo)
	mock.lockHandleCollection.Unlock()
	return mock.HandleCollectionFunc(ctx, job, p)
}

func (mock *detectorMock) HandleCollectionCalls() []struct {
	Job domain.Job
	P   *webhook.CollectionPayload
} {
	mock.lockHandleCollection.RLock()
	calls := mock.calls.HandleCollection
	mock.lockHandleCollection.RUnlock()
	return calls
}

func (mock *detectorMock) HandleCollectionDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error) {
	if mock.HandleCollectionDeleteFunc == nil {
		panic("detectorMock.HandleCollectionDeleteFunc: method is nil but detector.HandleCollectionDelete was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.DeletePayload
	}{Job: job, P: p}
	mock.lockHandleCollectionDelete.Lock()
	mock.calls.HandleCollectionDelete = append(mock.calls.HandleCollectionDelete, callInfo)
	mock.lockHandleCollectionDelete.Unlock()
	return mock.HandleCollectionDeleteFunc(ctx, job, p)
}

func (mock *detectorMock) HandleCollectionDeleteCalls() []struct {
	Job domain.Job
	P   *webhook.DeletePayload
} {
	mock.lockHandleCollectionDelete.RLock()
	calls := mock.calls.HandleCollectionDelete
	mock.lockHandleCollectionDelete.RUnlock()
	return calls
}

func (mock *detectorMock) HandleDiscount(ctx context.Context, job domain.Job, p *webhook.DiscountPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleDiscountFunc == nil {
		panic("detectorMock.HandleDiscountFunc: method is nil but detector.HandleDiscount was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.DiscountPayload
	}{Job: job, P: p}
	mock.lockHandleDiscount.Lock()
	mock.calls.HandleDiscount = append(mock.calls.HandleDiscount, callInfo)
	mock.lockHandleDiscount.Unlock()
	return mock.HandleDiscountFunc(ctx, job, p)
}

func (mock *detectorMock) HandleDiscountCalls() []struct {
	Job domain.Job
	P   *webhook.DiscountPayload
} {
	mock.lockHandleDiscount.RLock()
	calls := mock.calls.HandleDiscount
	mock.lockHandleDiscount.RUnlock()
	return calls
}

func (mock *detectorMock) HandleDomain(ctx context.Context, job domain.Job, p *webhook.DomainPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleDomainFunc == nil {
		panic("detectorMock.HandleDomainFunc: method is nil but detector.HandleDomain was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.DomainPayload
	}{Job: job, P: p}
	mock.lockHandleDomain.Lock()
	mock.calls.HandleDomain = append(mock.calls.HandleDomain, callInfo)
	mock.lockHandleDomain.Unlock()
	return mock.HandleDomainFunc(ctx, job, p)
}

func (mock *detectorMock) HandleDomainCalls() []struct {
	Job domain.Job
	P   *webhook.DomainPayload
} {
	mock.lockHandleDomain.RLock()
	calls := mock.calls.HandleDomain
	mock.lockHandleDomain.RUnlock()
	return calls
}

func (mock *detectorMock) HandleTheme(ctx context.Context, job domain.Job, p *webhook.ThemePayload) ([]domain.ChangeEvent, error) {
	if mock.HandleThemeFunc == nil {
		panic("detectorMock.HandleThemeFunc: method is nil but detector.HandleTheme was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.ThemePayload
	}{Job: job, P: p}
	mock.lockHandleTheme.Lock()
	mock.calls.HandleTheme = append(mock.calls.HandleTheme, callInfo)
	mock.lockHandleTheme.Unlock()
	return mock.HandleThemeFunc(ctx, job, p)
}

func (mock *detectorMock) HandleThemeCalls() []struct {
	Job domain.Job
	P   *webhook.ThemePayload
} {
	mock.lockHandleTheme.RLock()
	calls := mock.calls.HandleTheme
	mock.lockHandleTheme.RUnlock()
	return calls
}

func (mock *detectorMock) HandleScopes(ctx context.Context, job domain.Job, p *webhook.ScopesPayload) ([]domain.ChangeEvent, error) {
	if mock.HandleScopesFunc == nil {
		panic("detectorMock.HandleScopesFunc: method is nil but detector.HandleScopes was just called")
	}
	callInfo := struct {
		Job domain.Job
		P   *webhook.ScopesPayload
	}{Job: job, P: p}
	mock.lockHandleScopes.Lock()
	mock.calls.HandleScopes = append(mock.calls.HandleScopes, callInfo)
	mock.lockHandleScopes.Unlock()
	return mock.HandleScopesFunc(ctx, job, p)
}

func (mock *detectorMock) HandleScopesCalls() []struct {
	Job domain.Job
	P   *webhook.ScopesPayload
} {
	mock.lockHandleScopes.RLock()
	calls := mock.calls.HandleScopes
	mock.lockHandleScopes.RUnlock()
	return calls
}
