package detect

import (
	"context"
	"github.com/heartmarshall/storewatch/internal/domain"
	"sync"
)

var _ snapshotStore = &snapshotStoreMock{}

type snapshotStoreMock struct {
	GetProductFunc             func(ctx context.Context, tenant string, productID string, forUpdate bool) (*domain.ProductSnapshot, error)
	UpsertProductFunc          func(ctx context.Context, p *domain.ProductSnapshot) error
	DeleteProductFunc          func(ctx context.Context, tenant string, productID string) (bool, error)
	GetVariantFunc             func(ctx context.Context, tenant string, productID string, variantID string, forUpdate bool) (*domain.VariantSnapshot, error)
	UpdateVariantInventoryFunc func(ctx context.Context, tenant string, productID string, variantID string, qty int) (bool, error)
	GetNameFunc                func(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) (*string, error)
	UpsertNameFunc             func(ctx context.Context, tenant string, entityType domain.EntityType, entityID string, name string) error
	DeleteNameFunc             func(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) error
	GetScopesFunc              func(ctx context.Context, tenant string, forUpdate bool) ([]string, bool, error)
	PutScopesFunc              func(ctx context.Context, tenant string, scopes []string) error

	calls struct {
		GetProduct []struct {
			Tenant    string
			ProductID string
			ForUpdate bool
		}
		UpsertProduct []struct {
			P *domain.ProductSnapshot
		}
		DeleteProduct []struct {
			Tenant    string
			ProductID string
		}
		GetVariant []struct {
			Tenant    string
			ProductID string
			VariantID string
			ForUpdate bool
		}
		UpdateVariantInventory []struct {
			Tenant    string
			ProductID string
			VariantID string
			Qty       int
		}
		GetName []struct {
			Tenant     string
			EntityType domain.EntityType
			EntityID   string
		}
		UpsertName []struct {
			Tenant     string
			EntityType domain.EntityType
			EntityID   string
			Name       string
		}
		DeleteName []struct {
			Tenant     string
			EntityType domain.EntityType
			EntityID   string
		}
		GetScopes []struct {
			Tenant    string
			ForUpdate bool
		}
		PutScopes []struct {
			Tenant string
			Scopes []string
		}
	}
	lockGetProduct             sync.RWMutex
	lockUpsertProduct          sync.RWMutex
	lockDeleteProduct          sync.RWMutex
	lockGetVariant             sync.RWMutex
	lockUpdateVariantInventory sync.RWMutex
	lockGetName                sync.RWMutex
	lockUpsertName             sync.RWMutex
	lockDeleteName             sync.RWMutex
	lockGetScopes              sync.RWMutex
	lockPutScopes              sync.RWMutex
}

func (mock *snapshotStoreMock) GetProduct(ctx context.Context, tenant string, productID string, forUpdate bool) (*domain.ProductSnapshot, error) {
	if mock.GetProductFunc == nil {
		panic("snapshotStoreMock.GetProductFunc: method is nil but snapshotStore.GetProduct was just called")
	}
	callInfo := struct {
		Tenant    string
		ProductID string
		ForUpdate bool
	}{Tenant: tenant, ProductID: productID, ForUpdate: forUpdate}
	mock.lockGetProduct.Lock()
	mock.calls.GetProduct = append(mock.calls.GetProduct, callInfo)
	mock.lockGetProduct.Unlock()
	return mock.GetProductFunc(ctx, tenant, productID, forUpdate)
}

func (mock *snapshotStoreMock) GetProductCalls() []struct {
	Tenant    string
	ProductID string
	ForUpdate bool
} {
	mock.lockGetProduct.RLock()
	calls := mock.calls.GetProduct
	mock.lockGetProduct.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) UpsertProduct(ctx context.Context, p *domain.ProductSnapshot) error {
	if mock.UpsertProductFunc == nil {
		panic("snapshotStoreMock.UpsertProductFunc: method is nil but snapshotStore.UpsertProduct was just called")
	}
	callInfo := struct {
		P *domain.ProductSnapshot
	}{P: p}
	mock.lockUpsertProduct.Lock()
	mock.calls.UpsertProduct = append(mock.calls.UpsertProduct, callInfo)
	mock.lockUpsertProduct.Unlock()
	return mock.UpsertProductFunc(ctx, p)
}

func (mock *snapshotStoreMock) UpsertProductCalls() []struct {
	P *domain.ProductSnapshot
} {
	mock.lockUpsertProduct.RLock()
	calls := mock.calls.UpsertProduct
	mock.lockUpsertProduct.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) DeleteProduct(ctx context.Context, tenant string, productID string) (bool, error) {
	if mock.DeleteProductFunc == nil {
		panic("snapshotStoreMock.DeleteProductFunc: method is nil but snapshotStore.DeleteProduct was just called")
	}
	callInfo := struct {
		Tenant    string
		ProductID string
	}{Tenant: tenant, ProductID: productID}
	mock.lockDeleteProduct.Lock()
	mock.calls.DeleteProduct = append(mock.calls.DeleteProduct, callInfo)
	mock.lockDeleteProduct.Unlock()
	return mock.DeleteProductFunc(ctx, tenant, productID)
}

func (mock *snapshotStoreMock) DeleteProductCalls() []struct {
	Tenant    string
	ProductID string
} {
	mock.lockDeleteProduct.RLock()
	calls := mock.calls.DeleteProduct
	mock.lockDeleteProduct.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) GetVariant(ctx context.Context, tenant string, productID string, variantID string, forUpdate bool) (*domain.VariantSnapshot, error) {
	if mock.GetVariantFunc == nil {
		panic("snapshotStoreMock.GetVariantFunc: method is nil but snapshotStore.GetVariant was just called")
	}
	callInfo := struct {
		Tenant    string
		ProductID string
		VariantID string
		ForUpdate bool
	}{Tenant: tenant, ProductID: productID, VariantID: variantID, ForUpdate: forUpdate}
	mock.lockGetVariant.Lock()
	mock.calls.GetVariant = append(mock.calls.GetVariant, callInfo)
	mock.lockGetVariant.Unlock()
	return mock.GetVariantFunc(ctx, tenant, productID, variantID, forUpdate)
}

func (mock *snapshotStoreMock) GetVariantCalls() []struct {
	Tenant    string
	ProductID string
	VariantID string
	ForUpdate bool
} {
	mock.lockGetVariant.RLock()
	calls := mock.calls.GetVariant
	mock.lockGetVariant.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) UpdateVariantInventory(ctx context.Context, tenant string, productID string, variantID string, qty int) (bool, error) {
	if mock.UpdateVariantInventoryFunc == nil {
		panic("snapshotStoreMock.UpdateVariantInventoryFunc: method is nil but snapshotStore.UpdateVariantInventory was just called")
	}
	callInfo := struct {
		Tenant    string
		ProductID string
		VariantID string
		Qty       int
	}{Tenant: tenant, ProductID: productID, VariantID: variantID, Qty: qty}
	mock.lockUpdateVariantInventory.Lock()
	mock.calls.UpdateVariantInventory = append(mock.calls.UpdateVariantInventory, callInfo)
	mock.lockUpdateVariantInventory.Unlock()
	return mock.UpdateVariantInventoryFunc(ctx, tenant, productID, variantID, qty)
}

func (mock *snapshotStoreMock) UpdateVariantInventoryCalls() []struct {
	Tenant    string
	ProductID string
	VariantID string
	Qty       int
} {
	mock.lockUpdateVariantInventory.RLock()
	calls := mock.calls.UpdateVariantInventory
	mock.lockUpdateVariantInventory.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) GetName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) (*string, error) {
	if mock.GetNameFunc == nil {
		panic("snapshotStoreMock.GetNameFunc: method is nil but snapshotStore.GetName was just called")
	}
	callInfo := struct {
		Tenant     string
		EntityType domain.EntityType
		EntityID   string
	}{Tenant: tenant, EntityType: entityType, EntityID: entityID}
	mock.lockGetName.Lock()
	mock.calls.GetName = append(mock.calls.GetName, callInfo)
	mock.lockGetName.Unlock()
	return mock.GetNameFunc(ctx, tenant, entityType, entityID)
}

func (mock *snapshotStoreMock) GetNameCalls() []struct {
	Tenant     string
	EntityType domain.EntityType
	EntityID   string
} {
	mock.lockGetName.RLock()
	calls := mock.calls.GetName
	mock.lockGetName.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) UpsertName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string, name string) error {
	if mock.UpsertNameFunc == nil {
		panic("snapshotStoreMock.UpsertNameFunc: method is nil but snapshotStore.UpsertName was just called")
	}
	callInfo := struct {
		Tenant     string
		EntityType domain.EntityType
		EntityID   string
		Name       string
	}{Tenant: tenant, EntityType: entityType, EntityID: entityID, Name: name}
	mock.lockUpsertName.Lock()
	mock.calls.UpsertName = append(mock.calls.UpsertName, callInfo)
	mock.lockUpsertName.Unlock()
	return mock.UpsertNameFunc(ctx, tenant, entityType, entityID, name)
}

func (mock *snapshotStoreMock) UpsertNameCalls() []struct {
	Tenant     string
	EntityType domain.EntityType
	EntityID   string
	Name       string
} {
	mock.lockUpsertName.RLock()
	calls := mock.calls.UpsertName
	mock.lockUpsertName.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) DeleteName(ctx context.Context, tenant string, entityType domain.EntityType, entityID string) error {
	if mock.DeleteNameFunc == nil {
		panic("snapshotStoreMock.DeleteNameFunc: method is nil but snapshotStore.DeleteName was just called")
	}
	callInfo := struct {
		Tenant     string
		EntityType domain.EntityType
		EntityID   string
	}{Tenant: tenant, EntityType: entityType, EntityID: entityID}
	mock.lockDeleteName.Lock()
	mock.calls.DeleteName = append(mock.calls.DeleteName, callInfo)
	mock.lockDeleteName.Unlock()
	return mock.DeleteNameFunc(ctx, tenant, entityType, entityID)
}

func (mock *snapshotStoreMock) DeleteNameCalls() []struct {
	Tenant     string
	EntityType domain.EntityType
	EntityID   string
} {
	mock.lockDeleteName.RLock()
	calls := mock.calls.DeleteName
	mock.lockDeleteName.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) GetScopes(ctx context.Context, tenant string, forUpdate bool) ([]string, bool, error) {
	if mock.GetScopesFunc == nil {
		panic("snapshotStoreMock.GetScopesFunc: method is nil but snapshotStore.GetScopes was just called")
	}
	callInfo := struct {
		Tenant    string
		ForUpdate bool
	}{Tenant: tenant, ForUpdate: forUpdate}
	mock.lockGetScopes.Lock()
	mock.calls.GetScopes = append(mock.calls.GetScopes, callInfo)
	mock.lockGetScopes.Unlock()
	return mock.GetScopesFunc(ctx, tenant, forUpdate)
}

func (mock *snapshotStoreMock) GetScopesCalls() []struct {
	Tenant    string
	ForUpdate bool
} {
	mock.lockGetScopes.RLock()
	calls := mock.calls.GetScopes
	mock.lockGetScopes.RUnlock()
	return calls
}

func (mock *snapshotStoreMock) PutScopes(ctx context.Context, tenant string, scopes []string) error {
	if mock.PutScopesFunc == nil {
		panic("snapshotStoreMock.PutScopesFunc: method is nil but snapshotStore.PutScopes was just called")
	}
	callInfo := struct {
		Tenant string
		Scopes []string
	}{Tenant: tenant, Scopes: scopes}
	mock.lockPutScopes.Lock()
	mock.calls.PutScopes = append(mock.calls.PutScopes, callInfo)
	mock.lockPutScopes.Unlock()
	return mock.PutScopesFunc(ctx, tenant, scopes)
}

func (mock *snapshotStoreMock) PutScopesCalls() []struct {
	Tenant string
	Scopes []string
} {
	mock.lockPutScopes.RLock()
	calls := mock.calls.PutScopes
	mock.lockPutScopes.RUnlock()
	return calls
}
