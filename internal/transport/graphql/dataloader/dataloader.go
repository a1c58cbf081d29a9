// Package dataloader provides per-request DataLoaders that batch the lookups
// GraphQL field resolvers make into single SQL calls.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/storewatch/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type tenantRepo interface {
	GetMany(ctx context.Context, tenants []string) ([]domain.Tenant, error)
}

// Repos holds the repositories the loaders read from.
type Repos struct {
	Tenant tenantRepo
}

// Loaders contains the per-request DataLoaders.
type Loaders struct {
	TenantByDomain *dataloader.Loader[string, *domain.Tenant]
}

// NewLoaders creates a fresh set of loaders. Results are cached for the
// lifetime of the Loaders, so create one per request.
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		TenantByDomain: dataloader.NewBatchedLoader(
			newTenantBatchFn(repos.Tenant),
			dataloader.WithWait[string, *domain.Tenant](wait),
			dataloader.WithBatchCapacity[string, *domain.Tenant](maxBatch),
		),
	}
}

// newTenantBatchFn resolves shop domains to settings. Shops that are not
// installed resolve to nil without an error.
func newTenantBatchFn(repo tenantRepo) dataloader.BatchFunc[string, *domain.Tenant] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[*domain.Tenant] {
		results := make([]*dataloader.Result[*domain.Tenant], len(keys))

		tenants, err := repo.GetMany(ctx, keys)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result[*domain.Tenant]{Error: err}
			}
			return results
		}

		byDomain := make(map[string]*domain.Tenant, len(tenants))
		for i := range tenants {
			byDomain[tenants[i].Tenant] = &tenants[i]
		}
		for i, k := range keys {
			results[i] = &dataloader.Result[*domain.Tenant]{Data: byDomain[k]}
		}
		return results
	}
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present, which means Middleware is not mounted.
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware mounted?")
	}
	return l
}

// Middleware instantiates per-request loaders and stores them in the request
// context.
func Middleware(repos *Repos) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(repos))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
