// Package tenant answers per-shop policy questions for the pipeline: which
// change categories a shop may track, its low stock threshold and where
// instant alerts go.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/storewatch/internal/domain"
)

type tenantRepo interface {
	Get(ctx context.Context, tenant string) (*domain.Tenant, error)
}

// Provider implements tenant settings lookups.
type Provider struct {
	tenants tenantRepo
	log     *slog.Logger
}

// NewProvider creates a Provider.
func NewProvider(log *slog.Logger, tenants tenantRepo) *Provider {
	return &Provider{
		tenants: tenants,
		log:     log.With("service", "tenant"),
	}
}

// get returns nil for shops that are not installed.
func (p *Provider) get(ctx context.Context, tenant string) (*domain.Tenant, error) {
	t, err := p.tenants.Get(ctx, tenant)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", tenant, err)
	}
	return t, nil
}

// CanTrack reports whether the tenant may receive events of the feature.
// Unknown tenants can track nothing.
func (p *Provider) CanTrack(ctx context.Context, tenant string, feature domain.Feature) (bool, error) {
	t, err := p.get(ctx, tenant)
	if err != nil || t == nil {
		return false, err
	}
	return t.CanTrack(feature), nil
}

// LowStockThreshold returns the tenant's threshold or the default.
func (p *Provider) LowStockThreshold(ctx context.Context, tenant string) (int, error) {
	t, err := p.get(ctx, tenant)
	if err != nil {
		return 0, err
	}
	if t == nil || t.LowStockThreshold <= 0 {
		return domain.DefaultLowStockThreshold, nil
	}
	return t.LowStockThreshold, nil
}

// HasInstantAlerts reports whether instant alerts are enabled and allowed by
// the plan.
func (p *Provider) HasInstantAlerts(ctx context.Context, tenant string) (bool, error) {
	t, err := p.get(ctx, tenant)
	if err != nil || t == nil {
		return false, err
	}
	return t.InstantAlerts && t.CanTrack(domain.FeatureInstantAlerts), nil
}

// AlertEmail returns the configured alert address, if any.
func (p *Provider) AlertEmail(ctx context.Context, tenant string) (*string, error) {
	t, err := p.get(ctx, tenant)
	if err != nil || t == nil {
		return nil, err
	}
	return t.AlertEmail, nil
}
