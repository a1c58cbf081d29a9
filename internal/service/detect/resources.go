package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/webhook"
)

// HandleCollection processes collections/create and collections/update.
func (e *Engine) HandleCollection(ctx context.Context, job domain.Job, p *webhook.CollectionPayload) ([]domain.ChangeEvent, error) {
	id := p.ID.String()
	eventType := domain.EventCollectionUpdated
	if job.Topic == webhook.TopicCollectionsCreate {
		eventType = domain.EventCollectionCreated
	}

	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, err := e.snapshots.GetName(ctx, job.Tenant, domain.EntityTypeCollection, id)
		if err != nil {
			return nil, fmt.Errorf("load collection name: %w", err)
		}
		if err := e.snapshots.UpsertName(ctx, job.Tenant, domain.EntityTypeCollection, id, p.Title); err != nil {
			return nil, fmt.Errorf("store collection name: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeCollection,
			entityID:   id,
			eventType:  eventType,
			name:       p.Title,
			after:      ptr(p.Title),
			importance: ImportanceOf(eventType),
		}
		switch {
		case eventType == domain.EventCollectionCreated:
			c.ctx.Summary = "Collection created: " + p.Title
		case prev != nil && *prev != p.Title:
			c.before = prev
			c.ctx.Summary = fmt.Sprintf("Collection renamed: %s → %s", *prev, p.Title)
		default:
			c.ctx.Summary = "Collection updated: " + p.Title
		}
		return e.emit(ctx, job, []candidate{c})
	})
}

// HandleCollectionDelete processes collections/delete.
func (e *Engine) HandleCollectionDelete(ctx context.Context, job domain.Job, p *webhook.DeletePayload) ([]domain.ChangeEvent, error) {
	id := p.Entity()

	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, err := e.snapshots.GetName(ctx, job.Tenant, domain.EntityTypeCollection, id)
		if err != nil {
			return nil, fmt.Errorf("load collection name: %w", err)
		}
		if err := e.snapshots.DeleteName(ctx, job.Tenant, domain.EntityTypeCollection, id); err != nil {
			return nil, fmt.Errorf("forget collection name: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeCollection,
			entityID:   id,
			eventType:  domain.EventCollectionDeleted,
			name:       nameOr(prev, "Collection "+id),
			before:     prev,
			importance: ImportanceOf(domain.EventCollectionDeleted),
		}
		c.ctx.Summary = "Collection deleted: " + c.name
		return e.emit(ctx, job, []candidate{c})
	})
}

// HandleDiscount processes discounts/create, discounts/update and
// discounts/delete.
func (e *Engine) HandleDiscount(ctx context.Context, job domain.Job, p *webhook.DiscountPayload) ([]domain.ChangeEvent, error) {
	id := p.Entity()

	var eventType domain.EventType
	switch job.Topic {
	case webhook.TopicDiscountsCreate:
		eventType = domain.EventDiscountCreated
	case webhook.TopicDiscountsDelete:
		eventType = domain.EventDiscountDeleted
	default:
		eventType = domain.EventDiscountUpdated
	}

	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, err := e.snapshots.GetName(ctx, job.Tenant, domain.EntityTypeDiscount, id)
		if err != nil {
			return nil, fmt.Errorf("load discount name: %w", err)
		}

		name := p.Title
		if eventType == domain.EventDiscountDeleted {
			if name == "" {
				name = nameOr(prev, "Discount "+id)
			}
			err = e.snapshots.DeleteName(ctx, job.Tenant, domain.EntityTypeDiscount, id)
		} else {
			err = e.snapshots.UpsertName(ctx, job.Tenant, domain.EntityTypeDiscount, id, p.Title)
		}
		if err != nil {
			return nil, fmt.Errorf("store discount name: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeDiscount,
			entityID:   id,
			eventType:  eventType,
			name:       name,
			importance: ImportanceOf(eventType),
		}
		switch eventType {
		case domain.EventDiscountDeleted:
			c.before = ptr(name)
		case domain.EventDiscountUpdated:
			c.before = prev
			c.after = statusOrTitle(p)
		default:
			c.after = statusOrTitle(p)
		}
		c.ctx.Summary = fmt.Sprintf("Discount %sd: %s", webhook.Verb(job.Topic), name)
		return e.emit(ctx, job, []candidate{c})
	})
}

// HandleDomain processes domains/create, domains/update and domains/destroy.
// An update that keeps the host is not an event.
func (e *Engine) HandleDomain(ctx context.Context, job domain.Job, p *webhook.DomainPayload) ([]domain.ChangeEvent, error) {
	id := p.ID.String()

	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, err := e.snapshots.GetName(ctx, job.Tenant, domain.EntityTypeDomain, id)
		if err != nil {
			return nil, fmt.Errorf("load domain host: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeDomain,
			entityID:   id,
		}
		if job.Topic == webhook.TopicDomainsDestroy {
			if err := e.snapshots.DeleteName(ctx, job.Tenant, domain.EntityTypeDomain, id); err != nil {
				return nil, fmt.Errorf("forget domain host: %w", err)
			}
			c.eventType = domain.EventDomainRemoved
			c.name = p.Host
			if c.name == "" {
				c.name = nameOr(prev, "Domain "+id)
			}
			c.before = ptr(c.name)
			c.ctx.Summary = "Domain removed: " + c.name
		} else {
			if err := e.snapshots.UpsertName(ctx, job.Tenant, domain.EntityTypeDomain, id, p.Host); err != nil {
				return nil, fmt.Errorf("store domain host: %w", err)
			}
			if job.Topic == webhook.TopicDomainsUpdate && prev != nil && *prev == p.Host {
				return nil, nil
			}
			c.eventType = domain.EventDomainChanged
			c.name = p.Host
			c.before = prev
			c.after = ptr(p.Host)
			c.ctx.Summary = "Domain changed: " + p.Host
			if prev != nil {
				c.ctx.Summary = fmt.Sprintf("Domain changed: %s → %s", *prev, p.Host)
			}
		}
		c.importance = ImportanceOf(c.eventType)
		return e.emit(ctx, job, []candidate{c})
	})
}

// HandleTheme processes themes/publish. Only a theme becoming the live
// storefront theme is an event.
func (e *Engine) HandleTheme(ctx context.Context, job domain.Job, p *webhook.ThemePayload) ([]domain.ChangeEvent, error) {
	if !strings.EqualFold(p.Role, webhook.ThemeRoleMain) {
		return nil, nil
	}
	id := p.ID.String()

	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, err := e.snapshots.GetName(ctx, job.Tenant, domain.EntityTypeTheme, mainThemeKey)
		if err != nil {
			return nil, fmt.Errorf("load live theme: %w", err)
		}
		if err := e.snapshots.UpsertName(ctx, job.Tenant, domain.EntityTypeTheme, mainThemeKey, p.Name); err != nil {
			return nil, fmt.Errorf("store live theme: %w", err)
		}

		c := candidate{
			entityType: domain.EntityTypeTheme,
			entityID:   id,
			eventType:  domain.EventThemePublish,
			name:       p.Name,
			before:     prev,
			after:      ptr(p.Name),
			importance: ImportanceOf(domain.EventThemePublish),
		}
		return e.emit(ctx, job, []candidate{c})
	})
}

// mainThemeKey stores the name of the live theme.
const mainThemeKey = "main"

// HandleScopes processes app/scopes_update. Without a stored set, the
// payload's previous list is the baseline; without either nothing is
// reported.
func (e *Engine) HandleScopes(ctx context.Context, job domain.Job, p *webhook.ScopesPayload) ([]domain.ChangeEvent, error) {
	return e.inTx(ctx, func(ctx context.Context) ([]domain.ChangeEvent, error) {
		prev, ok, err := e.snapshots.GetScopes(ctx, job.Tenant, true)
		if err != nil {
			return nil, fmt.Errorf("load scopes: %w", err)
		}
		if !ok && p.Previous != nil {
			prev, ok = p.Previous, true
		}
		if err := e.snapshots.PutScopes(ctx, job.Tenant, p.Current); err != nil {
			return nil, fmt.Errorf("store scopes: %w", err)
		}
		if !ok {
			return nil, nil
		}

		added, removed, imp, changed := ClassifyScopes(prev, p.Current)
		if !changed {
			return nil, nil
		}

		entityID := p.ID.String()
		if entityID == "" {
			entityID = job.Tenant
		}
		c := candidate{
			entityType: domain.EntityTypeApp,
			entityID:   entityID,
			eventType:  domain.EventAppPermissionsChanged,
			name:       "App permissions",
			before:     ptr(strings.Join(prev, ",")),
			after:      ptr(strings.Join(p.Current, ",")),
			importance: imp,
			ctx: eventContext{
				Summary: scopesSummary(added, removed),
				Added:   added,
				Removed: removed,
			},
		}
		return e.emit(ctx, job, []candidate{c})
	})
}

// inTx runs fn in a transaction and returns its events.
func (e *Engine) inTx(ctx context.Context, fn func(ctx context.Context) ([]domain.ChangeEvent, error)) ([]domain.ChangeEvent, error) {
	var out []domain.ChangeEvent
	err := e.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scopesSummary(added, removed []string) string {
	var parts []string
	if len(added) > 0 {
		parts = append(parts, "granted "+strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		parts = append(parts, "revoked "+strings.Join(removed, ", "))
	}
	return "App permissions " + strings.Join(parts, "; ")
}

func nameOr(name *string, fallback string) string {
	if name == nil || *name == "" {
		return fallback
	}
	return *name
}

func statusOrTitle(p *webhook.DiscountPayload) *string {
	if p.Status != "" {
		return ptr(p.Status)
	}
	return ptr(p.Title)
}
