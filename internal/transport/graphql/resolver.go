package graphql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql"
	json "github.com/goccy/go-json"

	"github.com/heartmarshall/storewatch/internal/domain"
	"github.com/heartmarshall/storewatch/internal/transport/graphql/dataloader"
)

const maxEventLimit = 1000

type resolver struct {
	events eventLister
	queue  queueStats
}

type tenantThunk func() (*domain.Tenant, error)

func (r *resolver) changeEvents(ctx context.Context, opCtx *graphql.OperationContext, f graphql.CollectedField) (any, error) {
	filter, err := eventFilter(f.ArgumentMap(opCtx.Variables)["filter"])
	if err != nil {
		return nil, err
	}

	events, err := r.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	sel := graphql.CollectFields(opCtx, f.Selections, []string{"ChangeEvent"})

	// Queue every tenant lookup before resolving any so they share a batch.
	thunks := make([]tenantThunk, len(events))
	if selects(sel, "tenant") {
		loaders := dataloader.FromContext(ctx)
		for i, e := range events {
			thunks[i] = tenantThunk(loaders.TenantByDomain.Load(ctx, e.Tenant))
		}
	}

	out := make([]object, len(events))
	for i, e := range events {
		obj, err := eventObject(opCtx, sel, e, thunks[i])
		if err != nil {
			return nil, err
		}
		out[i] = obj
	}
	return out, nil
}

func eventObject(opCtx *graphql.OperationContext, sel []graphql.CollectedField, e domain.ChangeEvent, tenant tenantThunk) (object, error) {
	obj := make(object, 0, len(sel))
	for _, f := range sel {
		var v any
		switch f.Name {
		case "__typename":
			v = "ChangeEvent"
		case "id":
			v = e.ID.String()
		case "tenant":
			t, err := tenant()
			if err != nil {
				return nil, fmt.Errorf("load tenant %s: %w", e.Tenant, err)
			}
			if t != nil {
				v = tenantObject(opCtx, f, t)
			}
		case "entityType":
			v = string(e.EntityType)
		case "entityId":
			v = e.EntityID
		case "eventType":
			v = enumValue(string(e.EventType))
		case "resourceName":
			v = e.ResourceName
		case "before":
			v = e.Before
		case "after":
			v = e.After
		case "importance":
			v = enumValue(string(e.Importance))
		case "detectedAt":
			v = e.DetectedAt.UTC().Format(time.RFC3339)
		case "digestedAt":
			if e.DigestedAt != nil {
				v = e.DigestedAt.UTC().Format(time.RFC3339)
			}
		case "source":
			v = e.Source
		case "context":
			if len(e.Context) > 0 {
				v = json.RawMessage(e.Context)
			}
		}
		obj = append(obj, entry{key: f.Alias, val: v})
	}
	return obj, nil
}

func tenantObject(opCtx *graphql.OperationContext, field graphql.CollectedField, t *domain.Tenant) object {
	sel := graphql.CollectFields(opCtx, field.Selections, []string{"Tenant"})
	obj := make(object, 0, len(sel))
	for _, f := range sel {
		var v any
		switch f.Name {
		case "__typename":
			v = "Tenant"
		case "domain":
			v = t.Tenant
		case "plan":
			v = string(t.Plan)
		case "instantAlerts":
			v = t.InstantAlerts
		case "lowStockThreshold":
			v = t.LowStockThreshold
		}
		obj = append(obj, entry{key: f.Alias, val: v})
	}
	return obj
}

func (r *resolver) queueStats(ctx context.Context, opCtx *graphql.OperationContext, field graphql.CollectedField) (any, error) {
	stats, err := r.queue.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}

	sel := graphql.CollectFields(opCtx, field.Selections, []string{"QueueStats"})
	obj := make(object, 0, len(sel))
	for _, f := range sel {
		var v any
		switch f.Name {
		case "__typename":
			v = "QueueStats"
		case "pending":
			v = stats.Pending
		case "processing":
			v = stats.Processing
		case "completed":
			v = stats.Completed
		case "failed":
			v = stats.Failed
		case "total":
			v = stats.Total()
		}
		obj = append(obj, entry{key: f.Alias, val: v})
	}
	return obj, nil
}

// eventFilter converts the coerced ChangeEventFilter argument.
func eventFilter(raw any) (domain.EventFilter, error) {
	in, _ := raw.(map[string]any)

	var (
		f    domain.EventFilter
		errs []domain.FieldError
	)
	if v, ok := in["tenant"].(string); ok {
		f.Tenant = strings.ToLower(strings.TrimSpace(v))
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		v, ok := in[bound.name].(string)
		if !ok || v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: bound.name, Message: "must be RFC3339"})
			continue
		}
		*bound.dst = &t
	}

	if v, ok := in["minImportance"].(string); ok {
		f.MinImportance = domain.Importance(strings.ToLower(v))
	}

	switch v := in["types"].(type) {
	case []any:
		for _, t := range v {
			if s, ok := t.(string); ok {
				f.EventTypes = append(f.EventTypes, domain.EventType(strings.ToLower(s)))
			}
		}
	case string:
		f.EventTypes = append(f.EventTypes, domain.EventType(strings.ToLower(v)))
	}

	if v, ok := in["undigested"].(bool); ok {
		f.UndigestedOnly = v
	}

	if v, ok := in["limit"]; ok && v != nil {
		n, ok := toInt(v)
		if !ok || n < 1 || n > maxEventLimit {
			errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 1 and 1000"})
		}
		f.Limit = n
	}

	if len(errs) > 0 {
		return f, domain.NewValidationErrors(errs)
	}
	return f, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

func enumValue(s string) string {
	return strings.ToUpper(s)
}

func selects(sel []graphql.CollectedField, name string) bool {
	for _, f := range sel {
		if f.Name == name {
			return true
		}
	}
	return false
}
