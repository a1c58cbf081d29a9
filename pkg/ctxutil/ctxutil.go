// Package ctxutil carries request-scoped identifiers through a context.
package ctxutil

import "context"

type ctxKey string

const (
	tenantKey    ctxKey = "tenant"
	requestIDKey ctxKey = "request_id"
)

// WithTenant stores the shop domain the request acts for.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// TenantFromCtx extracts the shop domain from the context.
// Returns "" and false if the value is missing or empty.
func TenantFromCtx(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(tenantKey).(string)
	if !ok || tenant == "" {
		return "", false
	}
	return tenant, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
