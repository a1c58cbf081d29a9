package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/heartmarshall/storewatch/pkg/ctxutil"
)

// KeyByTenant buckets requests by the tenant stored by Tenant, falling back
// to the client IP for requests without one.
func KeyByTenant(r *http.Request) (string, error) {
	if tenant, ok := ctxutil.TenantFromCtx(r.Context()); ok {
		return "tenant:" + tenant, nil
	}
	return httprate.KeyByIP(r)
}

// RateLimit allows perMinute requests per tenant per minute. A non-positive
// limit disables it. Must run after Tenant.
func RateLimit(perMinute int) Middleware {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(KeyByTenant),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		}),
	)
}
