package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/storewatch/pkg/ctxutil"
)

// ShopDomainHeader names the shop a webhook delivery belongs to.
const ShopDomainHeader = "X-Shopify-Shop-Domain"

// Tenant stores the lowercased shop domain header, when present, in the
// context. It does not authenticate anything.
func Tenant() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			shop := strings.ToLower(strings.TrimSpace(r.Header.Get(ShopDomainHeader)))
			if shop != "" {
				r = r.WithContext(ctxutil.WithTenant(r.Context(), shop))
			}
			next.ServeHTTP(w, r)
		})
	}
}
