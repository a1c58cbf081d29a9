package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware so the first one runs outermost. Nil entries
// are skipped, which lets callers pass optional middleware inline.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] == nil {
				continue
			}
			final = mws[i](final)
		}
		return final
	}
}

// Ingress is the stack every storewatch request passes through. Request ID
// and tenant are set before Logger and Recovery so both can report them.
func Ingress(logger *slog.Logger) Middleware {
	return Chain(
		RequestID(),
		chimiddleware.RealIP,
		Tenant(),
		Logger(logger),
		Recovery(logger),
	)
}
