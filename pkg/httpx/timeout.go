package httpx

import (
	"context"
	"net/http"
	"time"
)

// ContextTimeout bounds the request context. Handlers and everything below
// them (database calls included) observe the deadline; a wedged backend
// becomes a deadline error instead of a stuck request.
func ContextTimeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
