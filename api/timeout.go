package api

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns middleware that bounds the request context by d. Handlers
// that honour ctx see context.DeadlineExceeded once it passes; the error is
// reported as 503 Service Unavailable.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
