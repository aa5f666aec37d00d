package api

import "net/http"

// BodyLimit returns middleware that limits the maximum request body size for
// every route. Reading past maxBytes fails, and the binder answers 413.
// WithBodyLimit sets a tighter limit on a single route.
func BodyLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeErrorResponse(w, r, Errorf(http.StatusRequestEntityTooLarge, "request body exceeds %d bytes", maxBytes), nil)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
