// Package middleware holds the HTTP middleware for the run-history API.
package middleware

import (
	"context"
	"net/http"

	"credsentry/internal/domain"
)

type requestIDKey struct{}

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an ID so API calls can be correlated
// with check-run log lines. An incoming X-Request-ID is reused; otherwise a
// new sortable ID is minted. The ID is echoed on the response and stored in
// the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = domain.NewID()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFromContext returns the request ID, or "" when the request did
// not pass through RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
