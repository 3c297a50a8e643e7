package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"wfm/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a correlation id to each request, trusting the one the
// caller supplied when present, and echoes it back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

// GetRequestID reads the correlation id placed in the context by RequestID.
func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
