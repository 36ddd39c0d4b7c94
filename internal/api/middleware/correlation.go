package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	// CorrelationHeader is the header carrying the per-request correlation id.
	CorrelationHeader = "X-Correlation-ID"
	correlationKey    = contextKey("correlation_id")
)

// CorrelationID returns the correlation id stamped on the request, or an
// empty string outside a request scope.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

// Correlation middleware assigns a correlation id to each request.
// If the inbound X-Correlation-ID header is present, its value is used;
// otherwise a new UUID is generated. The id is echoed on the response
// header, stored in context, and never regenerated mid-request.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(CorrelationHeader))
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(CorrelationHeader, id)

		ctx := context.WithValue(r.Context(), correlationKey, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
