// Package problem renders rejected operations into the uniform
// application/problem+json error body shared by all endpoints.
package problem

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/queueboard/queueboard/internal/api/middleware"
	"github.com/queueboard/queueboard/internal/validate"
)

// ContentType is the media type for every error response.
const ContentType = "application/problem+json"

const (
	TypeValidation         = "https://queueboard.dev/problems/validation"
	TypeNotFound           = "https://queueboard.dev/problems/not-found"
	TypeConflict           = "https://queueboard.dev/problems/conflict"
	TypePreconditionFailed = "https://queueboard.dev/problems/precondition-failed"
	TypeInternal           = "https://tools.ietf.org/html/rfc7231#section-6.6.1"
)

// Problem is the wire shape of an error body. Errors is present only for
// field-level validation failures; conflict and precondition failures use
// Detail instead.
type Problem struct {
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	Detail    string              `json:"detail,omitempty"`
	Instance  string              `json:"instance"`
	TraceID   string              `json:"traceId"`
	Timestamp string              `json:"timestamp"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, r *http.Request, p Problem) {
	p.Instance = r.URL.Path
	p.TraceID = middleware.CorrelationID(r.Context())
	p.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// Validation writes a 400 with the accumulated field and global messages.
func Validation(w http.ResponseWriter, r *http.Request, out validate.Outcome) {
	write(w, r, Problem{
		Type:   TypeValidation,
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: out,
	})
}

// NotFound writes a 404 for a missing record.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	write(w, r, Problem{
		Type:   TypeNotFound,
		Title:  "Resource not found.",
		Status: http.StatusNotFound,
		Detail: detail,
	})
}

// Conflict writes a 409 for a stale version token on update.
func Conflict(w http.ResponseWriter, r *http.Request) {
	write(w, r, Problem{
		Type:   TypeConflict,
		Title:  "Conflict",
		Status: http.StatusConflict,
		Detail: "The record was modified by another caller; refetch and resubmit with the current version token.",
	})
}

// PreconditionFailed writes a 412 for a stale precondition token on delete.
func PreconditionFailed(w http.ResponseWriter, r *http.Request) {
	write(w, r, Problem{
		Type:   TypePreconditionFailed,
		Title:  "Precondition Failed",
		Status: http.StatusPreconditionFailed,
		Detail: "The provided token does not match the current resource state.",
	})
}

// Internal writes a generic 500. The underlying error is logged at the
// boundary with the correlation id and never leaks to the caller.
func Internal(w http.ResponseWriter, r *http.Request) {
	write(w, r, Problem{
		Type:   TypeInternal,
		Title:  "An unexpected error occurred.",
		Status: http.StatusInternalServerError,
	})
}
