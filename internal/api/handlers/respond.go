package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/queueboard/queueboard/internal/api/middleware"
	"github.com/queueboard/queueboard/internal/api/problem"
	"github.com/queueboard/queueboard/internal/service"
	"github.com/queueboard/queueboard/internal/validate"
	"github.com/queueboard/queueboard/internal/version"
)

// listResponse is the paging envelope shared by the list endpoints.
type listResponse struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Items      any `json:"items"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setETag writes the version token as a quoted ETag response header.
func setETag(w http.ResponseWriter, token string) {
	w.Header().Set("ETag", `"`+token+`"`)
}

// ifMatchToken extracts the precondition token from the If-Match header,
// stripping the weak-validator prefix and surrounding quotes.
func ifMatchToken(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "W/") {
		v = strings.TrimSpace(v[2:])
	}
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = v[1 : len(v)-1]
	}
	return v
}

// badBody writes the uniform problem body for an undecodable request payload.
func badBody(w http.ResponseWriter, r *http.Request) {
	out := validate.Outcome{}
	out.AddGlobal("Request body is not valid JSON.")
	problem.Validation(w, r, out)
}

// tokenOutcome converts guard token errors into a validation outcome keyed
// by the source the caller used.
func tokenOutcome(err error, pre service.Precondition) (validate.Outcome, bool) {
	out := validate.Outcome{}
	switch {
	case errors.Is(err, service.ErrTokenRequired):
		out.AddField("rowVersion", "rowVersion (body) or If-Match header is required for update.")
		return out, true
	case errors.Is(err, version.ErrInvalidToken):
		if pre.Origin == service.TokenHeader {
			out.AddField("If-Match", "If-Match header must contain a valid version token.")
		} else {
			out.AddField("rowVersion", "rowVersion must be a valid version token.")
		}
		return out, true
	}
	return nil, false
}

// writeError maps pipeline errors onto the problem taxonomy. notFound is
// the resource kind's sentinel; notFoundDetail its caller-facing detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, pre service.Precondition, notFound error, notFoundDetail string) {
	if out, ok := service.AsValidation(err); ok {
		problem.Validation(w, r, out)
		return
	}
	if out, ok := tokenOutcome(err, pre); ok {
		problem.Validation(w, r, out)
		return
	}
	switch {
	case errors.Is(err, notFound):
		problem.NotFound(w, r, notFoundDetail)
	case errors.Is(err, service.ErrStaleToken):
		problem.Conflict(w, r)
	case errors.Is(err, service.ErrPreconditionFailed):
		problem.PreconditionFailed(w, r)
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", middleware.CorrelationID(r.Context())),
			zap.Error(err),
		)
		problem.Internal(w, r)
	}
}
