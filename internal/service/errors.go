package service

import (
	"errors"

	"github.com/queueboard/queueboard/internal/validate"
)

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrQueueNotFound = errors.New("queue not found")
)

// ValidationError carries the accumulated validation outcome for a
// rejected payload.
type ValidationError struct {
	Outcome validate.Outcome
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// AsValidation returns the validation outcome when err is a ValidationError.
func AsValidation(err error) (validate.Outcome, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Outcome, true
	}
	return nil, false
}
