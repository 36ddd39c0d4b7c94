package service

import (
	"errors"
	"time"

	"github.com/queueboard/queueboard/internal/version"
)

var (
	// ErrTokenRequired is returned when an update arrives without a
	// version token in either the body or the precondition header.
	ErrTokenRequired = errors.New("version token required")
	// ErrStaleToken is returned when an update supplied a token minted
	// from an instant that is no longer current (a lost-update race).
	ErrStaleToken = errors.New("stale version token")
	// ErrPreconditionFailed is returned when a delete supplied a token
	// that does not match the current record state.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// TokenOrigin says where a caller's version token came from.
type TokenOrigin int

const (
	TokenNone TokenOrigin = iota
	TokenBody
	TokenHeader
)

// headerWinsOverBody is the single precedence policy: when both the
// precondition header and the body field carry a token, the header is used.
const headerWinsOverBody = true

// Precondition is a caller-supplied version token together with its origin.
type Precondition struct {
	Origin TokenOrigin
	Token  string
}

// ResolvePrecondition picks the effective token from the precondition
// header and the body field.
func ResolvePrecondition(headerToken, bodyToken string) Precondition {
	if headerToken != "" && headerWinsOverBody {
		return Precondition{Origin: TokenHeader, Token: headerToken}
	}
	if bodyToken != "" {
		return Precondition{Origin: TokenBody, Token: bodyToken}
	}
	return Precondition{Origin: TokenNone}
}

// guardUpdate decides whether an update may proceed against the record's
// current last-modified instant. Updates require proof of the version
// being edited, so an absent token is an error.
func guardUpdate(pre Precondition, current time.Time) error {
	if pre.Origin == TokenNone {
		return ErrTokenRequired
	}
	ok, err := version.Match(pre.Token, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaleToken
	}
	return nil
}

// guardDelete decides whether a delete may proceed. The token is optional;
// when present a mismatch is a failed precondition, not a write race.
func guardDelete(pre Precondition, current time.Time) error {
	if pre.Origin == TokenNone {
		return nil
	}
	ok, err := version.Match(pre.Token, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPreconditionFailed
	}
	return nil
}
