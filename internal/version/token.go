// Package version encodes a record's last-modified instant as an opaque
// transport-safe token used for optimistic concurrency checks.
package version

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

// ErrInvalidToken is returned when a token is not valid base64 or decodes
// to fewer bytes than the instant representation requires.
var ErrInvalidToken = errors.New("invalid version token")

const instantSize = 8

// Encode returns the token for the given instant. Tokens are equal iff the
// underlying instants are equal; callers must treat them as opaque.
func Encode(t time.Time) string {
	var buf [instantSize]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(t.UnixNano()))
	return base64.StdEncoding.EncodeToString(buf[:])
}

// Decode returns the instant a token was minted from. The result is always
// in UTC with nanosecond precision.
func Decode(token string) (time.Time, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if len(raw) < instantSize {
		return time.Time{}, ErrInvalidToken
	}
	nanos := int64(binary.LittleEndian.Uint64(raw[:instantSize]))
	return time.Unix(0, nanos).UTC(), nil
}

// Match reports whether a token matches the given instant. Comparison is on
// the encoded nanosecond value, the same representation Encode writes.
func Match(token string, t time.Time) (bool, error) {
	decoded, err := Decode(token)
	if err != nil {
		return false, err
	}
	return decoded.UnixNano() == t.UnixNano(), nil
}
