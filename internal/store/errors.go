package store

import "errors"

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("record not found")
	// ErrVersionMismatch is returned when a conditional write found the
	// record but its stored instant no longer matches the expected one.
	ErrVersionMismatch = errors.New("record changed concurrently")
)
