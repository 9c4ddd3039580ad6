package store

import "errors"

var (
	// ErrNotFound reports that no document matched the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique index violation.
	ErrDuplicate = errors.New("duplicate")
)
