package domain

import "errors"

var (
	// ErrNotFound signals a missing record
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail signals a signup with an already-registered email
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrForbidden signals an operation on a record the caller does not own
	ErrForbidden = errors.New("forbidden")
)
