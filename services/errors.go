package services

import "errors"

var (
	// ErrNotFound covers both truly missing records and records owned by
	// someone else, so callers cannot tell the difference.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken signals a registration attempt with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")
)
