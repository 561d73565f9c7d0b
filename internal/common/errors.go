package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Session errors.
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("administrator role required")

	// Validation errors detected before any network call.
	ErrEmptyText = errors.New("text must not be empty")
)
