package store

import "errors"

// Predefined errors for the store layer.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateShare indicates a second share for the same
	// (expense, debtor) pair.
	ErrDuplicateShare = errors.New("duplicate share for expense and debtor")
)
