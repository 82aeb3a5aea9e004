package store

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the typed store methods. Handlers map these
// to HTTP status codes; anything else is a storage failure.
var (
	// ErrNotFound is returned by Get and Update methods when no row
	// matches the given key within the tenant. Deletes never return it:
	// removing a missing row is a no-op success.
	ErrNotFound = errors.New("store: not found")

	// ErrNoFields is returned by partial-update methods when the patch
	// contains no fields.
	ErrNoFields = errors.New("store: no fields to update")
)

// IsReferentialViolation reports whether err was caused by the storage
// engine rejecting a write that references a missing station or item.
// The store does not re-validate references itself; it relies on the
// engine's foreign-key enforcement and classifies the failure here.
func IsReferentialViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
