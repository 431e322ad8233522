package core

import "errors"

// Common errors.
var (
	// ErrNotFound reports a document, preference or record that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly reports a write attempted against a read-only data directory.
	ErrReadOnly = errors.New("store is in read-only mode")

	// ErrInvalidCatalog reports reference data that failed load-time validation.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrOffline reports an action refused because the device has no connectivity.
	ErrOffline = errors.New("device is offline")
)
