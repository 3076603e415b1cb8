package store

import "errors"

// Common errors returned by store operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, store.ErrWrite) {
//	    // the device may hold a partially-written document
//	}
var (
	// ErrAccess is returned when the store cannot be read: the device is
	// unreachable or the enumeration command failed.
	ErrAccess = errors.New("cannot read remote store")

	// ErrWrite is returned when pushing sidecar files failed. The remote
	// store may be left partially written; callers must not assume
	// atomicity.
	ErrWrite = errors.New("cannot write remote store")

	// ErrInvalidRecord is returned when a sidecar record fails validation
	// before rendering. Nothing is pushed for an invalid record.
	ErrInvalidRecord = errors.New("invalid sidecar record")
)
