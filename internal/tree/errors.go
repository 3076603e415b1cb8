package tree

import "errors"

// Common errors returned by tree operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, tree.ErrNotFound) {
//	    // no node at that path
//	}
var (
	// ErrNotFound is returned when a path does not resolve to any node.
	ErrNotFound = errors.New("path not found")

	// ErrNotAFolder is returned when an operation requires a folder but the
	// path resolves to a document.
	ErrNotAFolder = errors.New("not a folder")

	// ErrIDExhausted is returned when the identifier generator keeps
	// producing values that already exist in the tree. With a random UUID
	// source this indicates a broken generator, not bad luck.
	ErrIDExhausted = errors.New("could not allocate a unique identifier")
)
