package transfer

import "errors"

// Common errors returned by transfer operations.
//
// These can be checked with errors.Is():
//
//	if errors.Is(err, transfer.ErrCollision) {
//	    // an entry with that name already exists; -f overwrites
//	}
var (
	// ErrCollision is returned when the target folder already holds an
	// entry with the uploaded file's name and force was not set, or when
	// the entry is a folder (which can never be overwritten by a put).
	ErrCollision = errors.New("name already exists in target folder")

	// ErrNotADocument is returned by show when the path resolves to a
	// folder.
	ErrNotADocument = errors.New("path is a folder, not a document")

	// ErrAnnotatedOverwrite is returned when overwriting a document that
	// has annotation layers without --clear. Replacing content underneath
	// existing layers would leave them pointing at pages that no longer
	// exist, so the combination is rejected as unsupported.
	ErrAnnotatedOverwrite = errors.New("document has annotations; pass --clear to overwrite")

	// ErrUnsupportedType is returned for source files whose extension the
	// device cannot render.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrConcurrentModification is returned when the document's remote
	// record changed (or vanished) between loading the tree and writing,
	// meaning the loaded snapshot is stale.
	ErrConcurrentModification = errors.New("remote store changed since it was loaded")
)
