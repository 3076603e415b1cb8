// Package transfer implements the write path: turning a local file into a
// consistent set of sidecar records in the device's store, and the read-only
// show operation.
//
// A put is not transactional. Failures before the first upload leave the
// device untouched; failures mid-push leave a partial document that the next
// run's staleness checks will notice. The operator therefore orders uploads
// so the metadata record, which is what the indexer scans, always lands last.
package transfer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stacybrock/reMarkable-remtool/internal/logging"
	"github.com/stacybrock/reMarkable-remtool/internal/store"
	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

// Accessor is the slice of the store the operator writes through. Tests
// substitute a recording mock.
type Accessor interface {
	PushDocument(ctx context.Context, id string, files []store.Sidecar) error
	RemoveAnnotations(ctx context.Context, id string) error
	RemovePayload(ctx context.Context, id, ext string) error
	StatDocument(ctx context.Context, id string) (lastModified string, exists bool, err error)
	TriggerReindex(ctx context.Context) error
}

// Request describes one put operation. It lives only for the duration of the
// operation.
type Request struct {
	// SourcePath is the local file to upload.
	SourcePath string

	// FolderPath is the target folder in the library; empty means root.
	FolderPath string

	// Force allows overwriting an existing document with the same name.
	Force bool

	// Clear removes the existing document's annotation layers before the
	// overwrite.
	Clear bool
}

// Result reports what a put did.
type Result struct {
	// ID is the document identifier, fresh for a create, reused for an
	// overwrite.
	ID string

	// Name is the document's visible name.
	Name string

	// Created is true for a new document, false for an overwrite.
	Created bool
}

// Operator performs transfers against a tree snapshot loaded at invocation
// start.
type Operator struct {
	store Accessor
	tree  *tree.Tree
	log   logging.Logger

	// now is the clock, swappable in tests.
	now func() time.Time
}

// NewOperator creates an operator over the given accessor and loaded tree.
// A nil logger discards diagnostics.
func NewOperator(acc Accessor, t *tree.Tree, log logging.Logger) *Operator {
	if log == nil {
		log = logging.Nop()
	}
	return &Operator{store: acc, tree: t, log: log, now: time.Now}
}

// SetClock replaces the operator's clock. Tests use this for stable
// lastModified stamps; passing nil restores time.Now.
func (o *Operator) SetClock(clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	o.now = clock
}

// allocRetries bounds how often a create re-draws its identifier when the
// freshly allocated id turns out to exist on the device (leftover from an
// earlier partial write that never got a metadata record, so the loaded tree
// couldn't know it).
const allocRetries = 3

// Put uploads one file per Request. Nothing is written to the device until
// every local check has passed. On success the caller is expected to invoke
// Finalize once all puts of the invocation are done.
func (o *Operator) Put(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.SourcePath); err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}

	name := docName(req.SourcePath)
	fileType, err := inferFileType(req.SourcePath)
	if err != nil {
		return nil, err
	}

	folder, err := o.tree.ResolveFolder(req.FolderPath)
	if err != nil {
		return nil, err
	}

	existing := tree.FindChild(folder, name)
	switch {
	case existing == nil:
		return o.create(ctx, req, folder, name, fileType)
	case existing.IsFolder():
		return nil, fmt.Errorf("%w: %q is a folder", ErrCollision, existing.Path())
	case !req.Force:
		return nil, fmt.Errorf("%w: %q (use -f to overwrite)", ErrCollision, existing.Path())
	default:
		return o.overwrite(ctx, req, existing, fileType)
	}
}

// create is step 3 of the put state machine: fresh id, fresh records.
func (o *Operator) create(ctx context.Context, req Request, folder *tree.Node, name, fileType string) (*Result, error) {
	var id string
	for attempt := 0; ; attempt++ {
		var err error
		id, err = o.tree.AllocateID()
		if err != nil {
			return nil, err
		}

		// The tree only knows ids that have metadata records; a crashed
		// earlier push may have left other files under this id.
		_, exists, err := o.store.StatDocument(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		o.log.Warn(ctx, "allocated id exists on device, re-drawing", "id", id)
		if attempt == allocRetries {
			return nil, fmt.Errorf("%w: id %s already on device", ErrConcurrentModification, id)
		}
	}

	meta := store.NewDocumentMetadata(name, folder.ID, o.now())
	res, err := o.push(ctx, req, id, name, fileType, meta, true)
	if err != nil {
		return nil, err
	}

	// Keep the snapshot current: later files in the same invocation must
	// collide with this document instead of silently duplicating its name.
	o.tree.Attach(folder, tree.Record{
		ID:           id,
		VisibleName:  name,
		Parent:       folder.ID,
		Type:         tree.TypeDocument,
		LastModified: meta.LastModified,
		FileType:     fileType,
	})
	return res, nil
}

// overwrite is step 4: reuse the id, verify the snapshot is still current,
// and refuse to strand annotation layers.
func (o *Operator) overwrite(ctx context.Context, req Request, existing *tree.Node, fileType string) (*Result, error) {
	lastMod, exists, err := o.store.StatDocument(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	if !exists || lastMod != existing.Record.LastModified {
		return nil, fmt.Errorf("%w: %q", ErrConcurrentModification, existing.Path())
	}

	if !req.Clear && len(existing.Record.Layers) > 0 {
		return nil, fmt.Errorf("%w: %q has %d annotated pages",
			ErrAnnotatedOverwrite, existing.Path(), len(existing.Record.Layers))
	}

	if req.Clear {
		if err := o.store.RemoveAnnotations(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	// A format change would leave the old payload beside the new one; the
	// content record names the new fileType, so the stale file is dead weight.
	if old := existing.Record.FileType; old != "" && old != fileType {
		if err := o.store.RemovePayload(ctx, existing.ID, "."+old); err != nil {
			return nil, err
		}
	}

	stamp := store.Millis(o.now())
	meta := store.Metadata{
		LastModified: stamp,
		LastOpened:   stamp,
		Parent:       existing.Record.Parent,
		Pinned:       existing.Record.Pinned,
		Type:         string(tree.TypeDocument),
		Version:      existing.Record.Version + 1,
		VisibleName:  existing.Name(),
	}
	res, err := o.push(ctx, req, existing.ID, existing.Name(), fileType, meta, false)
	if err != nil {
		return nil, err
	}

	// Refresh the snapshot so a later put in this invocation stats clean.
	existing.Record.LastModified = stamp
	existing.Record.Version = meta.Version
	existing.Record.FileType = fileType
	if req.Clear {
		existing.Record.Layers = nil
	}
	return res, nil
}

func (o *Operator) push(ctx context.Context, req Request, id, name, fileType string, meta store.Metadata, created bool) (*Result, error) {
	content := store.NewContent(fileType)

	dir, err := os.MkdirTemp("", "remtool_")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(dir)

	files, err := store.RenderDocument(dir, id, meta, content, req.SourcePath)
	if err != nil {
		return nil, err
	}

	if err := o.store.PushDocument(ctx, id, files); err != nil {
		return nil, err
	}

	o.log.Info(ctx, "document pushed", "id", id, "name", name, "created", created)
	return &Result{ID: id, Name: name, Created: created}, nil
}

// Finalize asks the device to re-index its library. Best-effort: failures are
// logged and swallowed, since xochitl also rescans on its own schedule.
func (o *Operator) Finalize(ctx context.Context) {
	if err := o.store.TriggerReindex(ctx); err != nil {
		o.log.Warn(ctx, "reindex request failed; device will rescan on next restart", "err", err)
	}
}

// docName derives the visible name from the source path: the base name
// without its extension.
func docName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// inferFileType maps the source extension to the device's fileType value.
func inferFileType(sourcePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".pdf":
		return "pdf", nil
	case ".epub":
		return "epub", nil
	default:
		return "", fmt.Errorf("%w: %q (want .pdf or .epub)", ErrUnsupportedType, filepath.Base(sourcePath))
	}
}
