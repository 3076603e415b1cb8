// Package store is the accessor for the reMarkable's on-device document
// store: the xochitl directory of metadata, content, payload, and
// annotation-layer files keyed by document id.
//
// All reads and writes go through a remote.Runner; the package never assumes
// a write is atomic. The store is small enough to enumerate wholesale, so the
// API is load-entire-tree / push-entire-document rather than incremental
// queries.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/stacybrock/reMarkable-remtool/internal/logging"
	"github.com/stacybrock/reMarkable-remtool/internal/remote"
	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

// Store reads and writes the device's document store.
type Store struct {
	runner    remote.Runner
	storePath string
	log       logging.Logger
}

// New creates a store accessor rooted at storePath (relative to the remote
// user's home). A nil logger discards diagnostics.
func New(runner remote.Runner, storePath string, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{runner: runner, storePath: storePath, log: log}
}

// LoadTree enumerates every record in the store and builds the document
// tree. Fails with ErrAccess when the device is unreachable or either
// enumeration command exits non-zero.
func (s *Store) LoadTree(ctx context.Context) (*tree.Tree, error) {
	metaJSON, err := s.runner.RunScript(ctx, fmt.Sprintf(metadataScript, s.storePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}

	listing, err := s.runner.RunScript(ctx, fmt.Sprintf(listingScript, s.storePath))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}

	records, err := parseScan(metaJSON, listing)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccess, err)
	}

	s.log.Debug(ctx, "store enumerated", "records", len(records))
	return tree.Build(records, s.log), nil
}

// PushDocument uploads the given files for a document id, strictly in the
// order supplied by the caller, after creating the document's page and
// thumbnail directories. Any failure is ErrWrite; files already uploaded stay
// on the device (no rollback), so callers must treat the store as
// partially written until the whole push succeeds.
func (s *Store) PushDocument(ctx context.Context, id string, files []Sidecar) error {
	mkdir := fmt.Sprintf("mkdir -p %s %s",
		shellQuote(path.Join(s.storePath, id)),
		shellQuote(path.Join(s.storePath, id+".thumbnails")))
	if _, err := s.runner.Run(ctx, mkdir); err != nil {
		return fmt.Errorf("%w: creating directories for %s: %v", ErrWrite, id, err)
	}

	for _, f := range files {
		dst := path.Join(s.storePath, f.Name)
		s.log.Debug(ctx, "uploading sidecar", "file", f.Name)
		if err := s.runner.Copy(ctx, f.LocalPath, dst); err != nil {
			return fmt.Errorf("%w: pushing %s: %v", ErrWrite, f.Name, err)
		}
	}
	return nil
}

// RemoveAnnotations deletes every annotation-layer file and cached thumbnail
// for the document. Used by put --clear before the replacement content goes
// up.
func (s *Store) RemoveAnnotations(ctx context.Context, id string) error {
	cmd := fmt.Sprintf("rm -f %s/*.rm %s/*",
		shellQuote(path.Join(s.storePath, id)),
		shellQuote(path.Join(s.storePath, id+".thumbnails")))
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: clearing annotations for %s: %v", ErrWrite, id, err)
	}
	return nil
}

// RemovePayload deletes the document's payload file with the given extension
// (".pdf" or ".epub"). Used when a forced overwrite changes the payload
// format, so the superseded file does not linger beside the new one.
func (s *Store) RemovePayload(ctx context.Context, id, ext string) error {
	cmd := "rm -f " + shellQuote(path.Join(s.storePath, id+ext))
	if _, err := s.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("%w: removing stale payload for %s: %v", ErrWrite, id, err)
	}
	return nil
}

// StatDocument reads the current lastModified stamp of the document's remote
// metadata record. exists is false when the record is absent (a command
// failure reading a missing file is not an error; an unreachable device is).
func (s *Store) StatDocument(ctx context.Context, id string) (lastModified string, exists bool, err error) {
	out, err := s.runner.Run(ctx, "cat "+shellQuote(path.Join(s.storePath, id+".metadata")))
	if err != nil {
		if errors.Is(err, remote.ErrCommandFailed) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrAccess, err)
	}

	var m Metadata
	if err := json.Unmarshal(out, &m); err != nil {
		return "", false, fmt.Errorf("%w: parsing %s.metadata: %v", ErrAccess, id, err)
	}
	return m.LastModified, true, nil
}

// TriggerReindex restarts xochitl so the library picks up new files.
// Best-effort: callers log the error and move on.
func (s *Store) TriggerReindex(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, "systemctl restart xochitl"); err != nil {
		return fmt.Errorf("restarting xochitl: %w", err)
	}
	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
