package transfer

import (
	"fmt"
	"time"

	"github.com/stacybrock/reMarkable-remtool/internal/store"
	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

// Info is the full record show reports for a document.
type Info struct {
	ID           string
	Path         string
	Name         string
	FileType     string
	LastModified time.Time
	Layers       int
	Pinned       bool
	Version      int
	ParentID     string
}

// Show resolves path and reports the document's metadata. A path that
// resolves to nothing yields tree.ErrNotFound; one that resolves to a folder
// yields ErrNotADocument.
func (o *Operator) Show(path string) (*Info, error) {
	n, err := o.tree.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if n.IsFolder() {
		return nil, fmt.Errorf("%w: %q", ErrNotADocument, path)
	}

	return &Info{
		ID:           n.ID,
		Path:         n.Path(),
		Name:         n.Name(),
		FileType:     n.Record.FileType,
		LastModified: store.ParseMillis(n.Record.LastModified),
		Layers:       len(n.Record.Layers),
		Pinned:       n.Record.Pinned,
		Version:      n.Record.Version,
		ParentID:     n.Record.Parent,
	}, nil
}

// List resolves path to a folder and returns its listing. Exists here so the
// CLI has one entry point per command; the ordering rules live in the tree
// package.
func (o *Operator) List(path string) ([]tree.Entry, error) {
	folder, err := o.tree.ResolveFolder(path)
	if err != nil {
		return nil, err
	}
	return tree.List(folder), nil
}
