// Package tree models the reMarkable's document library as an in-memory
// forest of folders and documents.
//
// The tree is rebuilt from the device on every invocation; nothing here
// persists across runs. Construction follows the store's own rules: records
// marked deleted or parented to the trash are excluded, and a record whose
// parent never appears is dropped as an orphan rather than invented a home.
package tree

import (
	"context"

	"github.com/stacybrock/reMarkable-remtool/internal/logging"
)

// NodeType mirrors the `type` field of a metadata record.
type NodeType string

const (
	// TypeFolder is the device's name for a collection node.
	TypeFolder NodeType = "CollectionType"

	// TypeDocument is the device's name for a leaf document.
	TypeDocument NodeType = "DocumentType"
)

// Parent sentinels used by the device in metadata records.
const (
	// ParentRoot marks a record living at the top level of the library.
	ParentRoot = ""

	// ParentTrash marks a record in the trash; such records are excluded
	// from the tree.
	ParentTrash = "trash"
)

// Record is one parsed metadata record, the accessor's input to Build.
type Record struct {
	// ID is the document directory stem, a generated UUID string.
	ID string

	// VisibleName is the display name shown in the library.
	VisibleName string

	// Parent is the containing folder's ID, ParentRoot, or ParentTrash.
	Parent string

	// Type is TypeFolder or TypeDocument.
	Type NodeType

	// LastModified is the device's modification stamp: epoch milliseconds
	// as a decimal string.
	LastModified string

	// FileType is the payload format ("pdf", "epub"), empty for folders
	// and notebooks.
	FileType string

	// Layers holds the page ids of annotation-layer files found under the
	// document's directory.
	Layers []string

	// Pinned reports whether the entry is favourited on the device.
	Pinned bool

	// Version is the device's record revision counter.
	Version int

	// Deleted marks a record the device has soft-deleted.
	Deleted bool
}

// Node is one folder or document in the built tree. The root node is
// synthetic: empty ID, no Record.
type Node struct {
	ID       string
	Record   Record
	Parent   *Node
	Children []*Node
}

// IsFolder reports whether the node can contain children. The synthetic root
// counts as a folder.
func (n *Node) IsFolder() bool {
	return n.ID == "" || n.Record.Type == TypeFolder
}

// Name returns the node's display name. The root's name is empty.
func (n *Node) Name() string {
	return n.Record.VisibleName
}

// Path returns the node's slash-joined path from the root, e.g.
// "Papers/drafts/essay". The root's path is empty.
func (n *Node) Path() string {
	if n.Parent == nil {
		return ""
	}
	parent := n.Parent.Path()
	if parent == "" {
		return n.Name()
	}
	return parent + "/" + n.Name()
}

// Tree is the in-memory forest of documents and folders.
type Tree struct {
	root *Node
	byID map[string]*Node

	// genID produces candidate identifiers for AllocateID. Swappable so
	// tests can use a deterministic source.
	genID func() string
}

// New returns an empty tree containing only the synthetic root.
func New() *Tree {
	root := &Node{}
	return &Tree{
		root:  root,
		byID:  map[string]*Node{"": root},
		genID: defaultIDGenerator,
	}
}

// Root returns the synthetic root node.
func (t *Tree) Root() *Node {
	return t.root
}

// ByID returns the node with the given identifier, or nil.
func (t *Tree) ByID(id string) *Node {
	return t.byID[id]
}

// Len returns the number of real (non-root) nodes in the tree.
func (t *Tree) Len() int {
	return len(t.byID) - 1
}

// Build constructs a tree from the accessor's records.
//
// Records are attached breadth-first with a deferred queue: a record whose
// parent has not been attached yet goes back to the end of the queue. When a
// full pass over the queue attaches nothing, the remainder is unreachable
// (missing parents or a parent cycle) and is dropped with a warning. A record
// whose name collides with an already-attached sibling is also dropped, so
// lookups stay deterministic.
func Build(records []Record, log logging.Logger) *Tree {
	if log == nil {
		log = logging.Nop()
	}
	t := New()
	ctx := context.Background()

	queue := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Deleted || r.Parent == ParentTrash {
			continue
		}
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		progressed := false
		next := queue[:0]
		for _, r := range queue {
			parent, ok := t.byID[r.Parent]
			if !ok {
				next = append(next, r)
				continue
			}
			progressed = true
			if dup := FindChild(parent, r.VisibleName); dup != nil {
				log.Warn(ctx, "duplicate sibling name in store, keeping first",
					"name", r.VisibleName, "kept", dup.ID, "dropped", r.ID)
				continue
			}
			t.attach(parent, r)
		}
		queue = append([]Record(nil), next...)
		if !progressed {
			for _, r := range queue {
				log.Warn(ctx, "orphaned record, parent missing from store",
					"id", r.ID, "parent", r.Parent, "name", r.VisibleName)
			}
			break
		}
	}

	return t
}

// Attach adds a record beneath parent and indexes it, so operations later in
// the same invocation see documents created earlier. Callers check sibling
// name uniqueness first; Build does so itself during construction.
func (t *Tree) Attach(parent *Node, r Record) *Node {
	return t.attach(parent, r)
}

func (t *Tree) attach(parent *Node, r Record) *Node {
	n := &Node{ID: r.ID, Record: r, Parent: parent}
	parent.Children = append(parent.Children, n)
	t.byID[r.ID] = n
	return n
}

// FindChild performs a single-level, case-sensitive lookup among parent's
// direct children. Returns nil when no child has that name.
func FindChild(parent *Node, name string) *Node {
	for _, c := range parent.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
