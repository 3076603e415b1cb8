package tree

import (
	"fmt"
	"strings"
)

// SplitPath normalizes a user-supplied library path into its segments.
// Leading, trailing, and doubled slashes are ignored, so "/Papers/", "Papers"
// and "Papers//" all name the same folder. An empty result means the root.
func SplitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// ResolvePath walks the named segments from the root and returns the node at
// the end, folder or document. Matching is case-sensitive and exact.
// Returns ErrNotFound (wrapped with the offending path) when any segment does
// not resolve, including when an intermediate segment names a document.
func (t *Tree) ResolvePath(path string) (*Node, error) {
	n := t.root
	for _, seg := range SplitPath(path) {
		if !n.IsFolder() {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		c := FindChild(n, seg)
		if c == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
		}
		n = c
	}
	return n, nil
}

// ResolveFolder is ResolvePath restricted to folders. A path that resolves to
// a document yields ErrNotAFolder; an unresolvable path yields ErrNotFound.
func (t *Tree) ResolveFolder(path string) (*Node, error) {
	n, err := t.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	if !n.IsFolder() {
		return nil, fmt.Errorf("%w: %q", ErrNotAFolder, path)
	}
	return n, nil
}
