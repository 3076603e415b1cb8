package tree

import "sort"

// Entry is one row of a directory listing.
type Entry struct {
	Name string
	Type NodeType
	ID   string
}

// List produces the listing for folder: folders before documents, each group
// sorted by name (case-sensitive byte order).
func List(folder *Node) []Entry {
	entries := make([]Entry, 0, len(folder.Children))
	for _, c := range folder.Children {
		entries = append(entries, Entry{Name: c.Name(), Type: c.Record.Type, ID: c.ID})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		fi, fj := entries[i].Type == TypeFolder, entries[j].Type == TypeFolder
		if fi != fj {
			return fi
		}
		return entries[i].Name < entries[j].Name
	})

	return entries
}
