package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

// metadataScript emits every metadata record in the store as one JSON array
// of {"filename": ..., "metadata": {...}} objects, so the whole enumeration
// costs a single round trip. Plain POSIX sh; the device shell is busybox ash.
const metadataScript = `cd %q || exit 1
first=1
echo '['
for file in *.metadata; do
    [ -e "$file" ] || continue
    if [ $first -eq 0 ]; then echo ','; fi
    first=0
    echo '{"filename": "'$file'", "metadata": '
    cat "$file"
    echo '}'
done
echo ']'
`

// listingScript emits one line per payload and annotation-layer file:
// "<id>.pdf", "<id>.epub", or "<id>/<page>.rm".
const listingScript = `cd %q || exit 1
for f in *.pdf *.epub */*.rm; do
    [ -e "$f" ] && echo "$f"
done
exit 0
`

// scanEntry is one element of the metadata script's output.
type scanEntry struct {
	Filename string   `json:"filename"`
	Metadata Metadata `json:"metadata"`
}

// parseScan decodes the two scripts' output into tree records.
func parseScan(metaJSON, listing []byte) ([]tree.Record, error) {
	var entries []scanEntry
	if err := json.Unmarshal(metaJSON, &entries); err != nil {
		return nil, fmt.Errorf("parsing store metadata: %w", err)
	}

	fileTypes, layers := parseListing(listing)

	records := make([]tree.Record, 0, len(entries))
	for _, e := range entries {
		id := strings.TrimSuffix(e.Filename, ".metadata")
		m := e.Metadata
		records = append(records, tree.Record{
			ID:           id,
			VisibleName:  m.VisibleName,
			Parent:       m.Parent,
			Type:         tree.NodeType(m.Type),
			LastModified: m.LastModified,
			FileType:     fileTypes[id],
			Layers:       layers[id],
			Pinned:       m.Pinned,
			Version:      m.Version,
			Deleted:      m.Deleted,
		})
	}
	return records, nil
}

// parseListing splits the listing script's lines into a payload-extension map
// and an annotation-layer map, both keyed by document id.
func parseListing(listing []byte) (fileTypes map[string]string, layers map[string][]string) {
	fileTypes = make(map[string]string)
	layers = make(map[string][]string)

	for _, line := range strings.Split(string(listing), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasSuffix(line, ".rm"):
			// "<id>/<page>.rm"
			id, page, ok := strings.Cut(line, "/")
			if !ok {
				continue
			}
			layers[id] = append(layers[id], strings.TrimSuffix(page, ".rm"))
		case strings.HasSuffix(line, ".pdf"):
			fileTypes[strings.TrimSuffix(line, ".pdf")] = "pdf"
		case strings.HasSuffix(line, ".epub"):
			fileTypes[strings.TrimSuffix(line, ".epub")] = "epub"
		}
	}
	return fileTypes, layers
}
