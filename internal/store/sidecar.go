package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

// Metadata is the JSON sidecar xochitl keeps per document or folder
// (`<id>.metadata`). Field names and the lowercase `metadatamodified` are the
// device's, not ours; any deviation makes the indexer drop the entry.
type Metadata struct {
	Deleted          bool   `json:"deleted"`
	LastModified     string `json:"lastModified"`
	LastOpened       string `json:"lastOpened"`
	LastOpenedPage   int    `json:"lastOpenedPage"`
	MetadataModified bool   `json:"metadatamodified"`
	Modified         bool   `json:"modified"`
	Parent           string `json:"parent"`
	Pinned           bool   `json:"pinned"`
	Synced           bool   `json:"synced"`
	Type             string `json:"type"`
	Version          int    `json:"version"`
	VisibleName      string `json:"visibleName"`
}

var millisPattern = regexp.MustCompile(`^\d+$`)

// Validate checks the record against the layout rules the device's indexer
// enforces. Called before any render so an invalid record never reaches the
// device.
func (m Metadata) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.VisibleName, validation.Required),
		validation.Field(&m.Type, validation.Required,
			validation.In(string(tree.TypeDocument), string(tree.TypeFolder))),
		validation.Field(&m.LastModified, validation.Required,
			validation.Match(millisPattern)),
		validation.Field(&m.Parent, validation.By(validParent)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

func validParent(value interface{}) error {
	p, _ := value.(string)
	if p == tree.ParentRoot || p == tree.ParentTrash {
		return nil
	}
	if _, err := uuid.Parse(p); err != nil {
		return fmt.Errorf("must be a folder id, empty, or trash")
	}
	return nil
}

// NewDocumentMetadata builds the metadata record for a freshly uploaded
// document.
func NewDocumentMetadata(name, parentID string, now time.Time) Metadata {
	stamp := Millis(now)
	return Metadata{
		LastModified: stamp,
		LastOpened:   stamp,
		Parent:       parentID,
		Type:         string(tree.TypeDocument),
		VisibleName:  name,
	}
}

// Millis formats a timestamp the way the device stores it: epoch milliseconds
// as a decimal string.
func Millis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ParseMillis decodes a device timestamp. Returns the zero time for
// unparseable input; some very old firmware wrote empty stamps.
func ParseMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Content is the JSON sidecar describing a document's page structure
// (`<id>.content`). A fresh upload writes the minimal record below; xochitl
// fills in the page list when the document is first opened.
type Content struct {
	FileType        string   `json:"fileType"`
	CoverPageNumber int      `json:"coverPageNumber"`
	LineHeight      int      `json:"lineHeight"`
	Margins         int      `json:"margins"`
	Orientation     string   `json:"orientation"`
	PageCount       int      `json:"pageCount"`
	Pages           []string `json:"pages"`
	TextScale       int      `json:"textScale"`
}

// NewContent builds the content record for a fresh upload of the given file
// type ("pdf" or "epub").
func NewContent(fileType string) Content {
	return Content{
		FileType:    fileType,
		LineHeight:  -1,
		Margins:     100,
		Orientation: "portrait",
		Pages:       []string{},
		TextScale:   1,
	}
}

// Validate checks the content record before rendering.
func (c Content) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.FileType, validation.In("pdf", "epub", "")),
		validation.Field(&c.PageCount, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// renderJSON writes v to path as 4-space-indented JSON, matching the
// formatting xochitl itself produces.
func renderJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Sidecar is one file queued for upload: its final name in the store and the
// local path holding the rendered bytes.
type Sidecar struct {
	// Name is the filename within the remote store, e.g. "<id>.metadata".
	Name string

	// LocalPath is the rendered file awaiting upload.
	LocalPath string
}

// RenderDocument renders the sidecar set for one document into dir and
// returns the files in push order: content first, then the payload, then
// metadata. Metadata goes last so the indexer never sees a record referencing
// content that is not on disk yet.
func RenderDocument(dir, id string, meta Metadata, content Content, payloadPath string) ([]Sidecar, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	contentFile := filepath.Join(dir, id+".content")
	if err := renderJSON(contentFile, content); err != nil {
		return nil, fmt.Errorf("rendering content record: %w", err)
	}

	metaFile := filepath.Join(dir, id+".metadata")
	if err := renderJSON(metaFile, meta); err != nil {
		return nil, fmt.Errorf("rendering metadata record: %w", err)
	}

	ext := filepath.Ext(payloadPath)
	return []Sidecar{
		{Name: id + ".content", LocalPath: contentFile},
		{Name: id + ext, LocalPath: payloadPath},
		{Name: id + ".metadata", LocalPath: metaFile},
	}, nil
}
