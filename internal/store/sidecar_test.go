package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetadataValidate(t *testing.T) {
	valid := NewDocumentMetadata("essay", "0d5e0d21-5f3c-4f39-9ab5-6a63e26ba941", time.Unix(1700000000, 0))
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Metadata)
	}{
		{"empty visibleName", func(m *Metadata) { m.VisibleName = "" }},
		{"bad type", func(m *Metadata) { m.Type = "NotebookType" }},
		{"empty lastModified", func(m *Metadata) { m.LastModified = "" }},
		{"non-numeric lastModified", func(m *Metadata) { m.LastModified = "yesterday" }},
		{"garbage parent", func(m *Metadata) { m.Parent = "not-a-uuid" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := valid
			tc.mutate(&m)
			require.ErrorIs(t, m.Validate(), ErrInvalidRecord)
		})
	}
}

func TestMetadataParentSentinels(t *testing.T) {
	m := NewDocumentMetadata("essay", "", time.Now())
	require.NoError(t, m.Validate(), "root parent")

	m.Parent = "trash"
	require.NoError(t, m.Validate(), "trash parent")
}

func TestMetadataJSONKeySet(t *testing.T) {
	// The rendered record must contain exactly the keys xochitl writes;
	// notably `metadatamodified` is all lowercase while the rest are
	// camelCase.
	m := NewDocumentMetadata("essay", "", time.Unix(1700000000, 0))
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))

	want := []string{
		"deleted", "lastModified", "lastOpened", "lastOpenedPage",
		"metadatamodified", "modified", "parent", "pinned", "synced",
		"type", "version", "visibleName",
	}
	require.Len(t, keys, len(want))
	for _, k := range want {
		require.Contains(t, keys, k)
	}
}

func TestMetadataToleratesSparseDeviceRecords(t *testing.T) {
	// Older firmware omits lastOpened/lastOpenedPage entirely.
	raw := `{"deleted": false, "lastModified": "1700000000000", "metadatamodified": false,
		"modified": false, "parent": "", "pinned": false, "synced": true,
		"type": "DocumentType", "version": 2, "visibleName": "old doc"}`

	var m Metadata
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	require.Equal(t, "old doc", m.VisibleName)
	require.Equal(t, "", m.LastOpened)
	require.Equal(t, 0, m.LastOpenedPage)
}

func TestMillisRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 123_000_000)
	require.Equal(t, "1700000000123", Millis(now))
	require.True(t, ParseMillis("1700000000123").Equal(now))
	require.True(t, ParseMillis("garbage").IsZero())
	require.True(t, ParseMillis("").IsZero())
}

func TestRenderDocumentOrderAndContents(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "essay.pdf")
	require.NoError(t, os.WriteFile(payload, []byte("%PDF-1.4"), 0o644))

	meta := NewDocumentMetadata("essay", "", time.Unix(1700000000, 0))
	files, err := RenderDocument(t.TempDir(), "ID-1", meta, NewContent("pdf"), payload)
	require.NoError(t, err)

	// content first, payload second, metadata last
	require.Len(t, files, 3)
	require.Equal(t, "ID-1.content", files[0].Name)
	require.Equal(t, "ID-1.pdf", files[1].Name)
	require.Equal(t, "ID-1.metadata", files[2].Name)
	require.Equal(t, payload, files[1].LocalPath)

	var c Content
	data, err := os.ReadFile(files[0].LocalPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &c))
	require.Equal(t, "pdf", c.FileType)
	require.NotNil(t, c.Pages)
	require.Empty(t, c.Pages)
}

func TestRenderDocumentRejectsInvalidMetadata(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "essay.pdf")
	require.NoError(t, os.WriteFile(payload, []byte("%PDF-1.4"), 0o644))

	meta := NewDocumentMetadata("", "", time.Now())
	_, err := RenderDocument(dir, "ID-1", meta, NewContent("pdf"), payload)
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestNewContentDefaults(t *testing.T) {
	c := NewContent("epub")
	require.NoError(t, c.Validate())
	require.Equal(t, "epub", c.FileType)
	require.Equal(t, -1, c.LineHeight)
	require.Equal(t, "portrait", c.Orientation)

	bad := NewContent("docx")
	require.ErrorIs(t, bad.Validate(), ErrInvalidRecord)
}
