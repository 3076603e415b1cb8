package transfer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stacybrock/reMarkable-remtool/internal/tree"
)

func TestShowDocument(t *testing.T) {
	acc := newMockAccessor()
	rec := docRec(docID, "essay", folderID, "p1", "p2")
	rec.Pinned = true
	rec.Version = 7
	op := newOperator(t, acc, folderRec(folderID, "Papers", tree.ParentRoot), rec)

	info, err := op.Show("Papers/essay")
	require.NoError(t, err)
	require.Equal(t, docID, info.ID)
	require.Equal(t, "Papers/essay", info.Path)
	require.Equal(t, "pdf", info.FileType)
	require.Equal(t, 2, info.Layers)
	require.True(t, info.Pinned)
	require.Equal(t, 7, info.Version)
	require.Equal(t, folderID, info.ParentID)
	require.Equal(t, time.UnixMilli(1700000000000), info.LastModified)
}

func TestShowFolderRejected(t *testing.T) {
	acc := newMockAccessor()
	op := newOperator(t, acc, folderRec(folderID, "Papers", tree.ParentRoot))

	_, err := op.Show("Papers")
	require.ErrorIs(t, err, ErrNotADocument)
}

func TestShowMissingPath(t *testing.T) {
	acc := newMockAccessor()
	op := newOperator(t, acc)

	_, err := op.Show("nope/nothing")
	require.ErrorIs(t, err, tree.ErrNotFound)
}

func TestListFolder(t *testing.T) {
	acc := newMockAccessor()
	op := newOperator(t, acc,
		folderRec(folderID, "Papers", tree.ParentRoot),
		docRec(docID, "zebra", folderID),
		docRec(docID2, "alpha", folderID),
		folderRec(folderID2, "drafts", folderID),
	)

	entries, err := op.List("Papers")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "drafts", entries[0].Name)
	require.Equal(t, tree.TypeFolder, entries[0].Type)
	require.Equal(t, "alpha", entries[1].Name)
	require.Equal(t, "zebra", entries[2].Name)
}

func TestListDocumentRejected(t *testing.T) {
	acc := newMockAccessor()
	op := newOperator(t, acc, docRec(docID, "essay", tree.ParentRoot))

	_, err := op.List("essay")
	require.ErrorIs(t, err, tree.ErrNotAFolder)
}
