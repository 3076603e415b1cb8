package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"Papers", []string{"Papers"}},
		{"/Papers/", []string{"Papers"}},
		{"Papers//drafts", []string{"Papers", "drafts"}},
		{"/Papers/drafts/essay", []string{"Papers", "drafts", "essay"}},
	}

	for _, tc := range tests {
		require.Equal(t, tc.want, SplitPath(tc.in), "input %q", tc.in)
	}
}

func testTree(t *testing.T) *Tree {
	t.Helper()
	return Build([]Record{
		folderRec("F1", "Papers", ParentRoot),
		folderRec("F2", "drafts", "F1"),
		docRec("D1", "essay", "F2"),
		docRec("D2", "readme", ParentRoot),
	}, nil)
}

func TestResolvePath(t *testing.T) {
	tr := testTree(t)

	root, err := tr.ResolvePath("")
	require.NoError(t, err)
	require.Same(t, tr.Root(), root)

	n, err := tr.ResolvePath("Papers/drafts/essay")
	require.NoError(t, err)
	require.Equal(t, "D1", n.ID)

	// document resolution is allowed for ResolvePath
	n, err = tr.ResolvePath("readme")
	require.NoError(t, err)
	require.Equal(t, "D2", n.ID)
}

func TestResolvePathNotFound(t *testing.T) {
	tr := testTree(t)

	_, err := tr.ResolvePath("Nope")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = tr.ResolvePath("Papers/nope/essay")
	require.ErrorIs(t, err, ErrNotFound)

	// walking through a document is not found, not a type error
	_, err = tr.ResolvePath("readme/deeper")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFolder(t *testing.T) {
	tr := testTree(t)

	f, err := tr.ResolveFolder("Papers/drafts")
	require.NoError(t, err)
	require.Equal(t, "F2", f.ID)

	_, err = tr.ResolveFolder("Papers/drafts/essay")
	require.ErrorIs(t, err, ErrNotAFolder)

	_, err = tr.ResolveFolder("Missing")
	require.ErrorIs(t, err, ErrNotFound)
}
