package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stacybrock/reMarkable-remtool/internal/remote"
)

// mockRunner is a scriptable remote.Runner that records every call.
type mockRunner struct {
	// canned output per command substring; first match wins
	outputs map[string][]byte

	// errs maps a command substring to a forced error
	errs map[string]error

	runs   []string
	copies [][2]string
}

func newMockRunner() *mockRunner {
	return &mockRunner{outputs: map[string][]byte{}, errs: map[string]error{}}
}

func (m *mockRunner) Name() remote.Type { return "mock" }

func (m *mockRunner) Run(ctx context.Context, command string) ([]byte, error) {
	m.runs = append(m.runs, command)
	return m.respond(command)
}

func (m *mockRunner) RunScript(ctx context.Context, script string) ([]byte, error) {
	m.runs = append(m.runs, script)
	return m.respond(script)
}

func (m *mockRunner) Copy(ctx context.Context, localPath, remotePath string) error {
	m.copies = append(m.copies, [2]string{localPath, remotePath})
	for sub, err := range m.errs {
		if strings.Contains(remotePath, sub) {
			return err
		}
	}
	return nil
}

func (m *mockRunner) Close() error { return nil }

func (m *mockRunner) respond(command string) ([]byte, error) {
	for sub, err := range m.errs {
		if strings.Contains(command, sub) {
			return nil, err
		}
	}
	for sub, out := range m.outputs {
		if strings.Contains(command, sub) {
			return out, nil
		}
	}
	return nil, nil
}

func TestLoadTree(t *testing.T) {
	r := newMockRunner()
	r.outputs["*.metadata"] = []byte(scanFixture)
	r.outputs["*.rm"] = []byte(listingFixture)

	s := New(r, "xochitl", nil)
	tr, err := s.LoadTree(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, tr.Len())
	n, err := tr.ResolvePath("Papers/essay")
	require.NoError(t, err)
	require.Equal(t, "D1", n.ID)
	require.Len(t, n.Record.Layers, 2)
}

func TestLoadTreeAccessError(t *testing.T) {
	r := newMockRunner()
	r.errs["*.metadata"] = fmt.Errorf("%w: no route to host", remote.ErrUnreachable)

	s := New(r, "xochitl", nil)
	_, err := s.LoadTree(context.Background())
	require.ErrorIs(t, err, ErrAccess)
}

func TestLoadTreeBadPayload(t *testing.T) {
	r := newMockRunner()
	r.outputs["*.metadata"] = []byte(";;;")

	s := New(r, "xochitl", nil)
	_, err := s.LoadTree(context.Background())
	require.ErrorIs(t, err, ErrAccess)
}

func TestPushDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	mk := func(name string) Sidecar {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		return Sidecar{Name: name, LocalPath: p}
	}

	r := newMockRunner()
	s := New(r, "xochitl", nil)

	files := []Sidecar{mk("ID.content"), mk("ID.pdf"), mk("ID.metadata")}
	require.NoError(t, s.PushDocument(context.Background(), "ID", files))

	// directories first
	require.Len(t, r.runs, 1)
	require.Contains(t, r.runs[0], "mkdir -p")
	require.Contains(t, r.runs[0], "xochitl/ID.thumbnails")

	// then uploads, in the exact order given
	require.Len(t, r.copies, 3)
	require.Equal(t, "xochitl/ID.content", r.copies[0][1])
	require.Equal(t, "xochitl/ID.pdf", r.copies[1][1])
	require.Equal(t, "xochitl/ID.metadata", r.copies[2][1])
}

func TestPushDocumentWriteError(t *testing.T) {
	r := newMockRunner()
	r.errs["ID.pdf"] = fmt.Errorf("%w: broken pipe", remote.ErrCopyFailed)

	s := New(r, "xochitl", nil)
	files := []Sidecar{
		{Name: "ID.content", LocalPath: "/dev/null"},
		{Name: "ID.pdf", LocalPath: "/dev/null"},
		{Name: "ID.metadata", LocalPath: "/dev/null"},
	}

	err := s.PushDocument(context.Background(), "ID", files)
	require.ErrorIs(t, err, ErrWrite)
	// the failed push stopped before the metadata upload
	require.Len(t, r.copies, 2)
}

func TestStatDocument(t *testing.T) {
	r := newMockRunner()
	r.outputs["D1.metadata"] = []byte(`{"lastModified": "1700000000000", "visibleName": "essay"}`)

	s := New(r, "xochitl", nil)

	lastMod, exists, err := s.StatDocument(context.Background(), "D1")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "1700000000000", lastMod)
}

func TestStatDocumentMissing(t *testing.T) {
	r := newMockRunner()
	r.errs["D9.metadata"] = fmt.Errorf("%w: cat: no such file (exit 1)", remote.ErrCommandFailed)

	s := New(r, "xochitl", nil)
	_, exists, err := s.StatDocument(context.Background(), "D9")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStatDocumentUnreachable(t *testing.T) {
	r := newMockRunner()
	r.errs["D1.metadata"] = fmt.Errorf("%w: timeout", remote.ErrUnreachable)

	s := New(r, "xochitl", nil)
	_, _, err := s.StatDocument(context.Background(), "D1")
	require.ErrorIs(t, err, ErrAccess)
}

func TestRemoveAnnotations(t *testing.T) {
	r := newMockRunner()
	s := New(r, "xochitl", nil)

	require.NoError(t, s.RemoveAnnotations(context.Background(), "D1"))
	require.Len(t, r.runs, 1)
	require.Contains(t, r.runs[0], "rm -f")
	require.Contains(t, r.runs[0], "xochitl/D1")
}

func TestRemovePayload(t *testing.T) {
	r := newMockRunner()
	s := New(r, "xochitl", nil)

	require.NoError(t, s.RemovePayload(context.Background(), "D1", ".pdf"))
	require.Len(t, r.runs, 1)
	require.Contains(t, r.runs[0], "rm -f")
	require.Contains(t, r.runs[0], "xochitl/D1.pdf")

	r.errs["D1.epub"] = fmt.Errorf("%w: boom", remote.ErrCommandFailed)
	err := s.RemovePayload(context.Background(), "D1", ".epub")
	require.ErrorIs(t, err, ErrWrite)
}

func TestTriggerReindex(t *testing.T) {
	r := newMockRunner()
	s := New(r, "xochitl", nil)

	require.NoError(t, s.TriggerReindex(context.Background()))
	require.Contains(t, r.runs[0], "systemctl restart xochitl")
}
