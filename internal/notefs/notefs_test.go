package notefs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOS_ListReadWriteRemove(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	fsys := NewOS()

	ok, err := fsys.IsDir(dir)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = fsys.IsDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = fsys.IsDir(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	require.False(t, ok)

	entries, err := fsys.List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "a.md", entries[0].Name)
	require.True(t, entries[0].Regular)
	require.Equal(t, "sub.md", entries[2].Name)
	require.False(t, entries[2].Regular)

	target := filepath.Join(dir, "c.md")
	require.NoError(t, fsys.WriteFile(target, []byte("first")))
	require.NoError(t, fsys.WriteFile(target, []byte("second")))
	data, err := fsys.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	require.NoError(t, fsys.Remove(target))
	_, err = fsys.ReadFile(target)
	require.True(t, errors.Is(err, ErrNotExist))
}

func TestOS_ListResolvesSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.md")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	if err := os.Symlink(target, filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	entries, err := NewOS().List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].Regular)
}

func TestMem_Basics(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/vault/posts")
	m.Put("/vault/posts/b.md", []byte("b"))
	m.Put("/vault/posts/a.md", []byte("a"))
	m.MkdirAll("/vault/posts/nested")

	ok, _ := m.IsDir("/vault")
	require.True(t, ok)
	ok, _ = m.IsDir("/nope")
	require.False(t, ok)

	entries, err := m.List("/vault/posts")
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Name: "a.md", Path: "/vault/posts/a.md", Regular: true},
		{Name: "b.md", Path: "/vault/posts/b.md", Regular: true},
		{Name: "nested", Path: "/vault/posts/nested"},
	}, entries)

	_, err = m.List("/missing")
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.Error(t, m.WriteFile("/no/parent.md", nil))
	require.NoError(t, m.WriteFile("/vault/c.md", []byte("c")))
	require.Equal(t, "c", string(m.Content("/vault/c.md")))

	require.NoError(t, m.Remove("/vault/c.md"))
	require.False(t, m.Exists("/vault/c.md"))
	require.ErrorIs(t, m.Remove("/vault/c.md"), fs.ErrNotExist)

	calls := m.Calls()
	require.Equal(t, 2, calls.List)
	require.Equal(t, 2, calls.Write)
	require.Equal(t, 2, calls.Remove)
}

func TestMem_FailOn(t *testing.T) {
	m := NewMem()
	m.MkdirAll("/d")
	m.Put("/d/a.md", []byte("a"))
	boom := errors.New("boom")

	m.FailOn("read", "/d/a.md", boom)
	m.FailOn("write", "/d/b.md", boom)
	m.FailOn("remove", "/d/a.md", boom)

	_, err := m.ReadFile("/d/a.md")
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, m.WriteFile("/d/b.md", nil), boom)
	require.ErrorIs(t, m.Remove("/d/a.md"), boom)
	require.True(t, m.Exists("/d/a.md"))
}
