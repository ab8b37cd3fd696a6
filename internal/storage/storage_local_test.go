package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "mirror"))
	require.NoError(t, err)
	return s
}

func TestNewLocalStorageRequiresPath(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}

func TestSaveReplacesContent(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Save("books.json", []byte("old")))
	require.NoError(t, s.Save("books.json", []byte("new")))

	data, err := s.Load("books.json")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	entries, err := os.ReadDir(s.Path)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestCreateNeverOverwrites(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Create("a.xml", []byte("first")))
	err := s.Create("a.xml", []byte("second"))
	assert.ErrorIs(t, err, fs.ErrExist)

	data, err := s.Load("a.xml")
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestLoadMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Load("missing.json")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestResolveRejectsTraversal(t *testing.T) {
	s := newTestStorage(t)
	for _, name := range []string{"", ".", "..", "../etc/passwd", "a/b.json", `a\b.json`, "..books.json"} {
		_, err := s.Resolve(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	path, err := s.Resolve("books.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Path, "books.json"), path)
}

func TestListFiltersExtensions(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Save("b.xml", []byte("<books/>")))
	require.NoError(t, s.Save("a.json", []byte("[]")))
	require.NoError(t, s.Save("notes.txt", []byte("x")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path, ".hidden.json"), []byte("[]"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(s.Path, "dir.json"), 0o750))

	list, err := s.List(".json", ".xml")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.json", list[0].Name)
	assert.Equal(t, int64(2), list[0].Size)
	assert.Equal(t, "b.xml", list[1].Name)
}
