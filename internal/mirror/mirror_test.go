package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/book-manager/internal/model"
)

func newTestMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "mirror"), 200)
	require.NoError(t, err)
	return m
}

func testBooks() []*model.Book {
	pages := 416
	return []*model.Book{
		{
			ID:              2,
			Title:           "Мастер и Маргарита",
			Author:          "Михаил Булгаков",
			ISBN:            "9785170906001",
			PublicationYear: 1967,
			Genre:           "fiction",
			Language:        "Русский",
			PageCount:       &pages,
			Description:     "<roman> & \"satire\"",
			CreatedAt:       time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Origin:          model.OriginDB,
		},
		{
			ID:              1,
			Title:           "Dune",
			Author:          "Frank Herbert",
			PublicationYear: 1965,
			Genre:           "science",
			CreatedAt:       time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
			Origin:          model.OriginDB,
		},
	}
}

func TestLoadWithoutSnapshot(t *testing.T) {
	m := newTestMirror(t)
	books, err := m.Load()
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := newTestMirror(t)

	path, err := m.Snapshot(testBooks())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.Dir(), SnapshotName), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "Мастер и Маргарита", "non-ASCII is written as is")
	assert.Contains(t, text, `"<roman> & \"satire\""`)
	assert.Contains(t, text, "\n  {\n    \"id\": 2,")
	assert.Contains(t, text, `"isbn": null`)
	assert.Contains(t, text, `"created_at": "2024-05-01T10:00:00Z"`)

	books, err := m.Load()
	require.NoError(t, err)
	require.Len(t, books, 2)

	want := testBooks()
	for i := range want {
		want[i].Origin = model.OriginFile
	}
	assert.Equal(t, want, books)
}

func TestSnapshotOverwrites(t *testing.T) {
	m := newTestMirror(t)

	_, err := m.Snapshot(testBooks())
	require.NoError(t, err)
	_, err = m.Snapshot(testBooks()[1:])
	require.NoError(t, err)

	books, err := m.Load()
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Title)
}

func TestLoadLooseSnapshot(t *testing.T) {
	m := newTestMirror(t)
	data := `[
  {"id": 7, "title": "A", "author": "B", "publication_year": "1999", "genre": "history",
   "page_count": null, "created_at": "2024-01-02T03:04:05.123456+00:00"},
  {"id": 8, "title": "C", "author": "D", "publication_year": 2001,
   "created_at": "2024-01-02T03:04:05.123456"},
  {"id": 9, "title": "E", "author": "F", "publication_year": 2002, "created_at": "garbage"},
  {"id": 10, "title": "G", "author": "H", "publication_year": 2003}
]`
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), SnapshotName), []byte(data), 0o600))

	books, err := m.Load()
	require.NoError(t, err)
	require.Len(t, books, 4)

	assert.Equal(t, 1999, books[0].PublicationYear)
	assert.Nil(t, books[0].PageCount)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC), books[0].CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC), books[1].CreatedAt)
	assert.Equal(t, model.DefaultGenre, books[1].Genre)
	assert.True(t, books[2].CreatedAt.IsZero())
	assert.True(t, books[3].CreatedAt.IsZero())
	for _, b := range books {
		assert.Equal(t, model.OriginFile, b.Origin)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	m := newTestMirror(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), SnapshotName), []byte("{not json"), 0o600))
	_, err := m.Load()
	assert.Error(t, err)
}

func TestExportXML(t *testing.T) {
	m := newTestMirror(t)

	path, err := m.ExportXML(testBooks())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^books_export_[0-9a-f]{8}\.xml$`), filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, "<books>\n  <book>\n    <title>Мастер и Маргарита</title>")
	assert.Contains(t, text, "<page_count>416</page_count>")
	assert.Contains(t, text, "&lt;roman&gt; &amp;")
	// Dune has no isbn and no page count
	second := text[strings.LastIndex(text, "<book>"):]
	assert.NotContains(t, second, "<isbn>")
	assert.NotContains(t, second, "<page_count>")
	assert.NotContains(t, text, "<id>")
	assert.NotContains(t, text, "<created_at>")

	other, err := m.ExportXML(testBooks())
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestSaveToFile(t *testing.T) {
	m := newTestMirror(t)
	_, err := m.Snapshot(testBooks())
	require.NoError(t, err)

	in := &model.Book{Title: "Solaris", Author: "Lem", PublicationYear: 1961, Genre: "science"}
	saved, err := m.SaveToFile(in)
	require.NoError(t, err)
	assert.Positive(t, saved.ID)
	assert.NotEqual(t, 1, saved.ID)
	assert.NotEqual(t, 2, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, model.OriginFile, saved.Origin)
	assert.Zero(t, in.ID, "input is not modified")

	books, err := m.Load()
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, saved.ID, books[2].ID)
	assert.Equal(t, "Solaris", books[2].Title)
}

func TestListFilesPreview(t *testing.T) {
	m := newTestMirror(t)
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "short.json"), []byte("[]"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "long.xml"), []byte(strings.Repeat("я", 250)), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "binary.json"), []byte{0xff, 0xfe, 0x00}, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "readme.txt"), []byte("skip"), 0o600))

	files, err := m.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 3)

	byName := map[string]*FileInfo{}
	for _, f := range files {
		byName[f.Name] = f
	}
	assert.Equal(t, "[]", byName["short.json"].Preview)
	assert.Equal(t, strings.Repeat("я", 200)+"...", byName["long.xml"].Preview)
	assert.Equal(t, int64(500), byName["long.xml"].Size)
	assert.Equal(t, unreadable, byName["binary.json"].Preview)

	count, err := m.CountFiles()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReadFile(t *testing.T) {
	m := newTestMirror(t)
	_, err := m.Snapshot(testBooks())
	require.NoError(t, err)

	data, err := m.ReadFile(SnapshotName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dune")

	for _, name := range []string{"missing.json", "../books.json", "a/b.json"} {
		_, err := m.ReadFile(name)
		assert.ErrorIs(t, err, ErrFileNotFound, name)
	}
}

type fakeLister struct {
	mu    sync.Mutex
	books []*model.Book
	err   error
}

func (f *fakeLister) ListBooks(_ context.Context, _ *model.FindBook) ([]*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books, f.err
}

func TestSyncerSync(t *testing.T) {
	m := newTestMirror(t)
	lister := &fakeLister{books: testBooks()}
	s := NewSyncer(lister, m)

	require.NoError(t, s.Sync(context.Background()))
	books, err := m.Load()
	require.NoError(t, err)
	assert.Len(t, books, 2)

	lister.err = errors.New("db down")
	assert.Error(t, s.Sync(context.Background()))
	books, err = m.Load()
	require.NoError(t, err)
	assert.Len(t, books, 2, "failed sync keeps the previous snapshot")
}

func TestSyncerConcurrent(t *testing.T) {
	m := newTestMirror(t)
	s := NewSyncer(&fakeLister{books: testBooks()}, m)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Sync(context.Background()))
		}()
	}
	wg.Wait()

	raw, err := os.ReadFile(filepath.Join(m.Dir(), SnapshotName))
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.Len(t, records, 2)
}
