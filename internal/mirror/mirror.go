package mirror // import "github.com/Xunop/book-manager/internal/mirror"

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io/fs"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/storage"
	"github.com/Xunop/book-manager/internal/util"
)

const (
	SnapshotName = "books.json"

	exportPrefix   = "books_export_"
	exportAttempts = 5
	unreadable     = "Не удалось прочитать файл"
)

var ErrFileNotFound = errors.New("file not found")

var mirrorExts = []string{".json", ".xml"}

type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	Preview string
}

// Mirror keeps the JSON snapshot and the XML exports of the book table.
type Mirror struct {
	storage       *storage.LocalStorage
	previewLength int

	// serializes every write to the directory
	mu sync.Mutex
}

func New(dir string, previewLength int) (*Mirror, error) {
	s, err := storage.NewLocalStorage(dir)
	if err != nil {
		return nil, err
	}
	if previewLength <= 0 {
		previewLength = 200
	}
	return &Mirror{storage: s, previewLength: previewLength}, nil
}

func (m *Mirror) Dir() string {
	return m.storage.Path
}

func encodeSnapshot(books []*model.Book) ([]byte, error) {
	records := make([]*snapshotRecord, 0, len(books))
	for _, b := range books {
		records = append(records, newSnapshotRecord(b))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, errors.Wrap(err, "failed to encode snapshot")
	}
	return buf.Bytes(), nil
}

// Snapshot replaces books.json with books and returns its path.
func (m *Mirror) Snapshot(books []*model.Book) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(books)
}

func (m *Mirror) snapshot(books []*model.Book) (string, error) {
	data, err := encodeSnapshot(books)
	if err != nil {
		return "", err
	}
	if err := m.storage.Save(SnapshotName, data); err != nil {
		return "", errors.Wrap(err, "failed to write snapshot")
	}
	path, _ := m.storage.Resolve(SnapshotName)
	log.Debug("Snapshot written", zap.String("path", path), zap.Int("books", len(books)))
	return path, nil
}

// Load reads books.json. A missing snapshot yields an empty list.
func (m *Mirror) Load() ([]*model.Book, error) {
	data, err := m.storage.Load(SnapshotName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.Book{}, nil
		}
		return nil, errors.Wrap(err, "failed to read snapshot")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []*model.Book{}, nil
	}

	var records []*snapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	books := make([]*model.Book, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		books = append(books, r.book())
	}
	return books, nil
}

// EncodeXML renders books as an indented <books> document.
func EncodeXML(books []*model.Book) ([]byte, error) {
	doc := xmlBooks{Books: make([]xmlBook, 0, len(books))}
	for _, b := range books {
		doc.Books = append(doc.Books, newXMLBook(b))
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode xml")
	}
	return append(append([]byte(xml.Header), out...), '\n'), nil
}

func exportName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return exportPrefix + id[:8] + ".xml"
}

// ExportXML writes books to a new books_export_<hex>.xml file and returns its
// path. Existing files are never overwritten.
func (m *Mirror) ExportXML(books []*model.Book) (string, error) {
	data, err := EncodeXML(books)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < exportAttempts; i++ {
		name := exportName()
		err := m.storage.Create(name, data)
		if errors.Is(err, fs.ErrExist) {
			log.Warn("Export file name taken, retrying", zap.String("name", name))
			continue
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to write xml export")
		}
		path, _ := m.storage.Resolve(name)
		log.Info("XML export written", zap.String("path", path), zap.Int("books", len(books)))
		return path, nil
	}
	return "", errors.Errorf("failed to find a free export file name after %d attempts", exportAttempts)
}

func randomID(taken map[int]bool) int {
	for {
		id := int(uuid.New().ID() & 0x7fffffff)
		if id > 0 && !taken[id] {
			return id
		}
	}
}

// SaveToFile appends book to the snapshot without touching the database. The
// book gets a random id unused in the snapshot. Records saved this way only
// live until the next full snapshot.
func (m *Mirror) SaveToFile(book *model.Book) (*model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	books, err := m.Load()
	if err != nil {
		return nil, err
	}
	taken := make(map[int]bool, len(books))
	for _, b := range books {
		taken[b.ID] = true
	}

	saved := *book
	saved.ID = randomID(taken)
	saved.CreatedAt = time.Now().UTC().Truncate(time.Second)
	saved.Origin = model.OriginFile

	if _, err := m.snapshot(append(books, &saved)); err != nil {
		return nil, err
	}
	log.Info("Book saved to file", zap.Int("bookID", saved.ID), zap.String("title", saved.Title))
	return &saved, nil
}

// ListFiles returns the .json and .xml files of the mirror with a short preview.
func (m *Mirror) ListFiles() ([]*FileInfo, error) {
	files, err := m.storage.List(mirrorExts...)
	if err != nil {
		return nil, err
	}
	list := make([]*FileInfo, 0, len(files))
	for _, f := range files {
		list = append(list, &FileInfo{
			Name:    f.Name,
			Size:    f.Size,
			ModTime: f.ModTime,
			Preview: m.preview(f.Name),
		})
	}
	return list, nil
}

func (m *Mirror) preview(name string) string {
	data, err := m.storage.Load(name)
	if err != nil || !utf8.Valid(data) {
		log.Warn("Failed to read mirror file", zap.String("name", name), zap.Error(err))
		return unreadable
	}
	preview, truncated := util.Truncate(string(data), m.previewLength)
	if truncated {
		preview += "..."
	}
	return preview
}

// CountFiles returns the number of files ListFiles would return.
func (m *Mirror) CountFiles() (int, error) {
	files, err := m.storage.List(mirrorExts...)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// ReadFile returns the content of a mirror file. Unknown or unsafe names yield ErrFileNotFound.
func (m *Mirror) ReadFile(name string) ([]byte, error) {
	data, err := m.storage.Load(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
			return nil, errors.Wrapf(ErrFileNotFound, "%q", name)
		}
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return data, nil
}
