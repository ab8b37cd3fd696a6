// Package gateway imports uploaded JSON/XML files into the store and builds
// downloads of the current book set.
package gateway // import "github.com/Xunop/book-manager/internal/gateway"

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/metric"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/validator"
)

// ImportError reports the record that stopped an import. Records before it stay imported.
type ImportError struct {
	// Index is 1-based.
	Index    int
	Imported int
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

type Download struct {
	Name        string
	ContentType string
	Body        []byte
}

type Gateway struct {
	store           *store.Store
	mirror          *mirror.Mirror
	syncer          *mirror.Syncer
	defaultLanguage string
}

func New(store *store.Store, mirror *mirror.Mirror, syncer *mirror.Syncer, defaultLanguage string) *Gateway {
	return &Gateway{
		store:           store,
		mirror:          mirror,
		syncer:          syncer,
		defaultLanguage: defaultLanguage,
	}
}

func (g *Gateway) toBook(f fields) (*model.Book, error) {
	for _, key := range []string{"title", "author", "publication_year"} {
		if f.str(key) == "" {
			return nil, validator.NewValidationError(key, "Обязательное поле")
		}
	}
	year, err := f.number("publication_year")
	if err != nil {
		return nil, err
	}
	pageCount, err := f.number("page_count")
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:           f.str("title"),
		Author:          f.str("author"),
		ISBN:            f.str("isbn"),
		PublicationYear: *year,
		Genre:           f.str("genre"),
		Publisher:       f.str("publisher"),
		Language:        f.str("language"),
		PageCount:       pageCount,
		Description:     f.str("description"),
	}
	if book.Genre == "" {
		book.Genre = model.DefaultGenre
	}
	if book.Language == "" {
		book.Language = g.defaultLanguage
	}
	if err := validator.ValidateBook(book); err != nil {
		return nil, err
	}
	return book, nil
}

// Import inserts every record of r in order and returns how many were
// inserted. The first bad record stops the import with an *ImportError;
// nothing is rolled back. The snapshot is synced once at the end.
func (g *Gateway) Import(ctx context.Context, r io.Reader, format Format) (int, error) {
	records, err := parse(r, format)
	if err != nil {
		return 0, err
	}
	defer g.syncer.Sync(ctx)

	imported := 0
	defer func() { metric.AddImportedBooks(string(format), imported) }()
	for i, f := range records {
		book, err := g.toBook(f)
		if err == nil {
			_, err = g.store.CreateBook(ctx, book)
		}
		if err != nil {
			log.Warn("Import stopped", zap.Int("record", i+1), zap.Int("imported", imported), zap.Error(err))
			return imported, &ImportError{Index: i + 1, Imported: imported, Err: err}
		}
		imported++
	}
	log.Info("Books imported", zap.String("format", string(format)), zap.Int("imported", imported))
	return imported, nil
}

// Export writes a fresh snapshot or XML export of the store and returns its content.
func (g *Gateway) Export(ctx context.Context, format Format) (*Download, error) {
	switch format {
	case FormatJSON:
		if err := g.syncer.Sync(ctx); err != nil {
			return nil, err
		}
		return g.download(mirror.SnapshotName, "application/json")
	case FormatXML:
		books, err := g.store.ListBooks(ctx, &model.FindBook{})
		if err != nil {
			return nil, err
		}
		path, err := g.mirror.ExportXML(books)
		if err != nil {
			return nil, err
		}
		return g.download(filepath.Base(path), "application/xml")
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
}

func (g *Gateway) download(name, contentType string) (*Download, error) {
	body, err := g.mirror.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &Download{Name: name, ContentType: contentType, Body: body}, nil
}
