// Package service holds the book operations shared by the HTML handlers.
package service // import "github.com/Xunop/book-manager/internal/service"

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/validator"
)

// BookService validates books, writes them to the store or the mirror and
// keeps the snapshot in sync after every store mutation.
type BookService struct {
	store  *store.Store
	mirror *mirror.Mirror
	syncer *mirror.Syncer
}

func NewBookService(store *store.Store, mirror *mirror.Mirror, syncer *mirror.Syncer) *BookService {
	return &BookService{
		store:  store,
		mirror: mirror,
		syncer: syncer,
	}
}

func (s *BookService) checkDuplicate(ctx context.Context, book *model.Book) error {
	dup, err := s.store.FindDuplicate(ctx, book.Title, book.Author, book.PublicationYear)
	if err != nil {
		return err
	}
	if dup != nil && dup.ID != book.ID {
		return store.ErrDuplicateBook
	}
	return nil
}

// Create stores a new book at location. db and both insert into the store
// after a duplicate check and sync the snapshot, so with both the snapshot
// contains the new book. file appends to the snapshot only.
func (s *BookService) Create(ctx context.Context, book *model.Book, location model.SaveLocation) (*model.Book, error) {
	if err := validator.ValidateBook(book); err != nil {
		return nil, err
	}

	switch location {
	case model.SaveToFile:
		return s.mirror.SaveToFile(book)
	case model.SaveToDB, model.SaveToBoth, "":
	default:
		return nil, errors.Errorf("unknown save location %q", location)
	}

	if err := s.checkDuplicate(ctx, book); err != nil {
		return nil, err
	}
	created, err := s.store.CreateBook(ctx, book)
	if err != nil {
		return nil, err
	}
	log.Info("Book created", zap.Int("bookID", created.ID), zap.String("location", string(location)))

	s.syncer.Sync(ctx)
	return created, nil
}

// Update replaces the editable fields of the book with book.ID.
func (s *BookService) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	if err := validator.ValidateBook(book); err != nil {
		return nil, err
	}
	if err := s.checkDuplicate(ctx, book); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateBook(ctx, book)
	if err != nil {
		return nil, err
	}
	log.Info("Book updated", zap.Int("bookID", updated.ID))

	s.syncer.Sync(ctx)
	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id int) (*model.Book, error) {
	deleted, err := s.store.DeleteBook(ctx, id)
	if err != nil {
		return nil, err
	}
	s.syncer.Sync(ctx)
	return deleted, nil
}

func (s *BookService) Get(ctx context.Context, id int) (*model.Book, error) {
	return s.store.GetBook(ctx, id)
}

func (s *BookService) Count(ctx context.Context) (int, error) {
	return s.store.CountBooks(ctx, &model.FindBook{})
}

// Sync refreshes the snapshot. Errors are logged by the Syncer.
func (s *BookService) Sync(ctx context.Context) {
	s.syncer.Sync(ctx)
}
