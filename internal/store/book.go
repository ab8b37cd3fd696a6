package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const bookColumns = `
	id,
	title,
	author,
	isbn,
	publication_year,
	genre,
	publisher,
	language,
	page_count,
	description,
	created_ts`

// searchableColumns are the columns a FindBook query may match against.
var searchableColumns = map[string]bool{
	"title":       true,
	"author":      true,
	"description": true,
	"isbn":        true,
	"genre":       true,
	"language":    true,
	"publisher":   true,
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		book                                   model.Book
		isbn, publisher, language, description sql.NullString
		pageCount                              sql.NullInt64
		createdTs                              int64
	)
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&isbn,
		&book.PublicationYear,
		&book.Genre,
		&publisher,
		&language,
		&pageCount,
		&description,
		&createdTs,
	); err != nil {
		return nil, err
	}
	book.ISBN = isbn.String
	book.Publisher = publisher.String
	book.Language = language.String
	book.Description = description.String
	if pageCount.Valid {
		n := int(pageCount.Int64)
		book.PageCount = &n
	}
	book.CreatedAt = time.Unix(createdTs, 0).UTC()
	book.Origin = model.OriginDB
	return &book, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func copyBook(b *model.Book) *model.Book {
	c := *b
	if b.PageCount != nil {
		n := *b.PageCount
		c.PageCount = &n
	}
	return &c
}

// CreateBook inserts the book and returns the stored record with its id and created_at.
func (s *Store) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	stmt := `
		INSERT INTO book (
			title,
			author,
			isbn,
			publication_year,
			genre,
			publisher,
			language,
			page_count,
			description,
			created_ts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING` + bookColumns
	createdTs := time.Now().Unix()
	if !book.CreatedAt.IsZero() {
		createdTs = book.CreatedAt.Unix()
	}
	args := []any{
		book.Title,
		book.Author,
		nullString(book.ISBN),
		book.PublicationYear,
		book.Genre,
		nullString(book.Publisher),
		nullString(book.Language),
		nullInt(book.PageCount),
		nullString(book.Description),
		createdTs,
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	log.Debug("SQL query and args", zap.String("query", stmt), zap.Any("args", args))

	newBook, err := scanBook(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert book")
	}
	s.BookCache.Add(newBook.ID, copyBook(newBook))
	return newBook, nil
}

func (s *Store) GetBook(ctx context.Context, id int) (*model.Book, error) {
	if cache, ok := s.BookCache.Get(id); ok {
		return copyBook(cache), nil
	}

	list, err := s.ListBooks(ctx, &model.FindBook{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrBookNotFound
	}

	book := list[0]
	s.BookCache.Add(book.ID, copyBook(book))
	return book, nil
}

// UpdateBook overwrites every editable field of the book with the given id.
// created_at never changes.
func (s *Store) UpdateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	stmt := `
		UPDATE book SET
			title = ?,
			author = ?,
			isbn = ?,
			publication_year = ?,
			genre = ?,
			publisher = ?,
			language = ?,
			page_count = ?,
			description = ?
		WHERE id = ?
		RETURNING` + bookColumns
	args := []any{
		book.Title,
		book.Author,
		nullString(book.ISBN),
		book.PublicationYear,
		book.Genre,
		nullString(book.Publisher),
		nullString(book.Language),
		nullInt(book.PageCount),
		nullString(book.Description),
		book.ID,
	}

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	log.Debug("SQL query and args", zap.String("query", stmt), zap.Any("args", args))

	updated, err := scanBook(s.db.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, errors.Wrapf(err, "failed to update book %d", book.ID)
	}
	s.BookCache.Add(updated.ID, copyBook(updated))
	return updated, nil
}

// DeleteBook removes the book and returns the deleted record.
func (s *Store) DeleteBook(ctx context.Context, id int) (*model.Book, error) {
	stmt := `DELETE FROM book WHERE id = ? RETURNING` + bookColumns

	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	log.Debug("SQL query and args", zap.String("query", stmt), zap.Int("id", id))

	deleted, err := scanBook(s.db.QueryRowContext(ctx, stmt, id))
	s.BookCache.Remove(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, errors.Wrapf(err, "failed to delete book %d", id)
	}
	log.Info("Book deleted successfully", zap.Int("bookID", id))
	return deleted, nil
}

func buildWhere(find *model.FindBook) ([]string, []any, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "title = ?"), append(args, *v)
	}
	if v := find.Author; v != nil {
		where, args = append(where, "author = ?"), append(args, *v)
	}
	if v := find.PublicationYear; v != nil {
		where, args = append(where, "publication_year = ?"), append(args, *v)
	}
	if v := find.Query; v != nil && *v != "" {
		fields := find.Fields
		if len(fields) == 0 {
			fields = model.ListSearchFields
		}
		folded := util.Fold(*v)
		or := make([]string, 0, len(fields))
		for _, field := range fields {
			if !searchableColumns[field] {
				return nil, nil, errors.Errorf("unknown search field %q", field)
			}
			or, args = append(or, fmt.Sprintf("instr(casefold(%s), ?) > 0", field)), append(args, folded)
		}
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}
	return where, args, nil
}

// ListBooks returns the matching books, newest first.
func (s *Store) ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error) {
	where, args, err := buildWhere(find)
	if err != nil {
		return nil, err
	}

	query := `SELECT` + bookColumns + `
		FROM book
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil || find.Offset != nil {
		limit, offset := -1, 0
		if find.Limit != nil {
			limit = *find.Limit
		}
		if find.Offset != nil {
			offset = *find.Offset
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	log.Debug("SQL query and args", zap.String("query", query), zap.Any("args", args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("Failed to query books", zap.Error(err))
		return nil, errors.Wrap(err, "failed to query books")
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error("Failed to scan book", zap.Error(err))
			return nil, err
		}
		list = append(list, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// CountBooks counts the books ListBooks would return without limit and offset.
func (s *Store) CountBooks(ctx context.Context, find *model.FindBook) (int, error) {
	where, args, err := buildWhere(find)
	if err != nil {
		return 0, err
	}

	query := `SELECT count(*) FROM book WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count books")
	}
	return count, nil
}

// FindDuplicate returns the book matching title, author and year exactly, or nil.
func (s *Store) FindDuplicate(ctx context.Context, title, author string, year int) (*model.Book, error) {
	limit := 1
	list, err := s.ListBooks(ctx, &model.FindBook{
		Title:           &title,
		Author:          &author,
		PublicationYear: &year,
		Limit:           &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
