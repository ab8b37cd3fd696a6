// Package search lists books from the database or the file snapshot and runs
// the interactive search over both.
package search // import "github.com/Xunop/book-manager/internal/search"

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/mirror"
	"github.com/Xunop/book-manager/internal/model"
	"github.com/Xunop/book-manager/internal/store"
	"github.com/Xunop/book-manager/internal/util"
)

// MinQueryLength is the shortest query, in characters, the interactive search answers.
const MinQueryLength = 2

type Query struct {
	Source model.Origin
	Text   string
	// Page is the raw page parameter.
	Page string
}

// Hit is one interactive search result. Only database hits link to the edit
// and delete pages.
type Hit struct {
	Source      model.Origin `json:"source"`
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Year        int          `json:"year"`
	Genre       string       `json:"genre"`
	Placeholder bool         `json:"placeholder"`
	EditURL     string       `json:"edit_url"`
	DeleteURL   string       `json:"delete_url"`
}

func newHit(b *model.Book) Hit {
	h := Hit{
		Source: b.Origin,
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Year:   b.PublicationYear,
		Genre:  b.GenreName(),
	}
	if b.FromDB() {
		h.EditURL = fmt.Sprintf("/books/%d/edit/", b.ID)
		h.DeleteURL = fmt.Sprintf("/books/%d/delete/", b.ID)
	} else {
		h.Placeholder = true
	}
	return h
}

type Service struct {
	store    *store.Store
	mirror   *mirror.Mirror
	pageSize int
	limit    int
}

func New(store *store.Store, mirror *mirror.Mirror, pageSize, limit int) *Service {
	if pageSize <= 0 {
		pageSize = 10
	}
	if limit <= 0 {
		limit = 15
	}
	return &Service{
		store:    store,
		mirror:   mirror,
		pageSize: pageSize,
		limit:    limit,
	}
}

// List returns the requested page of the source, newest first.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	text := strings.TrimSpace(q.Text)
	if q.Source == model.OriginFile {
		return s.listFile(text, q.Page)
	}
	return s.listDB(ctx, text, q.Page)
}

func (s *Service) listDB(ctx context.Context, text, rawPage string) (*Page, error) {
	find := &model.FindBook{Fields: model.ListSearchFields}
	if text != "" {
		find.Query = &text
	}
	total, err := s.store.CountBooks(ctx, find)
	if err != nil {
		return nil, err
	}

	number := pageNumber(rawPage, total, s.pageSize)
	offset := (number - 1) * s.pageSize
	find.Limit, find.Offset = &s.pageSize, &offset
	books, err := s.store.ListBooks(ctx, find)
	if err != nil {
		return nil, err
	}
	return &Page{
		Books:    books,
		Number:   number,
		NumPages: numPages(total, s.pageSize),
		Total:    total,
		PageSize: s.pageSize,
	}, nil
}

func (s *Service) listFile(text, rawPage string) (*Page, error) {
	books, err := s.fileBooks(text)
	if err != nil {
		return nil, err
	}

	total := len(books)
	number := pageNumber(rawPage, total, s.pageSize)
	start := min((number-1)*s.pageSize, total)
	end := min(start+s.pageSize, total)
	return &Page{
		Books:    books[start:end],
		Number:   number,
		NumPages: numPages(total, s.pageSize),
		Total:    total,
		PageSize: s.pageSize,
	}, nil
}

// fileBooks loads the snapshot, keeps the books whose title or author
// contains text and sorts them newest first. Books without a timestamp go last.
func (s *Service) fileBooks(text string) ([]*model.Book, error) {
	books, err := s.mirror.Load()
	if err != nil {
		return nil, err
	}

	if text != "" {
		filtered := books[:0]
		for _, b := range books {
			if util.ContainsFold(b.Title, text) || util.ContainsFold(b.Author, text) {
				filtered = append(filtered, b)
			}
		}
		books = filtered
	}

	sort.SliceStable(books, func(i, j int) bool {
		a, b := books[i], books[j]
		if a.CreatedAt.IsZero() != b.CreatedAt.IsZero() {
			return b.CreatedAt.IsZero()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return books, nil
}

// Interactive searches the database and the snapshot concurrently. Database
// hits come first and the result holds at most limit hits. A failing snapshot
// read is logged and the database hits are returned.
func (s *Service) Interactive(ctx context.Context, text string) ([]Hit, error) {
	text = strings.TrimSpace(text)
	hits := []Hit{}
	if utf8.RuneCountInString(text) < MinQueryLength {
		return hits, nil
	}

	var (
		dbBooks, fileBooks []*model.Book
		fileErr            error
		limit              = s.limit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dbBooks, err = s.store.ListBooks(gctx, &model.FindBook{
			Query:  &text,
			Fields: model.InteractiveSearchFields,
			Limit:  &limit,
		})
		return err
	})
	g.Go(func() error {
		fileBooks, fileErr = s.fileBooks(text)
		return nil
	})
	if err := g.Wait(); err != nil {
		return hits, err
	}

	for _, b := range dbBooks {
		hits = append(hits, newHit(b))
	}
	if fileErr != nil {
		log.Error("Failed to search the file snapshot", zap.String("query", text), zap.Error(fileErr))
		fileBooks = nil
	}
	for _, b := range fileBooks {
		if len(hits) >= s.limit {
			break
		}
		hits = append(hits, newHit(b))
	}
	if len(hits) > s.limit {
		hits = hits[:s.limit]
	}
	return hits, nil
}
