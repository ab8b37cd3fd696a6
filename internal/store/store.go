package store // import "github.com/Xunop/book-manager/internal/store"

import (
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/Xunop/book-manager/internal/model"
)

const DefaultCacheSize = 1024

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateBook = errors.New("a book with the same title, author and publication year already exists")
)

type Store struct {
	db        *sql.DB
	dbLock    sync.Mutex // dbLock serializes writes to db
	BookCache *lru.Cache[int, *model.Book]
}

// NewStore caches up to cacheSize books by id, DefaultCacheSize if cacheSize is not positive.
func NewStore(db *sql.DB, cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[int, *model.Book](cacheSize)
	if err != nil {
		// only fails for a non-positive size
		panic(err)
	}
	return &Store{
		db:        db,
		BookCache: cache,
	}
}

func (s *Store) Ping() error {
	return s.db.Ping()
}
