package mirror

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
	"github.com/Xunop/book-manager/internal/metric"
	"github.com/Xunop/book-manager/internal/model"
)

// BookLister is the part of the store the Syncer reads from.
type BookLister interface {
	ListBooks(ctx context.Context, find *model.FindBook) ([]*model.Book, error)
}

// Syncer rewrites the snapshot from the store. After a Sync returns the
// snapshot holds the store content as of that call.
type Syncer struct {
	store  BookLister
	mirror *Mirror

	mu sync.Mutex
}

func NewSyncer(store BookLister, mirror *Mirror) *Syncer {
	return &Syncer{store: store, mirror: mirror}
}

// Sync lists every book and writes the snapshot. Calls are serialized, so an
// older listing never overwrites a newer one. Failures are logged and
// returned; the store is left as is.
func (s *Syncer) Sync(ctx context.Context) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { metric.ObserveSync(err) }()

	books, err := s.store.ListBooks(ctx, &model.FindBook{})
	if err != nil {
		log.Error("Failed to list books for snapshot", zap.Error(err))
		return errors.Wrap(err, "failed to list books")
	}
	if _, err := s.mirror.Snapshot(books); err != nil {
		log.Error("Failed to write snapshot", zap.Error(err))
		return err
	}
	return nil
}
