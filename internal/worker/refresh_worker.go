package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_console/internal/store"
)

// ListStore is the store surface the refresh worker drives.
type ListStore interface {
	Dispatch(in store.Intent)
	GetState() store.State
}

// RefreshWorker re-issues the current list query on a fixed interval so the
// console picks up changes made by other admins.
type RefreshWorker struct {
	store    ListStore
	interval time.Duration
}

// NewRefreshWorker constructs a RefreshWorker.
func NewRefreshWorker(s ListStore, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		store:    s,
		interval: interval,
	}
}

// Start begins the refresh loop and listens for context cancellation.
func (w *RefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting refresh worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Refresh worker stopped")
			return
		}
	}
}

func (w *RefreshWorker) run() {
	s := w.store.GetState()
	if s.Listing {
		log.Debug().Msg("List already in flight, skipping refresh")
		return
	}

	q := s.Query
	in := store.ListRequested(q.Page, q.PageSize, q.Search)
	log.Debug().Str("intent_id", in.ID).Int("page", q.Page).Msg("Refreshing product list")
	w.store.Dispatch(in)
}
