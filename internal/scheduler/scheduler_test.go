package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/piwpisz/bip-go/internal/cache"
	"github.com/piwpisz/bip-go/internal/service"
	"github.com/piwpisz/bip-go/internal/store"
)

type nopViewStore struct{}

func (nopViewStore) AddArticleViews(ctx context.Context, id, delta int64) error { return nil }

type nopMenuStore struct{}

func (nopMenuStore) GetActiveMenuItems(ctx context.Context) ([]store.MenuItem, error) {
	return nil, nil
}

func newTestScheduler() *Scheduler {
	counter := service.NewViewCounter(nopViewStore{})
	menus := cache.NewMenuCache(nopMenuStore{}, cache.New(time.Minute))
	return New(counter, menus, slog.Default())
}

func TestNew(t *testing.T) {
	s := newTestScheduler()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := newTestScheduler()

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered jobs = %d, want 2", got)
	}

	// Stop flushes whatever the counter buffered.
	s.counter.Record(1)
	s.Stop()
	if got := s.counter.Pending(); got != 0 {
		t.Errorf("pending after Stop() = %d, want 0", got)
	}
}
