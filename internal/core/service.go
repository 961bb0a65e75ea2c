package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pantryworks/trackhub/internal/config"
	"github.com/pantryworks/trackhub/internal/logging"
	"github.com/pantryworks/trackhub/internal/tabular"
)

// Service provides the entity engines over a single tabular store.
// It holds no per-record state; every call re-reads its table.
type Service struct {
	store tabular.Store
	cfg   *config.Config
	log   *slog.Logger

	// now is an injectable clock for deterministic ID and timestamp tests.
	now func() time.Time
}

// NewService creates a Service over the given store.
func NewService(store tabular.Store, cfg *config.Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// table opens a named table, wrapping configuration failures with context.
func (s *Service) table(ctx context.Context, name string) (tabular.Table, error) {
	t, err := s.store.Table(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", name, err)
	}
	return t, nil
}

// withLock runs fn inside the store-wide write lock. Acquisition failure
// follows the configured policy: strict mode rejects the write, lenient
// mode proceeds unlocked with a warning.
func (s *Service) withLock(ctx context.Context, fn func() error) error {
	release, acquired := s.store.Locker().TryLock(ctx, s.cfg.Lock.Wait)
	if acquired {
		defer release()
	} else {
		if s.cfg.Lock.Strict() {
			return ErrLockUnavailable
		}
		logging.FromContext(ctx).Warn("store lock unavailable, proceeding unlocked",
			slog.Duration("wait", s.cfg.Lock.Wait))
	}
	return fn()
}
