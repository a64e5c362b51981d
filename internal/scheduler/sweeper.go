package scheduler

import (
	"context"
	"time"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

// CacheSweepStore exposes the cache operations the sweeper needs.
type CacheSweepStore interface {
	List(ctx context.Context) ([]domain.CacheEntry, error)
	Delete(ctx context.Context, field domain.Field, lang domain.Lang) error
}

// Sweeper deletes cache entries whose (field, lang) pair no longer has a
// configured source. Orphaned entries would otherwise be served until
// their TTL ran out even though nobody can refresh them.
type Sweeper struct {
	cache    CacheSweepStore
	sources  SourceLister
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func NewSweeper(cache CacheSweepStore, sources SourceLister, log logger.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		cache:    cache,
		sources:  sources,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process.
func (s *Sweeper) Start(ctx context.Context) error {
	if err := s.Sweep(ctx); err != nil {
		s.logger.Warn("initial sweep failed", logger.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Sweep(ctx); err != nil {
					s.logger.Error("cache sweep failed", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper.
func (s *Sweeper) Stop() {
	close(s.stopCh)
}

// Sweep removes cache entries with no matching source configuration.
func (s *Sweeper) Sweep(ctx context.Context) error {
	sources, err := s.sources.List(ctx)
	if err != nil {
		return err
	}
	configured := make(map[domain.Field]map[domain.Lang]bool, len(sources))
	for _, src := range sources {
		if configured[src.Field] == nil {
			configured[src.Field] = make(map[domain.Lang]bool)
		}
		configured[src.Field][src.Lang] = true
	}

	entries, err := s.cache.List(ctx)
	if err != nil {
		return err
	}

	deleted := 0
	for _, entry := range entries {
		if configured[entry.Field][entry.Lang] {
			continue
		}
		if err := s.cache.Delete(ctx, entry.Field, entry.Lang); err != nil {
			s.logger.Warn("failed to delete orphaned cache entry",
				logger.String("field", string(entry.Field)),
				logger.String("lang", string(entry.Lang)),
				logger.Error(err))
			continue
		}
		s.logger.Info("swept orphaned cache entry",
			logger.String("field", string(entry.Field)),
			logger.String("lang", string(entry.Lang)))
		deleted++
	}

	if deleted == 0 {
		s.logger.Debug("no orphaned cache entries")
	}
	return nil
}
