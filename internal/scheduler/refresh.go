// Package scheduler runs the background jobs: periodic refresh of stale
// directory entries and sweeping of cache entries whose source was
// removed.
package scheduler

import (
	"context"
	"time"

	"github.com/karripar/va-backend-sub000/internal/directory"
	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

// SourceLister enumerates every configured scrape target.
type SourceLister interface {
	List(ctx context.Context) ([]domain.SourceURL, error)
}

// CacheReader exposes the cache lookups the jobs need.
type CacheReader interface {
	Get(ctx context.Context, field domain.Field, lang domain.Lang) (*domain.CacheEntry, error)
}

// Rebuilder forces a rebuild of one (field, lang) pair.
type Rebuilder interface {
	Rebuild(ctx context.Context, field domain.Field, lang domain.Lang) (domain.SectionedDestinations, error)
}

// Refresher walks the configured sources on an interval and rebuilds
// entries whose cache has expired, so clients rarely pay the scrape
// cost on request.
type Refresher struct {
	sources       SourceLister
	cache         CacheReader
	builder       Rebuilder
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	now           func() time.Time
}

func NewRefresher(
	sources SourceLister,
	cache CacheReader,
	builder Rebuilder,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Refresher {
	return &Refresher{
		sources:       sources,
		cache:         cache,
		builder:       builder,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
		now:           time.Now,
	}
}

// Start begins the periodic refresh process. The initial pass is best
// effort; sources that fail to build are retried on the next tick.
func (r *Refresher) Start(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("initial refresh failed", logger.Error(err))
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					r.logger.Error("scheduled refresh failed", logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual refresh triggered")
				if err := r.Refresh(ctx); err != nil {
					r.logger.Error("manual refresh failed", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (r *Refresher) Stop() {
	close(r.stopCh)
}

// Refresh rebuilds every configured pair whose cached entry is missing
// or stale. One failing pair does not stop the walk.
func (r *Refresher) Refresh(ctx context.Context) error {
	sources, err := r.sources.List(ctx)
	if err != nil {
		return err
	}

	rebuilt := 0
	for _, src := range sources {
		entry, err := r.cache.Get(ctx, src.Field, src.Lang)
		if err != nil {
			r.logger.Warn("cache lookup failed during refresh",
				logger.String("field", string(src.Field)),
				logger.String("lang", string(src.Lang)),
				logger.Error(err))
			continue
		}
		if entry != nil && entry.Fresh(r.now()) {
			continue
		}

		if _, err := r.builder.Rebuild(ctx, src.Field, src.Lang); err != nil {
			r.logger.Error("refresh rebuild failed",
				logger.String("field", string(src.Field)),
				logger.String("lang", string(src.Lang)),
				logger.Error(err))
			continue
		}
		rebuilt++
	}

	if rebuilt > 0 {
		r.logger.Info("refresh completed",
			logger.Int("sources", len(sources)),
			logger.Int("rebuilt", rebuilt))
	} else {
		r.logger.Debug("refresh completed, everything fresh",
			logger.Int("sources", len(sources)))
	}
	return nil
}

var _ Rebuilder = (*directory.Builder)(nil)
