// Package directory builds the destination directory for a (field, lang)
// pair: serve the cached copy while it is fresh, otherwise scrape the
// configured source page, extract its records and persist the result.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/logger"
	"github.com/karripar/va-backend-sub000/internal/scrape"
)

// CacheStore is the persistence boundary for built directories.
type CacheStore interface {
	Get(ctx context.Context, field domain.Field, lang domain.Lang) (*domain.CacheEntry, error)
	Put(ctx context.Context, field domain.Field, lang domain.Lang, sections domain.SectionedDestinations, now time.Time) error
}

// SourceStore resolves the configured page for a pair.
type SourceStore interface {
	Get(ctx context.Context, field domain.Field, lang domain.Lang) (*domain.SourceURL, error)
}

// Fetcher retrieves a source page as HTML.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Builder ties cache, sources, fetching and extraction together.
type Builder struct {
	cache     CacheStore
	sources   SourceStore
	fetcher   Fetcher
	accordion scrape.Extractor
	table     scrape.Extractor
	log       logger.Logger
	now       func() time.Time
}

func NewBuilder(cache CacheStore, sources SourceStore, fetcher Fetcher, accordion, table scrape.Extractor, log logger.Logger) *Builder {
	return &Builder{
		cache:     cache,
		sources:   sources,
		fetcher:   fetcher,
		accordion: accordion,
		table:     table,
		log:       log,
		now:       time.Now,
	}
}

// BuildDestinations returns the directory for the pair, rebuilding it
// from the source page when the cache is stale or empty. There is no
// stale fallback: if the rebuild fails, the error surfaces even when an
// expired entry exists.
func (b *Builder) BuildDestinations(ctx context.Context, field domain.Field, lang domain.Lang) (domain.SectionedDestinations, error) {
	entry, err := b.cache.Get(ctx, field, lang)
	if err != nil {
		return nil, err
	}
	if entry != nil && entry.Fresh(b.now()) {
		b.log.Debug("serving cached destinations",
			logger.String("field", string(field)),
			logger.String("lang", string(lang)))
		return entry.Sections, nil
	}
	return b.Rebuild(ctx, field, lang)
}

// Rebuild scrapes the configured source and replaces the cached entry,
// regardless of freshness. Returns domain.ErrNotConfigured when no
// source URL exists for the pair.
func (b *Builder) Rebuild(ctx context.Context, field domain.Field, lang domain.Lang) (domain.SectionedDestinations, error) {
	src, err := b.sources.Get(ctx, field, lang)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotConfigured, field, lang)
	}

	start := b.now()
	html, err := b.fetcher.FetchHTML(ctx, src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", field, lang, err)
	}

	sections, err := b.extractor(field).ExtractSections(ctx, html, lang)
	if err != nil {
		return nil, fmt.Errorf("extract %s/%s: %w", field, lang, err)
	}

	sections = b.normalize(sections, field, lang)

	if err := b.cache.Put(ctx, field, lang, sections, b.now()); err != nil {
		return nil, err
	}
	b.log.Info("destinations rebuilt",
		logger.String("field", string(field)),
		logger.String("lang", string(lang)),
		logger.Int("sections", len(sections)),
		logger.Duration("took", b.now().Sub(start)))
	return sections, nil
}

// extractor picks the parsing strategy for a field. Business and health
// pages list partners in tables; the rest use accordion widgets.
func (b *Builder) extractor(field domain.Field) scrape.Extractor {
	switch field {
	case domain.FieldBusiness, domain.FieldHealth:
		return b.table
	default:
		return b.accordion
	}
}

// normalize drops records that fail validation. Dropping is silent apart
// from a debug log: one malformed row should not poison a whole section.
func (b *Builder) normalize(sections domain.SectionedDestinations, field domain.Field, lang domain.Lang) domain.SectionedDestinations {
	out := make(domain.SectionedDestinations, len(sections))
	for title, records := range sections {
		valid := domain.FilterValid(records)
		if dropped := len(records) - len(valid); dropped > 0 {
			b.log.Debug("dropped invalid destination records",
				logger.String("field", string(field)),
				logger.String("lang", string(lang)),
				logger.String("section", title),
				logger.Int("dropped", dropped))
		}
		out[title] = valid
	}
	return out
}
