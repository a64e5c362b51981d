package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

type fakeSourceLister struct {
	sources []domain.SourceURL
	err     error
}

func (f *fakeSourceLister) List(_ context.Context) ([]domain.SourceURL, error) {
	return f.sources, f.err
}

type pair struct {
	field domain.Field
	lang  domain.Lang
}

type fakeCacheReader struct {
	entries map[pair]*domain.CacheEntry
}

func (f *fakeCacheReader) Get(_ context.Context, field domain.Field, lang domain.Lang) (*domain.CacheEntry, error) {
	return f.entries[pair{field, lang}], nil
}

type fakeRebuilder struct {
	rebuilt []pair
	failOn  map[pair]error
}

func (f *fakeRebuilder) Rebuild(_ context.Context, field domain.Field, lang domain.Lang) (domain.SectionedDestinations, error) {
	p := pair{field, lang}
	if err := f.failOn[p]; err != nil {
		return nil, err
	}
	f.rebuilt = append(f.rebuilt, p)
	return domain.SectionedDestinations{}, nil
}

var refNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRefreshRebuildsOnlyStale(t *testing.T) {
	sources := &fakeSourceLister{sources: []domain.SourceURL{
		{Field: domain.FieldTech, Lang: domain.LangEN},
		{Field: domain.FieldTech, Lang: domain.LangFI},
		{Field: domain.FieldHealth, Lang: domain.LangEN},
	}}
	cache := &fakeCacheReader{entries: map[pair]*domain.CacheEntry{
		{domain.FieldTech, domain.LangEN}: {LastUpdated: refNow.Add(-time.Hour)},
		{domain.FieldTech, domain.LangFI}: {LastUpdated: refNow.Add(-domain.CacheTTL)},
	}}
	builder := &fakeRebuilder{}

	r := NewRefresher(sources, cache, builder, logger.NewNop(), time.Hour, make(chan struct{}))
	r.now = func() time.Time { return refNow }

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	want := []pair{
		{domain.FieldTech, domain.LangFI},
		{domain.FieldHealth, domain.LangEN},
	}
	if len(builder.rebuilt) != len(want) {
		t.Fatalf("rebuilt = %v, want %v", builder.rebuilt, want)
	}
	for i, p := range want {
		if builder.rebuilt[i] != p {
			t.Errorf("rebuilt[%d] = %v, want %v", i, builder.rebuilt[i], p)
		}
	}
}

func TestRefreshContinuesAfterFailure(t *testing.T) {
	sources := &fakeSourceLister{sources: []domain.SourceURL{
		{Field: domain.FieldTech, Lang: domain.LangEN},
		{Field: domain.FieldCulture, Lang: domain.LangEN},
	}}
	builder := &fakeRebuilder{failOn: map[pair]error{
		{domain.FieldTech, domain.LangEN}: errors.New("source page moved"),
	}}

	r := NewRefresher(sources, &fakeCacheReader{}, builder, logger.NewNop(), time.Hour, make(chan struct{}))
	r.now = func() time.Time { return refNow }

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if len(builder.rebuilt) != 1 || builder.rebuilt[0] != (pair{domain.FieldCulture, domain.LangEN}) {
		t.Errorf("rebuilt = %v, want culture/en despite tech/en failing", builder.rebuilt)
	}
}

func TestRefreshListFailure(t *testing.T) {
	wantErr := errors.New("mongo down")
	r := NewRefresher(&fakeSourceLister{err: wantErr}, &fakeCacheReader{}, &fakeRebuilder{}, logger.NewNop(), time.Hour, make(chan struct{}))

	if err := r.Refresh(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("Refresh() error = %v, want %v", err, wantErr)
	}
}

type fakeSweepStore struct {
	entries []domain.CacheEntry
	deleted []pair
	failOn  map[pair]error
}

func (f *fakeSweepStore) List(_ context.Context) ([]domain.CacheEntry, error) {
	return f.entries, nil
}

func (f *fakeSweepStore) Delete(_ context.Context, field domain.Field, lang domain.Lang) error {
	p := pair{field, lang}
	if err := f.failOn[p]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, p)
	return nil
}

func TestSweepDeletesOrphans(t *testing.T) {
	sources := &fakeSourceLister{sources: []domain.SourceURL{
		{Field: domain.FieldTech, Lang: domain.LangEN},
	}}
	cache := &fakeSweepStore{entries: []domain.CacheEntry{
		{Field: domain.FieldTech, Lang: domain.LangEN},
		{Field: domain.FieldTech, Lang: domain.LangFI},
		{Field: domain.FieldCulture, Lang: domain.LangEN},
	}}

	s := NewSweeper(cache, sources, logger.NewNop(), time.Hour)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	want := []pair{
		{domain.FieldTech, domain.LangFI},
		{domain.FieldCulture, domain.LangEN},
	}
	if len(cache.deleted) != len(want) {
		t.Fatalf("deleted = %v, want %v", cache.deleted, want)
	}
	for i, p := range want {
		if cache.deleted[i] != p {
			t.Errorf("deleted[%d] = %v, want %v", i, cache.deleted[i], p)
		}
	}
}

func TestSweepKeepsConfiguredEntries(t *testing.T) {
	sources := &fakeSourceLister{sources: []domain.SourceURL{
		{Field: domain.FieldTech, Lang: domain.LangEN},
		{Field: domain.FieldTech, Lang: domain.LangFI},
	}}
	cache := &fakeSweepStore{entries: []domain.CacheEntry{
		{Field: domain.FieldTech, Lang: domain.LangEN},
		{Field: domain.FieldTech, Lang: domain.LangFI},
	}}

	s := NewSweeper(cache, sources, logger.NewNop(), time.Hour)
	if err := s.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(cache.deleted) != 0 {
		t.Errorf("deleted = %v, want nothing", cache.deleted)
	}
}
