package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/karripar/va-backend-sub000/internal/ai"
	"github.com/karripar/va-backend-sub000/internal/directory"
	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/geo"
	"github.com/karripar/va-backend-sub000/internal/httpserver/deps"
	"github.com/karripar/va-backend-sub000/internal/httpserver/handlers"
	"github.com/karripar/va-backend-sub000/internal/logger"
	"github.com/karripar/va-backend-sub000/internal/scrape"
)

// memCache is an in-memory stand-in for the MongoDB cache store.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*domain.CacheEntry
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*domain.CacheEntry)}
}

func (m *memCache) key(field domain.Field, lang domain.Lang) string {
	return string(field) + "/" + string(lang)
}

func (m *memCache) Get(_ context.Context, field domain.Field, lang domain.Lang) (*domain.CacheEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.key(field, lang)], nil
}

func (m *memCache) Put(_ context.Context, field domain.Field, lang domain.Lang, sections domain.SectionedDestinations, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.key(field, lang)] = &domain.CacheEntry{
		Field:       field,
		Lang:        lang,
		Sections:    sections,
		LastUpdated: now,
	}
	return nil
}

type memSources struct {
	sources map[string]*domain.SourceURL
}

func (m *memSources) Get(_ context.Context, field domain.Field, lang domain.Lang) (*domain.SourceURL, error) {
	return m.sources[string(field)+"/"+string(lang)], nil
}

// countingFetcher serves a fixed page and counts how often it is asked.
type countingFetcher struct {
	html  string
	calls int
}

func (f *countingFetcher) FetchHTML(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, nil
}

// scriptedModel answers every chat completion with the same JSON array.
type scriptedModel struct {
	answer string
}

func (s *scriptedModel) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.answer}},
		},
	}, nil
}

const sourcePage = `<html><body>
<div class="accordion">
  <h2>Europe</h2>
  <button id="label-fr">FRANCE FRANCE</button>
  <div class="accordion__panel" aria-labelledby="label-fr">
    <p><a href="https://sorbonne.fr">Sorbonne University</a></p>
  </div>
</div>
</body></html>`

func testResolver() *geo.Resolver {
	return geo.NewResolver(
		map[domain.Lang]map[string]string{
			domain.LangEN: {"France": "FR"},
			domain.LangFI: {"Ranska": "FR"},
		},
		nil,
		map[string]domain.Coordinates{
			"FR": {Lat: 46.2276, Lng: 2.2137},
		},
	)
}

func TestDestinationsEndToEnd(t *testing.T) {
	resolver := testResolver()
	model := &scriptedModel{
		answer: `[{"country":"FRANCE","title":"Sorbonne University","link":"https://sorbonne.fr"}]`,
	}
	fetcher := &countingFetcher{html: sourcePage}
	cache := newMemCache()
	sources := &memSources{sources: map[string]*domain.SourceURL{
		"tech/en": {Field: domain.FieldTech, Lang: domain.LangEN, URL: "https://example.edu/partners"},
	}}

	builder := directory.NewBuilder(
		cache,
		sources,
		fetcher,
		scrape.NewAccordionExtractor(ai.NewExtractor(model, ""), resolver),
		scrape.NewTableExtractor(resolver),
		logger.NewNop(),
	)

	d := deps.Deps{
		Logger:  logger.NewNop(),
		TimeNow: time.Now,
		Builder: builder,
	}
	handler := handlers.Destinations(d)

	req := httptest.NewRequest(http.MethodGet, "/api/destinations?field=tech&lang=en", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Destinations domain.SectionedDestinations `json:"destinations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	europe := resp.Destinations["Europe"]
	if len(europe) != 1 {
		t.Fatalf("Europe = %v, want one record", europe)
	}
	got := europe[0]
	if got.Country != "FRANCE" || got.Title != "Sorbonne University" || got.Link != "https://sorbonne.fr" {
		t.Errorf("record = %+v", got)
	}
	if got.Coordinates.Lat != 46.2276 || got.Coordinates.Lng != 2.2137 {
		t.Errorf("coordinates = %+v, want France resolved via fuzzy country match", got.Coordinates)
	}

	entry, err := cache.Get(context.Background(), domain.FieldTech, domain.LangEN)
	if err != nil || entry == nil {
		t.Fatalf("cache entry after build: %v, %v", entry, err)
	}
	if len(entry.Sections["Europe"]) != 1 {
		t.Errorf("persisted sections = %v", entry.Sections)
	}

	// Second request must come from the cache.
	rec2 := httptest.NewRecorder()
	handler(rec2, httptest.NewRequest(http.MethodGet, "/api/destinations?field=tech&lang=en", nil))
	if rec2.Code != http.StatusOK {
		t.Fatalf("second request status = %d", rec2.Code)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (second request should hit the cache)", fetcher.calls)
	}
}

func TestCachePutReplacesPreviousEntry(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	if err := cache.Put(ctx, domain.FieldTech, domain.LangEN, domain.SectionedDestinations{
		"Europe": {{Country: "FRANCE", Title: "Sorbonne University"}},
		"Asia":   {{Country: "JAPAN", Title: "Waseda University"}},
	}, first); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := cache.Put(ctx, domain.FieldTech, domain.LangEN, domain.SectionedDestinations{
		"Europe": {{Country: "FRANCE", Title: "Sorbonne University"}},
	}, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	entry, err := cache.Get(ctx, domain.FieldTech, domain.LangEN)
	if err != nil || entry == nil {
		t.Fatalf("get after second put: %v, %v", entry, err)
	}
	if !entry.LastUpdated.Equal(second) {
		t.Errorf("lastUpdated = %v, want the latest put time %v", entry.LastUpdated, second)
	}
	if _, ok := entry.Sections["Asia"]; ok {
		t.Error("sections from the first put survived, want wholesale replacement")
	}
	if len(entry.Sections["Europe"]) != 1 {
		t.Errorf("sections = %v", entry.Sections)
	}
	if !entry.Fresh(second.Add(domain.CacheTTL - time.Minute)) {
		t.Error("entry should be fresh relative to the latest put time")
	}
}

func TestDestinationsUnconfiguredPair(t *testing.T) {
	builder := directory.NewBuilder(
		newMemCache(),
		&memSources{sources: map[string]*domain.SourceURL{}},
		&countingFetcher{},
		scrape.NewAccordionExtractor(ai.NewExtractor(&scriptedModel{answer: "[]"}, ""), testResolver()),
		scrape.NewTableExtractor(testResolver()),
		logger.NewNop(),
	)

	d := deps.Deps{
		Logger:  logger.NewNop(),
		TimeNow: time.Now,
		Builder: builder,
	}

	rec := httptest.NewRecorder()
	handlers.Destinations(d)(rec, httptest.NewRequest(http.MethodGet, "/api/destinations?field=culture&lang=fi", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unconfigured pair", rec.Code)
	}
}
