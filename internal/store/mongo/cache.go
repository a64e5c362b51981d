package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

const cacheCollection = "destination_cache"

// CacheStore persists built directories keyed by (field, lang).
type CacheStore struct {
	coll *mongo.Collection
}

func NewCacheStore(db *mongo.Database) *CacheStore {
	return &CacheStore{coll: db.Collection(cacheCollection)}
}

func cacheKey(field domain.Field, lang domain.Lang) bson.M {
	return bson.M{"field": field, "lang": lang}
}

// Get returns the cached entry for the pair, or nil when none exists.
// A miss is not an error; staleness is the caller's concern.
func (s *CacheStore) Get(ctx context.Context, field domain.Field, lang domain.Lang) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	err := s.coll.FindOne(ctx, cacheKey(field, lang)).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cache entry %s/%s: %w", field, lang, err)
	}
	return &entry, nil
}

// Put upserts the directory for the pair and stamps it with now.
func (s *CacheStore) Put(ctx context.Context, field domain.Field, lang domain.Lang, sections domain.SectionedDestinations, now time.Time) error {
	update := bson.M{"$set": bson.M{
		"field":       field,
		"lang":        lang,
		"sections":    sections,
		"lastUpdated": now,
	}}
	_, err := s.coll.UpdateOne(ctx, cacheKey(field, lang), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store cache entry %s/%s: %w", field, lang, err)
	}
	return nil
}

// List returns every cached entry. Sections are omitted; the sweeper only
// needs the keys and timestamps.
func (s *CacheStore) List(ctx context.Context) ([]domain.CacheEntry, error) {
	opts := options.Find().SetProjection(bson.M{"sections": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var entries []domain.CacheEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode cache entries: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for the pair. Deleting a missing entry is a
// no-op.
func (s *CacheStore) Delete(ctx context.Context, field domain.Field, lang domain.Lang) error {
	if _, err := s.coll.DeleteOne(ctx, cacheKey(field, lang)); err != nil {
		return fmt.Errorf("delete cache entry %s/%s: %w", field, lang, err)
	}
	return nil
}
