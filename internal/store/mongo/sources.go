package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karripar/va-backend-sub000/internal/domain"
)

const sourceCollection = "source_urls"

// SourceStore persists the admin-configured scrape targets.
type SourceStore struct {
	coll *mongo.Collection
}

func NewSourceStore(db *mongo.Database) *SourceStore {
	return &SourceStore{coll: db.Collection(sourceCollection)}
}

// Get returns the configured source for the pair, or nil when none is
// configured.
func (s *SourceStore) Get(ctx context.Context, field domain.Field, lang domain.Lang) (*domain.SourceURL, error) {
	var src domain.SourceURL
	err := s.coll.FindOne(ctx, bson.M{"field": field, "lang": lang}).Decode(&src)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load source %s/%s: %w", field, lang, err)
	}
	return &src, nil
}

// List returns all configured sources ordered by field then language, so
// the admin view and the refresher walk them deterministically.
func (s *SourceStore) List(ctx context.Context) ([]domain.SourceURL, error) {
	opts := options.Find().SetSort(bson.D{{Key: "field", Value: 1}, {Key: "lang", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer func() { _ = cur.Close(ctx) }()

	var sources []domain.SourceURL
	if err := cur.All(ctx, &sources); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	return sources, nil
}

// Upsert writes the source for its (field, lang) pair, replacing any
// previous configuration.
func (s *SourceStore) Upsert(ctx context.Context, src domain.SourceURL) error {
	filter := bson.M{"field": src.Field, "lang": src.Lang}
	update := bson.M{"$set": src}
	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store source %s/%s: %w", src.Field, src.Lang, err)
	}
	return nil
}
