package repository

import (
	"context"
	"time"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrackRepository interface {
	// Create inserts the track. The tracks collection carries a unique
	// index on key, so a concurrent insert of the same key fails with a
	// duplicate-key error the caller is expected to resolve by re-fetch.
	Create(ctx context.Context, t *domain.Track) error
	FindByKey(ctx context.Context, key string) (*domain.Track, error)
	FindByID(ctx context.Context, id string) (*domain.Track, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Track, error)
}

type trackRepository struct {
	collection *mongo.Collection
}

func NewTrackRepository(db *mongo.Database) TrackRepository {
	collection := db.Collection("tracks")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(ctx, keyIndex)

	return &trackRepository{
		collection: collection,
	}
}

func (r *trackRepository) Create(ctx context.Context, t *domain.Track) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, t)
	return err
}

func (r *trackRepository) FindByKey(ctx context.Context, key string) (*domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var track domain.Track
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&track)
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepository) FindByID(ctx context.Context, id string) (*domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var track domain.Track
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&track)
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (r *trackRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if len(ids) == 0 {
		return nil, nil
	}

	cur, err := r.collection.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[string]*domain.Track, len(ids))
	for cur.Next(ctx) {
		var t domain.Track
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		byID[t.ID] = &t
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's ordering (jukebox order matters).
	out := make([]*domain.Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}
