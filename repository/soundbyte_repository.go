package repository

import (
	"context"
	"time"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SoundByteRepository interface {
	Create(ctx context.Context, s *domain.SoundByte) error
	FindByID(ctx context.Context, id string) (*domain.SoundByte, error)
	// List returns posts newest-first plus the total count.
	List(ctx context.Context, limit, skip int64) ([]*domain.SoundByte, int64, error)
	// Update writes only the caller-editable fields and the track snapshot.
	// It never touches engagement state (counters, comments); those belong
	// to their own atomic mutations.
	Update(ctx context.Context, s *domain.SoundByte) error
	Delete(ctx context.Context, id string) error

	// Counter mutations are single atomic updates. Decrements carry a
	// floor guard in the filter so a counter already at zero is left
	// untouched no matter how requests interleave.
	IncrementLikes(ctx context.Context, id string) error
	DecrementLikes(ctx context.Context, id string) error

	AppendComment(ctx context.Context, postID string, c *domain.Comment) error
	UpdateCommentBody(ctx context.Context, postID, commentID, body string, updatedAt int64) error
	RemoveComment(ctx context.Context, postID, commentID string) error
}

type soundByteRepository struct {
	collection *mongo.Collection
}

func NewSoundByteRepository(db *mongo.Database) SoundByteRepository {
	collection := db.Collection("soundbytes")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createdIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	}
	authorIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}},
	}
	_, _ = collection.Indexes().CreateOne(ctx, createdIndex)
	_, _ = collection.Indexes().CreateOne(ctx, authorIndex)

	return &soundByteRepository{
		collection: collection,
	}
}

func (r *soundByteRepository) Create(ctx context.Context, s *domain.SoundByte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, s)
	return err
}

func (r *soundByteRepository) FindByID(ctx context.Context, id string) (*domain.SoundByte, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s domain.SoundByte
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *soundByteRepository) List(ctx context.Context, limit, skip int64) ([]*domain.SoundByte, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*domain.SoundByte
	for cur.Next(ctx) {
		var s domain.SoundByte
		if err := cur.Decode(&s); err != nil {
			return nil, 0, err
		}
		out = append(out, &s)
	}
	return out, total, cur.Err()
}

func (r *soundByteRepository) Update(ctx context.Context, s *domain.SoundByte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// A single targeted $set keeps the write atomic with respect to the
	// engagement mutations: a like or comment landing while the author
	// edits the post is never overwritten. The snapshot fields are always
	// written as a group so a re-link clears what the new track lacks.
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"id": s.ID},
		bson.M{"$set": bson.M{
			"caption":        s.Caption,
			"tags":           s.Tags,
			"visibility":     s.Visibility,
			"source_url":     s.SourceURL,
			"audio_url":      s.AudioURL,
			"track_id":       s.TrackID,
			"title":          s.Title,
			"artist":         s.Artist,
			"genre":          s.Genre,
			"cover_art_url":  s.CoverArtURL,
			"sound_clip_url": s.SoundClipURL,
			"updated_at":     s.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *soundByteRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *soundByteRepository) IncrementLikes(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$inc": bson.M{"likes_count": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *soundByteRepository) DecrementLikes(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// No match means the counter is already at the floor; that is a
	// successful no-op, not an error. Existence is checked by the caller.
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"id": id, "likes_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"likes_count": -1}},
	)
	return err
}

func (r *soundByteRepository) AppendComment(ctx context.Context, postID string, c *domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"id": postID},
		bson.M{
			"$push": bson.M{"comments": c},
			"$inc":  bson.M{"comments_count": 1},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *soundByteRepository) UpdateCommentBody(ctx context.Context, postID, commentID, body string, updatedAt int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"id": postID, "comments.id": commentID},
		bson.M{"$set": bson.M{
			"comments.$.body":       body,
			"comments.$.updated_at": updatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *soundByteRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	if result.ModifiedCount == 0 {
		// Nothing was pulled, so do not touch the counter.
		return nil
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"id": postID, "comments_count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"comments_count": -1}},
	)
	return err
}
