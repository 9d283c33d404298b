package repository

import (
	"context"
	"time"

	"github.com/soundbyteapp/soundbyte-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListUsernames(ctx context.Context) ([]*domain.User, error)

	// Jukebox mutations are atomic set operations on the array field:
	// $addToSet never duplicates, $pull on an absent id is a no-op.
	AddToJukebox(ctx context.Context, userID, trackID string) error
	RemoveFromJukebox(ctx context.Context, userID, trackID string) error

	AddLiked(ctx context.Context, userID, soundByteID string) error
	RemoveLiked(ctx context.Context, userID, soundByteID string) error

	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	usernameIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(ctx, emailIndex)
	_, _ = collection.Indexes().CreateOne(ctx, usernameIndex)

	return &userRepository{
		collection: collection,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user domain.User
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListUsernames(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"id": 1, "username": 1})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.User
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, cur.Err()
}

func (r *userRepository) AddToJukebox(ctx context.Context, userID, trackID string) error {
	return r.updateOne(ctx, userID, bson.M{"$addToSet": bson.M{"jukebox": trackID}})
}

func (r *userRepository) RemoveFromJukebox(ctx context.Context, userID, trackID string) error {
	return r.updateOne(ctx, userID, bson.M{"$pull": bson.M{"jukebox": trackID}})
}

func (r *userRepository) AddLiked(ctx context.Context, userID, soundByteID string) error {
	return r.updateOne(ctx, userID, bson.M{"$addToSet": bson.M{"liked_soundbytes": soundByteID}})
}

func (r *userRepository) RemoveLiked(ctx context.Context, userID, soundByteID string) error {
	return r.updateOne(ctx, userID, bson.M{"$pull": bson.M{"liked_soundbytes": soundByteID}})
}

func (r *userRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := r.updateOne(ctx, followerID, bson.M{"$addToSet": bson.M{"following": followeeID}}); err != nil {
		return err
	}
	return r.updateOne(ctx, followeeID, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

func (r *userRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := r.updateOne(ctx, followerID, bson.M{"$pull": bson.M{"following": followeeID}}); err != nil {
		return err
	}
	return r.updateOne(ctx, followeeID, bson.M{"$pull": bson.M{"followers": followerID}})
}

func (r *userRepository) updateOne(ctx context.Context, userID string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
