package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/item-catalog/backend/internal/models"
)

// MongoProfileStore keeps user profiles as documents keyed by user id.
type MongoProfileStore struct {
	col *mongo.Collection
}

func NewMongoProfileStore(db *mongo.Database) *MongoProfileStore {
	return &MongoProfileStore{col: db.Collection("user_profiles")}
}

func (s *MongoProfileStore) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile sets the username and stamps created_at only on insert.
func (s *MongoProfileStore) UpsertProfile(ctx context.Context, userID string, username *string) (*models.UserProfile, error) {
	update := bson.M{
		"$set":         bson.M{"username": username},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p models.UserProfile
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": userID}, update, opts).Decode(&p); err != nil {
		return nil, fmt.Errorf("mongo upsert profile: %w", err)
	}
	return &p, nil
}
