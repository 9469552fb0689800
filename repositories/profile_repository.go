// repositories/profile_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/models"
)

type ProfileRepository struct {
	db *mongo.Client
}

func NewProfileRepository(db *mongo.Client) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) collection() *mongo.Collection {
	return config.GetCollection(r.db, "profiles")
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection().FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection().FindOne(ctx, bson.M{"username": username}).Decode(&profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, avatarURL string) error {
	update := bson.M{"$set": bson.M{
		"avatarUrl": avatarURL,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"userId": userID}, update)
	return err
}
