package userprefsRepo

import (
	"context"
	"fmt"
	"time"

	"tripscout/config"
	"tripscout/database"
	"tripscout/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPreferenceRepo implements PreferenceRepository using MongoDB.
type MongoPreferenceRepo struct {
	coll *mongo.Collection
}

// NewMongoPreferenceRepo creates a new instance of PreferenceRepository using MongoDB.
func NewMongoPreferenceRepo() PreferenceRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("user_preferences")
	repo := &MongoPreferenceRepo{coll: coll}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		fmt.Printf("failed to create user_preferences index: %v\n", err)
	}
	return repo
}

func (r *MongoPreferenceRepo) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var prefs models.UserPreferences
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&prefs); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("failed to fetch preferences for user %s: %w", userID, err)
	}
	return &prefs, nil
}
