package locationRepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tripscout/config"
	"tripscout/database"
	"tripscout/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLocationRepo implements LocationRepository using MongoDB.
type MongoLocationRepo struct {
	coll *mongo.Collection
}

// NewMongoLocationRepo creates a new instance of LocationRepository using MongoDB.
func NewMongoLocationRepo() LocationRepository {
	coll := database.MongoClient.Database(config.AppConfig.DatabaseName).Collection("locations")
	repo := &MongoLocationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create location indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields used by lookups.
func (r *MongoLocationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "displayName", Value: 1}}},
		{Keys: bson.D{{Key: "popularity", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	return err
}

func (r *MongoLocationRepo) GetByCode(ctx context.Context, code string) (*models.ResolvedLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var loc models.ResolvedLocation
	filter := bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}
	if err := r.coll.FindOne(ctx, filter).Decode(&loc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to fetch location %s: %w", code, err)
	}
	return &loc, nil
}

func (r *MongoLocationRepo) SearchByName(ctx context.Context, name string, limit int) ([]models.ResolvedLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pattern := regexp.QuoteMeta(strings.TrimSpace(name))
	filter := bson.M{"$or": bson.A{
		bson.M{"displayName": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"aliases": bson.M{"$regex": pattern, "$options": "i"}},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "popularity", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations by name: %w", err)
	}
	defer cursor.Close(ctx)

	var locs []models.ResolvedLocation
	if err := cursor.All(ctx, &locs); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	if len(locs) == 0 {
		return nil, ErrLocationNotFound
	}
	return locs, nil
}

func (r *MongoLocationRepo) Autocomplete(ctx context.Context, prefix string, limit int) ([]models.ResolvedLocation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pattern := "^" + regexp.QuoteMeta(strings.TrimSpace(prefix))
	filter := bson.M{"$or": bson.A{
		bson.M{"displayName": bson.M{"$regex": pattern, "$options": "i"}},
		bson.M{"code": bson.M{"$regex": pattern, "$options": "i"}},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "popularity", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locs []models.ResolvedLocation
	if err := cursor.All(ctx, &locs); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locs, nil
}
