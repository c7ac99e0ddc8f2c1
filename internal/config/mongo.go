package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson" // Use bson for index keys
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the repositories and the index setup.
const (
	ClientsCollection     = "clients"
	HomeBannersCollection = "home_banners"
	HomeImagesCollection  = "home_images"
	SentencesCollection   = "sentences"
	UsersCollection       = "users"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	err = CreateIndexes(ctx, client.Database(cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

// CreateIndexes is idempotent; existing indexes with the same keys are left alone.
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ClientsCollection: {
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		HomeBannersCollection: {
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		HomeImagesCollection: {
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
			{Keys: bson.D{{Key: "order", Value: 1}}},
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		SentencesCollection: {
			{Keys: bson.D{{Key: "recorded_at", Value: -1}}},
			{Keys: bson.D{{Key: "url", Value: 1}}},
		},
		UsersCollection: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}
