package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"speshway-platform/internal/auth"
	"speshway-platform/internal/config"
	"speshway-platform/internal/database"
	"speshway-platform/internal/logger"
	"speshway-platform/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands:")
		fmt.Println("  create-indexes  - Create the collection indexes")
		fmt.Println("  seed-admin      - Create the admin user from SEED_ADMIN_* and print a token")
		fmt.Println("  verify          - Print document and index counts per collection")
		os.Exit(1)
	}

	command := os.Args[1]

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)

	switch command {
	case "create-indexes":
		if err := config.CreateIndexes(ctx, db); err != nil {
			log.Fatalf("Index creation failed: %v", err)
		}
		fmt.Println("Indexes created successfully!")

	case "seed-admin":
		if err := seedAdmin(ctx, cfg, db); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}

	case "verify":
		if err := verify(ctx, db); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func seedAdmin(ctx context.Context, cfg *config.Config, db *mongo.Database) error {
	res, err := services.EnsureAdmin(ctx, database.NewUserRepository(db, nil), services.AdminSeed{
		Name:       os.Getenv("SEED_ADMIN_NAME"),
		Email:      os.Getenv("SEED_ADMIN_EMAIL"),
		Password:   os.Getenv("SEED_ADMIN_PASSWORD"),
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		return err
	}

	if res.Created {
		fmt.Println("Admin user created")
	} else {
		fmt.Println("Admin user already exists")
	}
	fmt.Printf("   Email: %s\n", res.User.Email)
	fmt.Printf("   User ID: %s\n", res.User.ID.Hex())
	if res.Password != "" {
		fmt.Printf("   Password: %s\n", res.Password)
		fmt.Println("   Store this password now, it is not shown again.")
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	tokens, err := auth.NewTokenManager(cfg.AccessSecret, rdb)
	if err != nil {
		return err
	}
	token, expires, err := tokens.IssueAccessToken(ctx, res.User.ID.Hex(), res.User.Role)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	fmt.Printf("   Access token (expires %s):\n%s\n", expires.Format(time.RFC3339), token)
	return nil
}

func verify(ctx context.Context, db *mongo.Database) error {
	collections := []string{
		config.ClientsCollection,
		config.HomeBannersCollection,
		config.HomeImagesCollection,
		config.SentencesCollection,
		config.UsersCollection,
	}
	for _, name := range collections {
		col := db.Collection(name)
		count, err := col.CountDocuments(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("failed to count documents in %s: %v", name, err)
		}

		cursor, err := col.Indexes().List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list indexes of %s: %v", name, err)
		}
		var indexes []bson.M
		if err := cursor.All(ctx, &indexes); err != nil {
			return err
		}
		fmt.Printf("  %s: %d documents, %d indexes\n", name, count, len(indexes))
	}
	return nil
}
