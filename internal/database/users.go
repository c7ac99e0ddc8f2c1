package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"speshway-platform/internal/config"
	"speshway-platform/internal/telemetry"
	"speshway-platform/models"
)

type UserRepository struct {
	c collection[models.User]
}

func NewUserRepository(db *mongo.Database, metrics *telemetry.Metrics) *UserRepository {
	return &UserRepository{c: newCollection[models.User](db, config.UsersCollection, metrics)}
}

func (r *UserRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.c.col.CountDocuments(ctx, bson.M{"_id": id})
	r.c.record("count", err)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.c.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	r.c.record("find_one", err)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	id, err := r.c.insert(ctx, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}
