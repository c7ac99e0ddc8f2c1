package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"speshway-platform/internal/config"
	"speshway-platform/internal/telemetry"
	"speshway-platform/models"
)

// ClientSort lists newest clients first.
var ClientSort = bson.D{{Key: "created_at", Value: -1}}

type ClientRepository struct {
	c collection[models.Client]
}

func NewClientRepository(db *mongo.Database, metrics *telemetry.Metrics) *ClientRepository {
	return &ClientRepository{c: newCollection[models.Client](db, config.ClientsCollection, metrics)}
}

func (r *ClientRepository) List(ctx context.Context, includeInactive bool) ([]models.Client, error) {
	return r.c.find(ctx, activeFilter(includeInactive), ClientSort)
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*models.Client, error) {
	return r.c.findByID(ctx, id)
}

func (r *ClientRepository) Create(ctx context.Context, client *models.Client) error {
	id, err := r.c.insert(ctx, client)
	if err != nil {
		return err
	}
	client.ID = id
	return nil
}

func (r *ClientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.c.set(ctx, client.ID, bson.M{
		"name":        client.Name,
		"logo":        client.Logo,
		"website":     client.Website,
		"description": client.Description,
		"is_active":   client.IsActive,
		"updated_at":  client.UpdatedAt,
	})
}

func (r *ClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, id)
}
