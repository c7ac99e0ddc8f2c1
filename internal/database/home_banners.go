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

// DisplayOrderSort is shared by banners and home images: explicit order first,
// newest first among equal orders.
var DisplayOrderSort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}

type HomeBannerRepository struct {
	c collection[models.HomeBanner]
}

func NewHomeBannerRepository(db *mongo.Database, metrics *telemetry.Metrics) *HomeBannerRepository {
	return &HomeBannerRepository{c: newCollection[models.HomeBanner](db, config.HomeBannersCollection, metrics)}
}

func (r *HomeBannerRepository) List(ctx context.Context, includeInactive bool) ([]models.HomeBanner, error) {
	return r.c.find(ctx, activeFilter(includeInactive), DisplayOrderSort)
}

func (r *HomeBannerRepository) Get(ctx context.Context, id string) (*models.HomeBanner, error) {
	return r.c.findByID(ctx, id)
}

func (r *HomeBannerRepository) Create(ctx context.Context, banner *models.HomeBanner) error {
	id, err := r.c.insert(ctx, banner)
	if err != nil {
		return err
	}
	banner.ID = id
	return nil
}

func (r *HomeBannerRepository) Update(ctx context.Context, banner *models.HomeBanner) error {
	return r.c.set(ctx, banner.ID, bson.M{
		"title":      banner.Title,
		"image":      banner.Image,
		"order":      banner.Order,
		"is_active":  banner.IsActive,
		"updated_at": banner.UpdatedAt,
	})
}

func (r *HomeBannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, id)
}
