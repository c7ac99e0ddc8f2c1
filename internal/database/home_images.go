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

type HomeImageRepository struct {
	c collection[models.HomeImage]
}

func NewHomeImageRepository(db *mongo.Database, metrics *telemetry.Metrics) *HomeImageRepository {
	return &HomeImageRepository{c: newCollection[models.HomeImage](db, config.HomeImagesCollection, metrics)}
}

// withCreator joins the creating user's public fields into "creator".
func withCreator(match bson.M, sort bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	if len(sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         config.UsersCollection,
			"localField":   "created_by",
			"foreignField": "_id",
			"as":           "creator",
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"creator": bson.M{"$arrayElemAt": bson.A{"$creator", 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"creator.password_hash": 0,
			"creator.role":          0,
		}}},
	)
}

func (r *HomeImageRepository) List(ctx context.Context, includeInactive bool) ([]models.HomeImage, error) {
	return r.c.aggregate(ctx, withCreator(activeFilter(includeInactive), DisplayOrderSort))
}

func (r *HomeImageRepository) Get(ctx context.Context, id string) (*models.HomeImage, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	docs, err := r.c.aggregate(ctx, withCreator(bson.M{"_id": oid}, nil))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return &docs[0], nil
}

func (r *HomeImageRepository) Create(ctx context.Context, image *models.HomeImage) error {
	doc := *image
	doc.Creator = nil
	id, err := r.c.insert(ctx, doc)
	if err != nil {
		return err
	}
	image.ID = id
	return nil
}

func (r *HomeImageRepository) Update(ctx context.Context, image *models.HomeImage) error {
	return r.c.set(ctx, image.ID, bson.M{
		"title":       image.Title,
		"description": image.Description,
		"image":       image.Image,
		"is_active":   image.IsActive,
		"order":       image.Order,
		"updated_at":  image.UpdatedAt,
	})
}

func (r *HomeImageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, id)
}
