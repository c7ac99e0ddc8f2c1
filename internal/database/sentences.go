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

// SentenceSort lists the most recently recorded sentences first.
var SentenceSort = bson.D{{Key: "recorded_at", Value: -1}}

type SentenceRepository struct {
	c collection[models.Sentence]
}

func NewSentenceRepository(db *mongo.Database, metrics *telemetry.Metrics) *SentenceRepository {
	return &SentenceRepository{c: newCollection[models.Sentence](db, config.SentencesCollection, metrics)}
}

func (r *SentenceRepository) List(ctx context.Context) ([]models.Sentence, error) {
	return r.c.find(ctx, bson.M{}, SentenceSort)
}

func (r *SentenceRepository) Get(ctx context.Context, id string) (*models.Sentence, error) {
	return r.c.findByID(ctx, id)
}

func (r *SentenceRepository) Create(ctx context.Context, sentence *models.Sentence) error {
	id, err := r.c.insert(ctx, sentence)
	if err != nil {
		return err
	}
	sentence.ID = id
	return nil
}

func (r *SentenceRepository) Update(ctx context.Context, sentence *models.Sentence) error {
	return r.c.set(ctx, sentence.ID, bson.M{
		"text":       sentence.Text,
		"url":        sentence.URL,
		"timestamp":  sentence.Timestamp,
		"user_agent": sentence.UserAgent,
	})
}

func (r *SentenceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.c.delete(ctx, id)
}
