package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"speshway-platform/internal/telemetry"
)

// ErrNotFound is returned when no document matches an id. Malformed ids are
// reported the same way.
var ErrNotFound = errors.New("document not found")

// ParseID converts a hex id into an ObjectID, mapping bad input to ErrNotFound.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func activeFilter(includeInactive bool) bson.M {
	if includeInactive {
		return bson.M{}
	}
	return bson.M{"is_active": true}
}

// collection wraps a mongo collection with typed decoding and operation metrics.
type collection[T any] struct {
	col     *mongo.Collection
	metrics *telemetry.Metrics
}

func newCollection[T any](db *mongo.Database, name string, metrics *telemetry.Metrics) collection[T] {
	return collection[T]{col: db.Collection(name), metrics: metrics}
}

func (c collection[T]) record(op string, err error) {
	c.metrics.RecordDatabaseOperation(op, c.col.Name(), err == nil || errors.Is(err, ErrNotFound))
}

func (c collection[T]) find(ctx context.Context, filter bson.M, sort bson.D) ([]T, error) {
	cursor, err := c.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		c.record("find", err)
		return nil, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	err = cursor.All(ctx, &docs)
	c.record("find", err)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return docs, nil
}

func (c collection[T]) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		c.record("aggregate", err)
		return nil, fmt.Errorf("aggregate %s: %w", c.col.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0)
	err = cursor.All(ctx, &docs)
	c.record("aggregate", err)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return docs, nil
}

func (c collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var doc T
	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = ErrNotFound
	}
	c.record("find_one", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s %s: %w", c.col.Name(), id, err)
	}
	return &doc, nil
}

func (c collection[T]) insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := c.col.InsertOne(ctx, doc)
	c.record("insert", err)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", c.col.Name(), err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected id type %T", c.col.Name(), res.InsertedID)
	}
	return oid, nil
}

func (c collection[T]) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := c.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err == nil && res.MatchedCount == 0 {
		err = ErrNotFound
	}
	c.record("update", err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update %s %s: %w", c.col.Name(), id.Hex(), err)
	}
	return err
}

func (c collection[T]) delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": id})
	if err == nil && res.DeletedCount == 0 {
		err = ErrNotFound
	}
	c.record("delete", err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete %s %s: %w", c.col.Name(), id.Hex(), err)
	}
	return err
}
