package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediscanner/internal/db"
	apperrors "mediscanner/internal/errors"
	"mediscanner/internal/model"
	"mediscanner/internal/query"
)

// StatsBucket is one group produced by a stats aggregation.
type StatsBucket struct {
	Key   string `json:"key" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// RecordRepository defines persistence operations over prescription records.
// Every lookup and mutation is scoped to the owning user.
type RecordRepository interface {
	Create(ctx context.Context, record *model.MedicalRecord) error
	FindByID(ctx context.Context, ownerID, id primitive.ObjectID) (*model.MedicalRecord, error)
	List(ctx context.Context, q *query.ListQuery) ([]model.MedicalRecord, int64, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, update bson.M) (*model.MedicalRecord, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]StatsBucket, error)
}

type recordRepository struct {
	collection *mongo.Collection
}

// NewRecordRepository builds a Mongo-backed record repository.
func NewRecordRepository(database *mongo.Database) RecordRepository {
	return &recordRepository{collection: database.Collection(db.RecordsCollection)}
}

func (r *recordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

func (r *recordRepository) FindByID(ctx context.Context, ownerID, id primitive.ObjectID) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) List(ctx context.Context, q *query.ListQuery) ([]model.MedicalRecord, int64, error) {
	total, err := r.collection.CountDocuments(ctx, q.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	opts := options.Find().SetSort(q.Sort).SetSkip(q.Skip).SetLimit(q.Limit)
	cursor, err := r.collection.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer cursor.Close(ctx)

	records := []model.MedicalRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}
	return records, total, nil
}

func (r *recordRepository) Update(ctx context.Context, ownerID, id primitive.ObjectID, update bson.M) (*model.MedicalRecord, error) {
	// Ownership is immutable; the filter pins userId and the update never sets it.
	delete(update, "userId")
	delete(update, "_id")
	update["updatedAt"] = time.Now().UTC()

	var record model.MedicalRecord
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "userId": ownerID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]StatsBucket, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate records: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []StatsBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("decode aggregation: %w", err)
	}
	return buckets, nil
}
