package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	UsersCollection    = "users"
	RecordsCollection  = "medical_records"
	SessionsCollection = "user_sessions"
)

// NewMongo connects to MongoDB and returns the application database handle.
func NewMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(database), nil
}

// EnsureIndexes creates the uniqueness and lookup indexes the queries rely on.
// Safe to run at every startup; Mongo treats existing indexes as a no-op.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "mobileNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := database.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	records := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "doctorName", Value: 1}}},
		{Keys: bson.D{{Key: "hospitalName", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "medicines.name", Value: 1}}},
	}
	if _, err := database.Collection(RecordsCollection).Indexes().CreateMany(ctx, records); err != nil {
		return fmt.Errorf("create record indexes: %w", err)
	}

	sessions := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "tokenId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "loginTime", Value: -1}}},
	}
	if _, err := database.Collection(SessionsCollection).Indexes().CreateMany(ctx, sessions); err != nil {
		return fmt.Errorf("create session indexes: %w", err)
	}

	return nil
}
