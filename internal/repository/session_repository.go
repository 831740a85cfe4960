package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mediscanner/internal/db"
	"mediscanner/internal/model"
)

// SessionRepository records login/logout activity per issued token.
type SessionRepository interface {
	Create(ctx context.Context, session *model.UserSession) error
	CloseByTokenID(ctx context.Context, tokenID string) (bool, error)
	FindActiveByTokenID(ctx context.Context, tokenID string) (*model.UserSession, error)
}

type sessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository builds a Mongo-backed session repository.
func NewSessionRepository(database *mongo.Database) SessionRepository {
	return &sessionRepository{collection: database.Collection(db.SessionsCollection)}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.UserSession) error {
	res, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return nil
}

// CloseByTokenID stamps the logout time on an active session. Returns false
// when no active session matches, which logout treats as already closed.
func (r *sessionRepository) CloseByTokenID(ctx context.Context, tokenID string) (bool, error) {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"tokenId": tokenID, "logoutTime": nil},
		bson.M{"$set": bson.M{"logoutTime": time.Now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("close session: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *sessionRepository) FindActiveByTokenID(ctx context.Context, tokenID string) (*model.UserSession, error) {
	var session model.UserSession
	err := r.collection.FindOne(ctx, bson.M{"tokenId": tokenID, "logoutTime": nil}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}
