package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserSession tracks one issued token's lifecycle. LogoutTime is nil while
// the session is active.
type UserSession struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"userId" bson:"userId"`
	TokenID    string             `json:"tokenId" bson:"tokenId"`
	LoginTime  time.Time          `json:"loginTime" bson:"loginTime"`
	LogoutTime *time.Time         `json:"logoutTime,omitempty" bson:"logoutTime,omitempty"`
}
