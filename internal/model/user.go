package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered user document.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Age          int                `json:"age" bson:"age"`
	MobileNumber string             `json:"mobileNumber" bson:"mobileNumber"`
	Photo        string             `json:"photo,omitempty" bson:"photo,omitempty"`
	PasswordHash string             `json:"-" bson:"passwordHash"` // Never expose in JSON
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
