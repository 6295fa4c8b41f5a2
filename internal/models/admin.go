package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a back-office account. Email is unique and stored lowercased.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	LastLogin    *time.Time         `bson:"lastLogin" json:"lastLogin"`
	LoginCount   int                `bson:"loginCount" json:"loginCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
