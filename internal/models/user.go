package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account document in the users collection.
type User struct {
	ID        primitive.ObjectID `json:"id"        bson:"_id,omitempty"`
	Name      string             `json:"name"      bson:"name"`
	Email     string             `json:"email"     bson:"email"`
	Password  string             `json:"-"         bson:"password"` // bcrypt hash, never serialized
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SignupRequest is the JSON body for POST /signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}
