package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the users collection. The password hash is
// never serialized and is stripped by the service layer before returning.
type User struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	// Favorites holds arrest ids as hex strings, set semantics, no
	// referential integrity (dangling ids are tolerated).
	Favorites []string `bson:"favorites" json:"favorites"`
	// Comments is a best-effort denormalized list of comment ids.
	Comments []string `bson:"comments" json:"comments"`
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when the username is already taken
	ErrUsernameExists = errors.New("username already exists")

	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is the generic authentication failure surfaced
	// to callers. The service reports not-found vs bad-password internally
	// for logging but handlers must collapse both to this.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidPassword is the internal kind for a password mismatch
	ErrInvalidPassword = errors.New("invalid password")
)
