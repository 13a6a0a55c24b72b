package models

import (
	"time"
)

// Username length bounds, in characters
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Profile links an identity to its public username
type Profile struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	InsertedAt time.Time `json:"inserted_at" db:"inserted_at"`
}

// CreateProfileRequest is the body of POST /api/profile
type CreateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}
