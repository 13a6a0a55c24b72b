package models

import (
	"time"
)

// MaxCommentLength is the maximum number of characters in a comment
const MaxCommentLength = 500

// Comment represents a comment row as stored
type Comment struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Content    string    `json:"content" db:"content"`
	InsertedAt time.Time `json:"inserted_at" db:"inserted_at"`
}

// CommentAuthor is the author projection embedded in a listed comment
type CommentAuthor struct {
	Username string `json:"username"`
}

// CommentWithAuthor is a comment joined with its author's username.
// Profiles is nil when the author row cannot be resolved.
type CommentWithAuthor struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	InsertedAt time.Time      `json:"inserted_at"`
	Profiles   *CommentAuthor `json:"profiles"`
}

// CreateCommentRequest is the body of POST /api/comments
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}
