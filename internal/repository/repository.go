package repository

import (
	"context"

	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error)
	Count(ctx context.Context) (int, error)
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Exists(ctx context.Context, id string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
	Profile ProfileRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
		Profile: NewProfileRepo(db),
	}
}
