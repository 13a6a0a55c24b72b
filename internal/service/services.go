package service

import (
	"context"
	"errors"

	"github.com/comments-api/internal/auth"
	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	List(ctx context.Context) ([]*models.CommentWithAuthor, error)
	Create(ctx context.Context, caller *auth.Identity, req *models.CreateCommentRequest) error
	Count(ctx context.Context) (int, error)
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	Create(ctx context.Context, caller *auth.Identity, req *models.CreateProfileRequest) error
	Count(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Comment CommentService
	Profile ProfileService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	return &Services{
		Comment: newCommentService(repos, log),
		Profile: newProfileService(repos, log),
	}
}

// storeWriteError classifies a failed insert. Errors reported by PostgreSQL
// itself reach the client with the store's message; anything else (lost
// connection, cancelled context) is internal.
func storeWriteError(err error) *errs.Error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return errs.StoreWrite(pqErr.Message, err)
	}
	return errs.Internal(err)
}
