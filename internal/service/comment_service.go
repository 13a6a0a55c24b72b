package service

import (
	"context"

	"github.com/comments-api/internal/auth"
	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/metrics"
	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/comments-api/internal/validation"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newCommentService creates a new CommentService
func newCommentService(repos *repository.Repositories, log zerolog.Logger) *commentService {
	return &commentService{
		repos: repos,
		log:   log.With().Str("service", "comment").Logger(),
	}
}

// List returns all comments, newest first, with their author's username
func (s *commentService) List(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	comments, err := s.repos.Comment.ListWithAuthors(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list comments")
		return nil, errs.StoreRead(errs.MsgListCommentsFailed, err)
	}
	return comments, nil
}

// Create posts a comment as caller. The caller is checked before the content.
func (s *commentService) Create(ctx context.Context, caller *auth.Identity, req *models.CreateCommentRequest) error {
	if caller == nil {
		return errs.Unauthorized()
	}
	if err := validation.CreateComment(req); err != nil {
		return err
	}

	comment := &models.Comment{
		UserID:  caller.ID,
		Content: req.Content,
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		s.log.Error().Err(err).Str("user_id", caller.ID).Msg("Failed to insert comment")
		return storeWriteError(err)
	}

	metrics.CommentsCreated.Inc()
	s.log.Info().
		Str("comment_id", comment.ID).
		Str("user_id", caller.ID).
		Int("length", len([]rune(comment.Content))).
		Msg("Comment created")

	return nil
}

// Count returns the number of stored comments
func (s *commentService) Count(ctx context.Context) (int, error) {
	return s.repos.Comment.Count(ctx)
}
