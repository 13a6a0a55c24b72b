package api

import (
	"net/http"

	"github.com/comments-api/internal/auth"
	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// ListComments handles GET /api/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	comments, err := h.services.Comment.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles POST /api/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	caller := auth.FromContext(c)

	// An anonymous caller gets 401 even when the body is unreadable,
	// so a bind error only counts once the caller is known
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil && caller != nil {
		h.log.Debug().Err(err).Msg("Unreadable comment body")
		respondError(c, h.log, errs.InvalidInput(errs.MsgInvalidContent, []errs.FieldError{
			{Field: "content", Message: "content must be a string"},
		}))
		return
	}

	if err := h.services.Comment.Create(c.Request.Context(), caller, &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
