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

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(services *service.Services, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		services: services,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// CreateProfile handles POST /api/profile
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("Unreadable profile body")
		respondError(c, h.log, errs.InvalidInput(errs.MsgInvalidUsername, []errs.FieldError{
			{Field: "username", Message: "username must be a string"},
		}))
		return
	}

	if err := h.services.Profile.Create(c.Request.Context(), auth.FromContext(c), &req); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
