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

// profileService is the concrete implementation of ProfileService
type profileService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newProfileService creates a new ProfileService
func newProfileService(repos *repository.Repositories, log zerolog.Logger) *profileService {
	return &profileService{
		repos: repos,
		log:   log.With().Str("service", "profile").Logger(),
	}
}

// Create claims req.Username for caller.
//
// The username is validated before the caller is checked. The two
// uniqueness lookups are not atomic with the insert; the primary key and
// the UNIQUE constraint on username settle concurrent races, and their
// violation comes back as a store error.
func (s *profileService) Create(ctx context.Context, caller *auth.Identity, req *models.CreateProfileRequest) error {
	if err := validation.CreateProfile(req); err != nil {
		return err
	}
	if caller == nil {
		return errs.Unauthorized()
	}

	log := s.log.With().Str("user_id", caller.ID).Str("username", req.Username).Logger()

	exists, err := s.repos.Profile.Exists(ctx, caller.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up profile")
		return errs.StoreRead(errs.MsgProfileLookupFailed, err)
	}
	if exists {
		existing, err := s.repos.Profile.GetByID(ctx, caller.ID)
		if err == nil && existing != nil {
			log = log.With().Str("existing_username", existing.Username).Logger()
		}
		log.Info().Msg("Caller already has a profile")
		return errs.Conflict(errs.MsgProfileExists)
	}

	taken, err := s.repos.Profile.UsernameExists(ctx, req.Username)
	if err != nil {
		log.Error().Err(err).Msg("Failed to look up username")
		return errs.StoreRead(errs.MsgProfileLookupFailed, err)
	}
	if taken {
		return errs.Conflict(errs.MsgUsernameTaken)
	}

	profile := &models.Profile{
		ID:       caller.ID,
		Username: req.Username,
	}
	if err := s.repos.Profile.Create(ctx, profile); err != nil {
		log.Error().Err(err).Msg("Failed to insert profile")
		return storeWriteError(err)
	}

	metrics.ProfilesCreated.Inc()
	log.Info().Msg("Profile created")
	return nil
}

// Count returns the number of stored profiles
func (s *profileService) Count(ctx context.Context) (int, error) {
	return s.repos.Profile.Count(ctx)
}
