package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/models"

	sq "github.com/Masterminds/squirrel"
)

// profileRepo is the concrete implementation of ProfileRepository
type profileRepo struct {
	db *database.DB
}

// NewProfileRepo creates a new profile repository
func NewProfileRepo(db *database.DB) ProfileRepository {
	return &profileRepo{db: db}
}

// Create inserts a profile whose id is the owning identity
func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	query, args, err := psql.
		Insert("profiles").
		Columns("id", "username").
		Values(profile.ID, profile.Username).
		ToSql()
	if err != nil {
		return fmt.Errorf("build profile insert: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a profile by ID, or nil when it does not exist
func (r *profileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query, args, err := psql.
		Select("id", "username", "inserted_at").
		From("profiles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	err = r.db.GetContext(ctx, &profile, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Exists checks if a profile with the given ID exists
func (r *profileRepo) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, sq.Eq{"id": id})
}

// UsernameExists checks if any profile already uses username
func (r *profileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, sq.Eq{"username": username})
}

// Count returns the total number of profiles
func (r *profileRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "profiles")
}

func (r *profileRepo) exists(ctx context.Context, pred sq.Eq) (bool, error) {
	query, args, err := psql.
		Select("id").
		From("profiles").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return false, err
	}

	var id string
	err = r.db.GetContext(ctx, &id, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
