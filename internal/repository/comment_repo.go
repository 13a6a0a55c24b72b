package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/comments-api/internal/database"
	"github.com/comments-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// commentRow is one row of the comments/profiles left join
type commentRow struct {
	ID         string         `db:"id"`
	Content    string         `db:"content"`
	InsertedAt time.Time      `db:"inserted_at"`
	Username   sql.NullString `db:"username"`
}

// Create inserts a comment. The store assigns id and inserted_at, which are
// written back into comment.
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query, args, err := psql.
		Insert("comments").
		Columns("user_id", "content").
		Values(comment.UserID, comment.Content).
		Suffix("RETURNING id, inserted_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build comment insert: %w", err)
	}

	return r.db.QueryRowxContext(ctx, query, args...).Scan(&comment.ID, &comment.InsertedAt)
}

// ListWithAuthors returns every comment, newest first, with the author's
// username. The result is empty, never nil, when there are no comments.
func (r *commentRepo) ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	query, args, err := psql.
		Select("c.id", "c.content", "c.inserted_at", "p.username").
		From("comments c").
		LeftJoin("profiles p ON p.id = c.user_id").
		OrderBy("c.inserted_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build comment list: %w", err)
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	comments := make([]*models.CommentWithAuthor, 0, len(rows))
	for _, row := range rows {
		c := &models.CommentWithAuthor{
			ID:         row.ID,
			Content:    row.Content,
			InsertedAt: row.InsertedAt,
		}
		if row.Username.Valid {
			c.Profiles = &models.CommentAuthor{Username: row.Username.String}
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.db, "comments")
}

func count(ctx context.Context, db *database.DB, table string) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	err = db.GetContext(ctx, &n, query, args...)
	return n, err
}
