package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Verify interface compliance
var (
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
	_ repository.ProfileRepository = (*MockProfileRepository)(nil)
)

// MockProfileRepository is an in-memory ProfileRepository that enforces the
// same primary key and UNIQUE(username) constraints as the real table
type MockProfileRepository struct {
	mu          sync.Mutex
	Profiles    map[string]*models.Profile
	Usernames   map[string]string
	CreateError error
	LookupError error
	CreateCalls int
	LookupCalls int
}

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		Profiles:  make(map[string]*models.Profile),
		Usernames: make(map[string]string),
	}
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Profiles[profile.ID]; exists {
		return &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "profiles_pkey"`}
	}
	if _, taken := m.Usernames[profile.Username]; taken {
		return &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "profiles_username_key"`}
	}

	stored := *profile
	stored.InsertedAt = time.Now()
	m.Profiles[profile.ID] = &stored
	m.Usernames[profile.Username] = profile.ID
	return nil
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	if m.LookupError != nil {
		return nil, m.LookupError
	}
	return m.Profiles[id], nil
}

func (m *MockProfileRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	if m.LookupError != nil {
		return false, m.LookupError
	}
	_, exists := m.Profiles[id]
	return exists, nil
}

func (m *MockProfileRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LookupCalls++
	if m.LookupError != nil {
		return false, m.LookupError
	}
	_, exists := m.Usernames[username]
	return exists, nil
}

func (m *MockProfileRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Profiles), nil
}

func (m *MockProfileRepository) username(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Profiles[id]
	if !ok {
		return "", false
	}
	return p.Username, true
}

// MockCommentRepository is an in-memory CommentRepository. When Profiles is
// set it enforces the user_id foreign key and resolves usernames from it.
type MockCommentRepository struct {
	mu          sync.Mutex
	Comments    []*models.Comment
	Profiles    *MockProfileRepository
	InsertError error
	ListError   error
	ListCalls   int

	clock time.Time
}

func NewMockCommentRepository(profiles *MockProfileRepository) *MockCommentRepository {
	return &MockCommentRepository{
		Profiles: profiles,
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.Profiles != nil {
		if _, ok := m.Profiles.username(comment.UserID); !ok {
			return &pq.Error{
				Code:    "23503",
				Message: `insert or update on table "comments" violates foreign key constraint "comments_user_id_fkey"`,
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertError != nil {
		return m.InsertError
	}

	// Every insert gets a strictly later timestamp than the previous one
	m.clock = m.clock.Add(time.Second)
	comment.ID = uuid.NewString()
	comment.InsertedAt = m.clock

	stored := *comment
	m.Comments = append(m.Comments, &stored)
	return nil
}

func (m *MockCommentRepository) ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ListCalls++
	if m.ListError != nil {
		return nil, m.ListError
	}

	out := make([]*models.CommentWithAuthor, 0, len(m.Comments))
	for _, c := range m.Comments {
		item := &models.CommentWithAuthor{
			ID:         c.ID,
			Content:    c.Content,
			InsertedAt: c.InsertedAt,
		}
		if m.Profiles != nil {
			if name, ok := m.Profiles.username(c.UserID); ok {
				item.Profiles = &models.CommentAuthor{Username: name}
			}
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InsertedAt.After(out[j].InsertedAt)
	})
	return out, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

// Seed inserts a comment with an explicit timestamp, bypassing the FK check
func (m *MockCommentRepository) Seed(userID, content string, insertedAt time.Time) *models.Comment {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &models.Comment{
		ID:         fmt.Sprintf("seed-%d", len(m.Comments)+1),
		UserID:     userID,
		Content:    content,
		InsertedAt: insertedAt,
	}
	m.Comments = append(m.Comments, c)
	return c
}

// NewMockRepositories wires a profile and comment mock together
func NewMockRepositories() (*repository.Repositories, *MockCommentRepository, *MockProfileRepository) {
	profiles := NewMockProfileRepository()
	comments := NewMockCommentRepository(profiles)
	return &repository.Repositories{Comment: comments, Profile: profiles}, comments, profiles
}
