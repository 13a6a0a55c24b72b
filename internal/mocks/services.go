package mocks

import (
	"context"
	"net/http"
	"strings"

	"github.com/comments-api/internal/auth"
	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/service"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	ListFunc   func(ctx context.Context) ([]*models.CommentWithAuthor, error)
	CreateFunc func(ctx context.Context, caller *auth.Identity, req *models.CreateCommentRequest) error
	Created    []*models.CreateCommentRequest
	Total      int
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) List(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.CommentWithAuthor{}, nil
}

func (m *MockCommentService) Create(ctx context.Context, caller *auth.Identity, req *models.CreateCommentRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, caller, req)
	}
	m.Created = append(m.Created, req)
	return nil
}

func (m *MockCommentService) Count(ctx context.Context) (int, error) {
	return m.Total, nil
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	CreateFunc func(ctx context.Context, caller *auth.Identity, req *models.CreateProfileRequest) error
	Created    []*models.CreateProfileRequest
	Total      int
}

// Verify interface compliance
var _ service.ProfileService = (*MockProfileService)(nil)

func NewMockProfileService() *MockProfileService {
	return &MockProfileService{}
}

func (m *MockProfileService) Create(ctx context.Context, caller *auth.Identity, req *models.CreateProfileRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, caller, req)
	}
	m.Created = append(m.Created, req)
	return nil
}

func (m *MockProfileService) Count(ctx context.Context) (int, error) {
	return m.Total, nil
}

// MockIdentityProvider resolves callers from a fixed token table.
// A request authenticates with "Authorization: Bearer <token>".
type MockIdentityProvider struct {
	Tokens map[string]*auth.Identity
}

// Verify interface compliance
var _ auth.Provider = (*MockIdentityProvider)(nil)

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{Tokens: make(map[string]*auth.Identity)}
}

// Add registers token as identifying the caller id
func (m *MockIdentityProvider) Add(token, id string) {
	m.Tokens[token] = &auth.Identity{ID: id}
}

func (m *MockIdentityProvider) Identify(r *http.Request) (*auth.Identity, error) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || tok == "" {
		return nil, auth.ErrNoCredentials
	}
	id, ok := m.Tokens[tok]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return id, nil
}
