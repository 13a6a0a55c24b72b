package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/comments-api/internal/auth"
	"github.com/comments-api/internal/errs"
	"github.com/comments-api/internal/mocks"
	"github.com/comments-api/internal/models"
	"github.com/comments-api/internal/repository"
	"github.com/comments-api/internal/service"
	"github.com/rs/zerolog"
)

const (
	u1 = "11111111-1111-4111-8111-111111111111"
	u2 = "22222222-2222-4222-8222-222222222222"
)

type testHarness struct {
	services    *service.Services
	repos       *repository.Repositories
	commentRepo *mocks.MockCommentRepository
	profileRepo *mocks.MockProfileRepository
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	repos, comments, profiles := mocks.NewMockRepositories()
	return &testHarness{
		services:    service.NewServices(repos, zerolog.Nop()),
		repos:       repos,
		commentRepo: comments,
		profileRepo: profiles,
	}
}

func caller(id string) *auth.Identity {
	return &auth.Identity{ID: id}
}

func assertKind(t *testing.T, err error, kind errs.Kind, status int) *errs.Error {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected %s error, got nil", kind)
	}
	e := errs.From(err)
	if e.Kind != kind {
		t.Fatalf("Expected kind %s, got %s (%v)", kind, e.Kind, err)
	}
	if e.Status != status {
		t.Errorf("Expected status %d, got %d", status, e.Status)
	}
	return e
}

func TestCommentService_CreateAndList(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	if err := h.services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice"}); err != nil {
		t.Fatalf("profile setup failed: %v", err)
	}

	for _, n := range []int{1, 250, 500} {
		content := strings.Repeat("ã", n)
		if err := h.services.Comment.Create(ctx, caller(u1), &models.CreateCommentRequest{Content: content}); err != nil {
			t.Fatalf("Create with %d characters failed: %v", n, err)
		}

		comments, err := h.services.Comment.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		newest := comments[0]
		if newest.Content != content {
			t.Errorf("Expected newest comment to have %d characters, got %d", n, len([]rune(newest.Content)))
		}
		if newest.Profiles == nil || newest.Profiles.Username != "alice" {
			t.Errorf("Expected author alice, got %+v", newest.Profiles)
		}
	}
}

func TestCommentService_Create_Validation(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	for _, content := range []string{"", strings.Repeat("x", 501)} {
		err := h.services.Comment.Create(ctx, caller(u1), &models.CreateCommentRequest{Content: content})
		e := assertKind(t, err, errs.KindInvalidInput, http.StatusBadRequest)
		if e.Message != errs.MsgInvalidContent {
			t.Errorf("Expected message %q, got %q", errs.MsgInvalidContent, e.Message)
		}
	}

	if len(h.commentRepo.Comments) != 0 {
		t.Errorf("Expected no inserts, got %d", len(h.commentRepo.Comments))
	}
}

func TestCommentService_Create_Unauthenticated(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	// The caller is checked first, whatever the content
	for _, content := range []string{"hi", "", strings.Repeat("x", 501)} {
		err := h.services.Comment.Create(ctx, nil, &models.CreateCommentRequest{Content: content})
		e := assertKind(t, err, errs.KindUnauthorized, http.StatusUnauthorized)
		if e.Message != errs.MsgUnauthenticated {
			t.Errorf("Expected message %q, got %q", errs.MsgUnauthenticated, e.Message)
		}
	}
}

func TestCommentService_Create_StoreRejects(t *testing.T) {
	h := newTestHarness(t)

	// u2 has no profile, so the foreign key rejects the insert
	err := h.services.Comment.Create(context.Background(), caller(u2), &models.CreateCommentRequest{Content: "hi"})
	e := assertKind(t, err, errs.KindStoreFailure, http.StatusBadRequest)

	if !strings.Contains(e.Message, "comments_user_id_fkey") {
		t.Errorf("Expected the store's message to reach the client, got %q", e.Message)
	}
}

func TestCommentService_Create_ConnectionFailure(t *testing.T) {
	h := newTestHarness(t)
	h.commentRepo.Profiles = nil
	h.commentRepo.InsertError = errors.New("dial tcp: connection refused")

	err := h.services.Comment.Create(context.Background(), caller(u1), &models.CreateCommentRequest{Content: "hi"})
	e := assertKind(t, err, errs.KindInternal, http.StatusInternalServerError)

	if strings.Contains(e.Message, "connection refused") {
		t.Errorf("Internal errors must not expose their cause, got %q", e.Message)
	}
}

func TestCommentService_List_Empty(t *testing.T) {
	h := newTestHarness(t)

	comments, err := h.services.Comment.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if comments == nil {
		t.Fatal("Expected an empty slice, got nil")
	}
	if len(comments) != 0 {
		t.Errorf("Expected 0 comments, got %d", len(comments))
	}
}

func TestCommentService_List_NewestFirst(t *testing.T) {
	h := newTestHarness(t)
	h.profileRepo.Create(context.Background(), &models.Profile{ID: u1, Username: "alice"})

	t1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	// Seeded out of order on purpose
	h.commentRepo.Seed(u1, "second", t2)
	h.commentRepo.Seed(u1, "third", t3)
	h.commentRepo.Seed(u1, "first", t1)

	comments, err := h.services.Comment.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(comments) != len(want) {
		t.Fatalf("Expected %d comments, got %d", len(want), len(comments))
	}
	for i, content := range want {
		if comments[i].Content != content {
			t.Errorf("Position %d: expected %q, got %q", i, content, comments[i].Content)
		}
	}
}

func TestCommentService_List_StoreFailure(t *testing.T) {
	h := newTestHarness(t)
	h.commentRepo.ListError = errors.New(`relation "comments" does not exist`)

	comments, err := h.services.Comment.List(context.Background())
	if comments != nil {
		t.Errorf("Expected no comments, got %v", comments)
	}
	e := assertKind(t, err, errs.KindStoreFailure, http.StatusInternalServerError)
	if e.Message != errs.MsgListCommentsFailed {
		t.Errorf("Expected generic message, got %q", e.Message)
	}
}

func TestProfileService_Scenario(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	if err := h.services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice"}); err != nil {
		t.Fatalf("first profile should succeed: %v", err)
	}

	err := h.services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice"})
	e := assertKind(t, err, errs.KindConflict, http.StatusBadRequest)
	if e.Message != "Perfil já existe" {
		t.Errorf("Expected 'Perfil já existe', got %q", e.Message)
	}

	err = h.services.Profile.Create(ctx, caller(u2), &models.CreateProfileRequest{Username: "alice"})
	e = assertKind(t, err, errs.KindConflict, http.StatusBadRequest)
	if e.Message != "Nome de usuário já está em uso" {
		t.Errorf("Expected 'Nome de usuário já está em uso', got %q", e.Message)
	}

	if err := h.services.Profile.Create(ctx, caller(u2), &models.CreateProfileRequest{Username: "bob"}); err != nil {
		t.Fatalf("bob should succeed: %v", err)
	}

	if n, _ := h.services.Profile.Count(ctx); n != 2 {
		t.Errorf("Expected 2 profiles, got %d", n)
	}
}

func TestProfileService_SecondProfileWithNewName(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	h.services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice"})

	err := h.services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice2"})
	e := assertKind(t, err, errs.KindConflict, http.StatusBadRequest)
	if e.Message != errs.MsgProfileExists {
		t.Errorf("Expected %q, got %q", errs.MsgProfileExists, e.Message)
	}
}

func TestProfileService_ValidationBeforeAuth(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		caller   *auth.Identity
		username string
		kind     errs.Kind
		status   int
	}{
		{"too short, anonymous", nil, "ab", errs.KindInvalidInput, http.StatusBadRequest},
		{"too long, anonymous", nil, strings.Repeat("a", 51), errs.KindInvalidInput, http.StatusBadRequest},
		{"too short, authenticated", caller(u1), "ab", errs.KindInvalidInput, http.StatusBadRequest},
		{"valid, anonymous", nil, "alice", errs.KindUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.services.Profile.Create(ctx, tt.caller, &models.CreateProfileRequest{Username: tt.username})
			assertKind(t, err, tt.kind, tt.status)
		})
	}

	if h.profileRepo.LookupCalls != 0 || h.profileRepo.CreateCalls != 0 {
		t.Errorf("Expected no store access, got %d lookups and %d creates",
			h.profileRepo.LookupCalls, h.profileRepo.CreateCalls)
	}
}

func TestProfileService_LookupFailure(t *testing.T) {
	h := newTestHarness(t)
	h.profileRepo.LookupError = errors.New("timeout")

	err := h.services.Profile.Create(context.Background(), caller(u1), &models.CreateProfileRequest{Username: "alice"})
	e := assertKind(t, err, errs.KindStoreFailure, http.StatusInternalServerError)
	if e.Message != errs.MsgProfileLookupFailed {
		t.Errorf("Expected generic lookup message, got %q", e.Message)
	}
	if h.profileRepo.CreateCalls != 0 {
		t.Error("Insert must not run after a failed lookup")
	}
}

// racingProfileRepo lets another caller claim the username between the
// uniqueness check and the insert
type racingProfileRepo struct {
	*mocks.MockProfileRepository
	rivalID string
}

func (r *racingProfileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	taken, err := r.MockProfileRepository.UsernameExists(ctx, username)
	if err != nil || taken {
		return taken, err
	}
	r.MockProfileRepository.Create(ctx, &models.Profile{ID: r.rivalID, Username: username})
	return false, nil
}

func TestProfileService_RaceBackstop(t *testing.T) {
	profiles := mocks.NewMockProfileRepository()
	repos := &repository.Repositories{
		Comment: mocks.NewMockCommentRepository(profiles),
		Profile: &racingProfileRepo{MockProfileRepository: profiles, rivalID: u2},
	}
	services := service.NewServices(repos, zerolog.Nop())

	err := services.Profile.Create(context.Background(), caller(u1), &models.CreateProfileRequest{Username: "alice"})
	e := assertKind(t, err, errs.KindStoreFailure, http.StatusBadRequest)
	if !strings.Contains(e.Message, "profiles_username_key") {
		t.Errorf("Expected unique violation from the store, got %q", e.Message)
	}
	if owner := profiles.Usernames["alice"]; owner != u2 {
		t.Errorf("Expected the rival to own the username, got %q", owner)
	}
}

func TestProfileService_ConcurrentSameUsername(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("00000000-0000-4000-8000-%012d", i)
			err := h.services.Profile.Create(ctx, caller(id), &models.CreateProfileRequest{Username: "popular"})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if e := errs.From(err); e.Status != http.StatusBadRequest {
				t.Errorf("Expected 400 for the losers, got %d (%v)", e.Status, err)
			}
		}(i)
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("Expected exactly one caller to claim the username, got %d", successes)
	}
}

func TestProfileService_ExistingProfileLogsUsername(t *testing.T) {
	repos, _, profiles := mocks.NewMockRepositories()
	var buf bytes.Buffer
	services := service.NewServices(repos, zerolog.New(&buf))
	ctx := context.Background()

	if err := services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice"}); err != nil {
		t.Fatalf("first profile should succeed: %v", err)
	}
	lookups := profiles.LookupCalls

	err := services.Profile.Create(ctx, caller(u1), &models.CreateProfileRequest{Username: "alice2"})
	assertKind(t, err, errs.KindConflict, http.StatusBadRequest)

	if !strings.Contains(buf.String(), `"existing_username":"alice"`) {
		t.Errorf("Expected existing username in log, got %s", buf.String())
	}
	// Exists then GetByID; the username lookup is skipped
	if got := profiles.LookupCalls - lookups; got != 2 {
		t.Errorf("Expected 2 lookups, got %d", got)
	}
	if profiles.CreateCalls != 1 {
		t.Errorf("Expected no second insert, got %d inserts", profiles.CreateCalls)
	}
}
