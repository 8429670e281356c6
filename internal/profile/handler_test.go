package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/models"
)

// memStore is an in-memory Store.
type memStore struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile
	err      error
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]models.UserProfile{}}
}

func (s *memStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) UpsertProfile(_ context.Context, userID string, username *string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[userID]
	if !ok {
		p = models.UserProfile{UserID: userID, CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	}
	p.Username = username
	s.profiles[userID] = p
	return &p, nil
}

func request(method, body string, identity *models.Identity) *http.Request {
	r := httptest.NewRequest(method, "/api/me", strings.NewReader(body))
	if identity != nil {
		r = r.WithContext(auth.WithIdentity(r.Context(), identity))
	}
	return r
}

func TestGetWithoutProfile(t *testing.T) {
	h := NewHandler(NewService(newMemStore()), zap.NewNop())
	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "", &models.Identity{ID: "u1", Email: "neo@example.com"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{
		"id":"u1","email":"neo@example.com","username":null,"profile_created_at":null,
		"user_metadata":{},"app_metadata":{}
	}}`, rec.Body.String())
}

func TestUpdateThenGet(t *testing.T) {
	store := newMemStore()
	h := NewHandler(NewService(store), zap.NewNop())
	identity := &models.Identity{ID: "u1", AppMetadata: map[string]any{"provider": "email"}}

	rec := httptest.NewRecorder()
	h.Update(rec, request(http.MethodPost, `{"username":" neo_1 "}`, identity))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"user_id":"u1","username":"neo_1"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "", identity))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"neo_1"`)
	assert.Contains(t, rec.Body.String(), `"profile_created_at":"2024-01-02T03:04:05Z"`)
	assert.Contains(t, rec.Body.String(), `"app_metadata":{"provider":"email"}`)
}

func TestUpdateNullClearsUsername(t *testing.T) {
	store := newMemStore()
	h := NewHandler(NewService(store), zap.NewNop())
	identity := &models.Identity{ID: "u1"}

	for _, body := range []string{`{"username":"abc"}`, `{"username":null}`} {
		rec := httptest.NewRecorder()
		h.Update(rec, request(http.MethodPost, body, identity))
		require.Equal(t, http.StatusOK, rec.Code, body)
	}
	assert.Nil(t, store.profiles["u1"].Username)

	rec := httptest.NewRecorder()
	h.Update(rec, request(http.MethodPost, `{}`, identity))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"user_id":"u1","username":null}}`, rec.Body.String())
}

func TestUpdateRejects(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"username":"ab"}`, "username must be between 3 and 32 characters"},
		{`{"username":"   "}`, "username cannot be empty"},
		{`{"username":"bad name"}`, "username may only contain letters, numbers, underscores, or hyphens"},
		{`{"username":42}`, "username must be a string or null"},
		{`not json`, "Invalid JSON body"},
		{`"abc"`, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			store := newMemStore()
			h := NewHandler(NewService(store), zap.NewNop())
			rec := httptest.NewRecorder()
			h.Update(rec, request(http.MethodPost, tt.body, &models.Identity{ID: "u1"}))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
			assert.Empty(t, store.profiles)
		})
	}
}

func TestStoreFailures(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection reset")
	h := NewHandler(NewService(store), zap.NewNop())
	identity := &models.Identity{ID: "u1"}

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "", identity))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to load profile"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Update(rec, request(http.MethodPost, `{"username":"abc"}`, identity))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to update profile"}`, rec.Body.String())
}

func TestRequiresIdentity(t *testing.T) {
	h := NewHandler(NewService(newMemStore()), zap.NewNop())

	rec := httptest.NewRecorder()
	h.Get(rec, request(http.MethodGet, "", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, request(http.MethodPost, `{}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
