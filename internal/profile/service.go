package profile

import (
	"context"
	"time"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/models"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 32
)

// Store persists one profile per identity. GetProfile returns (nil, nil)
// when the identity has no profile yet.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, userID string, username *string) (*models.UserProfile, error)
}

// Me is the caller's identity merged with their profile.
type Me struct {
	ID               string         `json:"id"`
	Email            string         `json:"email,omitempty"`
	Username         *string        `json:"username"`
	ProfileCreatedAt *time.Time     `json:"profile_created_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
	AppMetadata      map[string]any `json:"app_metadata"`
	CreatedAt        *time.Time     `json:"created_at,omitempty"`
}

// Updated is the result of an upsert.
type Updated struct {
	UserID   string  `json:"user_id"`
	Username *string `json:"username"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ParseUsername validates the username field of an update. An absent or
// null value clears the username.
func ParseUsername(body map[string]any) (*string, error) {
	return validate.IdentifierToken("username", body["username"], usernameMinLen, usernameMaxLen)
}

// Get loads the profile of identity and merges it into one view.
func (s *Service) Get(ctx context.Context, identity *models.Identity) (Me, error) {
	p, err := s.store.GetProfile(ctx, identity.ID)
	if err != nil {
		return Me{}, apperr.Upstream("Failed to load profile", err)
	}

	me := Me{
		ID:           identity.ID,
		Email:        identity.Email,
		UserMetadata: orEmpty(identity.UserMetadata),
		AppMetadata:  orEmpty(identity.AppMetadata),
		CreatedAt:    identity.CreatedAt,
	}
	if p != nil {
		me.Username = p.Username
		created := p.CreatedAt
		me.ProfileCreatedAt = &created
	}
	return me, nil
}

// Upsert creates or replaces the profile of identity.
func (s *Service) Upsert(ctx context.Context, identity *models.Identity, username *string) (Updated, error) {
	p, err := s.store.UpsertProfile(ctx, identity.ID, username)
	if err != nil {
		return Updated{}, apperr.Upstream("Failed to update profile", err)
	}
	if p == nil {
		return Updated{}, apperr.Upstream("Failed to update profile", nil)
	}
	return Updated{UserID: p.UserID, Username: p.Username}, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
