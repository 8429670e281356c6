package models

import "time"

// Identity is the caller resolved from a bearer credential. It lives for
// one request and is never persisted here.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// UserProfile is the user-owned profile row keyed by identity id.
type UserProfile struct {
	UserID    string    `json:"user_id"   bson:"_id"`
	Username  *string   `json:"username"  bson:"username"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
