package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/item-catalog/backend/internal/models"
)

const testSecret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	p := NewJWTProvider(testSecret)
	token, err := p.Sign(models.Identity{
		ID:           "user-1",
		Email:        "a@example.com",
		UserMetadata: map[string]any{"name": "Ada"},
	}, time.Hour)
	require.NoError(t, err)

	identity, err := p.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "a@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.UserMetadata["name"])
	assert.Nil(t, identity.CreatedAt)
}

func TestJWTCarriesAccountCreationTime(t *testing.T) {
	p := NewJWTProvider(testSecret)
	created := time.Date(2023, 7, 14, 9, 30, 0, 0, time.UTC)
	token, err := p.Sign(models.Identity{ID: "user-1", CreatedAt: &created}, time.Hour)
	require.NoError(t, err)

	identity, err := p.Verify(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, identity.CreatedAt)
	assert.True(t, created.Equal(*identity.CreatedAt))

	external, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        "user-2",
		"exp":        time.Now().Add(time.Hour).Unix(),
		"created_at": created.Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	identity, err = p.Verify(context.Background(), external)
	require.NoError(t, err)
	require.NotNil(t, identity.CreatedAt)
	assert.True(t, created.Equal(*identity.CreatedAt))
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTProvider("other-secret").Sign(models.Identity{ID: "user-1"}, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTProvider(testSecret).Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	p := NewJWTProvider(testSecret)
	token, err := p.Sign(models.Identity{ID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = p.Verify(context.Background(), token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTRejectsMissingSubjectAndExpiry(t *testing.T) {
	p := NewJWTProvider(testSecret)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = p.Verify(context.Background(), noSub)
	assert.Error(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = p.Verify(context.Background(), noExp)
	assert.Error(t, err)
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTProvider(testSecret).Verify(context.Background(), token)
	assert.Error(t, err)
}
