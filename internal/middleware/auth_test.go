package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/models"
	"github.com/ayush/item-catalog/backend/internal/respond"
)

type staticProvider map[string]string

func (p staticProvider) Verify(_ context.Context, token string) (*models.Identity, error) {
	id, ok := p[token]
	if !ok {
		return nil, nil
	}
	return &models.Identity{ID: id}, nil
}

func TestRequireAuth(t *testing.T) {
	gate := auth.NewGate(staticProvider{"good": "user-1"}, zap.NewNop())

	var seen *models.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.IdentityFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireAuth(gate, zap.NewNop())(next)

	req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.ID)

	for _, header := range []string{"", "Basic Zm9vOmJhcg==", "Bearer ", "Bearer bad"} {
		seen = nil
		req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, respond.BearerChallenge, rec.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.Nil(t, seen)
	}
}
