package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(p *OriginPolicy, h http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/items", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	p.Handler(h).ServeHTTP(rec, req)
	return rec
}

func TestOriginPolicyInactive(t *testing.T) {
	p := NewOriginPolicy("", zap.NewNop())
	rec := serve(p, okHandler, http.MethodGet, "https://anywhere.example.com")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Vary"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginPolicyActive(t *testing.T) {
	p := NewOriginPolicy("https://items.example.com", zap.NewNop())

	t.Run("matching origin is echoed", func(t *testing.T) {
		rec := serve(p, okHandler, http.MethodGet, "https://items.example.com")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://items.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("no origin header passes without cors headers", func(t *testing.T) {
		rec := serve(p, okHandler, http.MethodGet, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("other origin is rejected before the handler", func(t *testing.T) {
		called := false
		h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
		rec := serve(p, h, http.MethodPost, "https://evil.example.com")

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Forbidden origin"}`, rec.Body.String())
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight from other origin is rejected", func(t *testing.T) {
		rec := serve(p, Preflight(http.MethodGet, http.MethodPost), http.MethodOptions, "https://evil.example.com")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestPreflight(t *testing.T) {
	p := NewOriginPolicy("https://items.example.com", zap.NewNop())
	rec := serve(p, Preflight(http.MethodGet, http.MethodPost), http.MethodOptions, "https://items.example.com")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "authorization,content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "https://items.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
