package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/respond"
)

// RequireAuth resolves the bearer credential and injects the identity into
// the request context. Failures end the request with 401 and a challenge.
func RequireAuth(gate *auth.Gate, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authenticate(r)
			if err != nil {
				respond.Error(w, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}
