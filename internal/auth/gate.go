package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/models"
)

// Provider resolves a bearer token to an identity. A nil identity with a
// nil error means the token is not recognised.
type Provider interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// Gate turns the Authorization header of a request into an identity.
type Gate struct {
	provider Provider
	log      *zap.Logger
}

func NewGate(provider Provider, log *zap.Logger) *Gate {
	return &Gate{provider: provider, log: log}
}

// Authenticate returns the caller's identity or an unauthorized error.
// Provider failures are logged but never distinguished to the caller.
func (g *Gate) Authenticate(r *http.Request) (*models.Identity, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, apperr.Unauthorized()
	}

	identity, err := g.provider.Verify(r.Context(), token)
	if err != nil {
		g.log.Debug("bearer token rejected", zap.Error(err))
		return nil, apperr.Unauthorized()
	}
	if identity == nil || identity.ID == "" {
		return nil, apperr.Unauthorized()
	}
	return identity, nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

type identityKey struct{}

// WithIdentity stores the resolved identity on the context.
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored by WithIdentity, or nil.
func IdentityFrom(ctx context.Context) *models.Identity {
	identity, _ := ctx.Value(identityKey{}).(*models.Identity)
	return identity
}
