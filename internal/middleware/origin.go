package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/respond"
)

const preflightMaxAge = 86400

// OriginPolicy admits or rejects cross-origin callers before anything else
// runs. With no allowed origin configured every caller is admitted and no
// CORS headers are emitted.
type OriginPolicy struct {
	allowed string
	log     *zap.Logger
}

func NewOriginPolicy(allowedOrigin string, log *zap.Logger) *OriginPolicy {
	return &OriginPolicy{allowed: strings.TrimSpace(allowedOrigin), log: log}
}

// Active reports whether origin checking is configured.
func (p *OriginPolicy) Active() bool {
	return p.allowed != ""
}

// Admit sets the stable response headers and decides whether the request
// may proceed. A request without an Origin header is always admitted.
func (p *OriginPolicy) Admit(w http.ResponseWriter, r *http.Request) error {
	h := w.Header()
	respond.SetBaseHeaders(h)
	if !p.Active() {
		return nil
	}
	h.Add("Vary", "Origin")

	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}
	if origin != p.allowed {
		p.log.Warn("blocked cross-origin request", zap.String("origin", origin), zap.String("path", r.URL.Path))
		return apperr.OriginForbidden()
	}
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	return nil
}

// Handler applies Admit to every request.
func (p *OriginPolicy) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := p.Admit(w, r); err != nil {
			respond.Error(w, p.log, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Preflight answers OPTIONS for an endpoint that serves methods. It runs
// behind Handler, so a rejected origin never reaches it.
func Preflight(methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", allow)
		h.Set("Access-Control-Allow-Headers", "authorization,content-type")
		h.Set("Access-Control-Max-Age", strconv.Itoa(preflightMaxAge))
		w.WriteHeader(http.StatusNoContent)
	}
}
