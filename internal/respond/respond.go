// Package respond writes the JSON envelopes shared by every endpoint.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
)

// BearerChallenge is advertised on every 401.
const BearerChallenge = `Bearer realm="item-catalog"`

// SetBaseHeaders sets the headers every response carries.
func SetBaseHeaders(h http.Header) {
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Cache-Control", "no-store")
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	SetBaseHeaders(w.Header())
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

// Data wraps v as {"data": v}.
func Data(w http.ResponseWriter, status int, v any) {
	JSON(w, status, map[string]any{"data": v})
}

// Error maps err to its status and writes {"error": message}. Only the
// public message reaches the client; the cause is logged.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindUnauthorized:
		w.Header().Set("WWW-Authenticate", BearerChallenge)
	case apperr.KindUpstream, apperr.KindConfiguration:
		if log != nil {
			log.Error("request failed", zap.Stringer("kind", kind), zap.Error(err))
		}
	}
	JSON(w, kind.Status(), map[string]string{"error": apperr.PublicMessage(err)})
}
