package profile

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/respond"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

// Handler serves /api/me. Both methods run behind RequireAuth.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		respond.Error(w, h.log, apperr.Unauthorized())
		return
	}
	me, err := h.svc.Get(r.Context(), identity)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusOK, me)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		respond.Error(w, h.log, apperr.Unauthorized())
		return
	}

	body, err := validate.DecodeRequestObject(w, r)
	if err != nil {
		respond.Error(w, h.log, validate.BodyError(err))
		return
	}
	username, err := ParseUsername(body)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	updated, err := h.svc.Upsert(r.Context(), identity, username)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusOK, updated)
}
