package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/models"
	"github.com/ayush/item-catalog/backend/internal/respond"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

// Handler holds the catalog HTTP handlers.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type listResponse struct {
	Data       []models.Item     `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// List serves GET /api/items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseItemQuery(r.URL.Query())
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Data: page.Items, Pagination: page.Pagination})
}

// Create serves POST /api/items. It must run behind RequireAuth.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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
	item, err := ParseNewItem(body, identity.ID)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	created, err := h.svc.Create(r.Context(), item)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusCreated, created.View())
}

func (h *Handler) ItemTypes(w http.ResponseWriter, r *http.Request) {
	h.lookups(w, r, ItemTypes)
}

func (h *Handler) Rarities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Rarities(r.Context())
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusOK, rows)
}

func (h *Handler) Materials(w http.ResponseWriter, r *http.Request) {
	h.lookups(w, r, Materials)
}

func (h *Handler) lookups(w http.ResponseWriter, r *http.Request, kind LookupKind) {
	rows, err := h.svc.Lookups(r.Context(), kind)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusOK, rows)
}

// Health serves GET /api/health.
func Health(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
