package storage

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/respond"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

type Handler struct {
	issuer *Issuer
	log    *zap.Logger
}

func NewHandler(issuer *Issuer, log *zap.Logger) *Handler {
	return &Handler{issuer: issuer, log: log}
}

// UploadURL serves POST /api/upload-url behind RequireAuth. An unreadable
// body is treated as an empty one.
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		respond.Error(w, h.log, apperr.Unauthorized())
		return
	}
	if err := h.issuer.CanUpload(); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	body, _ := validate.DecodeRequestObject(w, r)
	req, err := ParseUploadRequest(body)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	grant, err := h.issuer.UploadGrant(r.Context(), identity.ID, req)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusCreated, grant)
}

// SignImageURL serves POST /api/sign-image-url. It needs no identity and
// signs with the low-privilege credential only.
func (h *Handler) SignImageURL(w http.ResponseWriter, r *http.Request) {
	if err := h.issuer.CanDownload(); err != nil {
		respond.Error(w, h.log, err)
		return
	}

	body, _ := validate.DecodeRequestObject(w, r)
	path, err := ParseObjectPath(body)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}

	grant, err := h.issuer.DownloadGrant(r.Context(), path)
	if err != nil {
		respond.Error(w, h.log, err)
		return
	}
	respond.Data(w, http.StatusOK, grant)
}
