// Package server assembles the HTTP routes of the catalog gateway.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ayush/item-catalog/backend/internal/auth"
	"github.com/ayush/item-catalog/backend/internal/catalog"
	"github.com/ayush/item-catalog/backend/internal/middleware"
	"github.com/ayush/item-catalog/backend/internal/profile"
	"github.com/ayush/item-catalog/backend/internal/respond"
	"github.com/ayush/item-catalog/backend/internal/storage"
)

// Deps are the collaborators the router wires together.
type Deps struct {
	Catalog *catalog.Handler
	Profile *profile.Handler
	Storage *storage.Handler
	Gate    *auth.Gate
	Origin  *middleware.OriginPolicy
	Log     *zap.Logger
}

// NewRouter returns the gateway handler. The origin policy runs before
// every route, including unknown ones.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(chimw.Recoverer)
	r.Use(d.Origin.Handler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})

	requireAuth := middleware.RequireAuth(d.Gate, d.Log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", catalog.Health)
		r.Options("/health", middleware.Preflight(http.MethodGet))

		r.Get("/items", d.Catalog.List)
		r.With(requireAuth).Post("/items", d.Catalog.Create)
		r.Options("/items", middleware.Preflight(http.MethodGet, http.MethodPost))

		r.Get("/item-types", d.Catalog.ItemTypes)
		r.Options("/item-types", middleware.Preflight(http.MethodGet))
		r.Get("/materials", d.Catalog.Materials)
		r.Options("/materials", middleware.Preflight(http.MethodGet))
		r.Get("/rarities", d.Catalog.Rarities)
		r.Options("/rarities", middleware.Preflight(http.MethodGet))

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", d.Profile.Get)
			r.Post("/me", d.Profile.Update)
			r.Post("/upload-url", d.Storage.UploadURL)
		})
		r.Options("/me", middleware.Preflight(http.MethodGet, http.MethodPost))
		r.Options("/upload-url", middleware.Preflight(http.MethodPost))

		r.Post("/sign-image-url", d.Storage.SignImageURL)
		r.Options("/sign-image-url", middleware.Preflight(http.MethodPost))
	})

	return r
}
