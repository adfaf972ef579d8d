// internal/app/features/policies/routes.go
package policies

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermViewDocuments, authz.PermCreatePolicy, authz.PermEditPolicy))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermCreatePolicy))
		r.Post("/", h.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermEditPolicy))
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
