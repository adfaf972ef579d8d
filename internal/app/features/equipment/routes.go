// internal/app/features/equipment/routes.go
package equipment

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermViewDocuments, authz.PermEditDocument, authz.PermManageCompliance))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermEditDocument, authz.PermManageCompliance))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
