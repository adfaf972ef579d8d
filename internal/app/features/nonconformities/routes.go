// internal/app/features/nonconformities/routes.go
package nonconformities

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermViewDocuments, authz.PermManageCompliance, authz.PermManageRisk))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermManageCompliance, authz.PermManageRisk))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/root-cause", h.SetRootCause)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
