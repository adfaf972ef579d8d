// internal/app/features/training/routes.go
package training

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Every role can review training status.
	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermViewReports))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermEditDocument, authz.PermManageCompliance))
		r.Post("/", h.Create)
		r.Post("/{id}/complete", h.Complete)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
