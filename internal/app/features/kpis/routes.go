// internal/app/features/kpis/routes.go
package kpis

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermViewReports))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermManageCompliance, authz.PermEditDocument))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/values", h.RecordValue)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
