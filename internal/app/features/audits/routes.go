// internal/app/features/audits/routes.go
package audits

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
		r.Use(authz.RequirePermission(authz.PermCreateAudit))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/findings", h.AddFinding)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
