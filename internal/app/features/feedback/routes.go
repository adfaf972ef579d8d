// internal/app/features/feedback/routes.go
package feedback

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermViewReports))
		r.Get("/", h.List)
		r.Get("/sentiment-summary", h.SentimentSummary)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermManageSuppliers, authz.PermManageCompliance))
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
