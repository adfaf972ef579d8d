// internal/app/features/documents/routes.go
package documents

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermViewDocuments, authz.PermCreateDocument, authz.PermEditDocument))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermCreateDocument))
		r.Post("/", h.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermEditDocument))
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	// Status moves need at least submit rights; approval is checked
	// per-request in the handler.
	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermSubmitForApproval, authz.PermApproveDocuments))
		r.Patch("/{id}/status", h.UpdateStatus)
	})

	return r
}
