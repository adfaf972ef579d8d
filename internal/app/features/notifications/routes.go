// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/domain/models"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/{id}/read", h.MarkRead)
	r.Post("/read-all", h.MarkAllRead)
	r.Delete("/{id}", h.Delete)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireRole(models.RoleAdmin))
		r.Post("/", h.Create)
	})

	return r
}
