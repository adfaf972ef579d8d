// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermCreateUser, authz.PermEditUser))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermCreateUser))
		r.Post("/", h.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermEditUser))
		r.Put("/{id}", h.Update)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermDeleteUser))
		r.Delete("/{id}", h.Delete)
	})

	return r
}
