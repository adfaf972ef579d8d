// internal/app/features/agentapi/routes.go
package agentapi

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermViewReports))
		r.Get("/", h.List)
		r.Get("/logs", h.ListLogs)
		r.Get("/logs/{runID}", h.GetLog)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequirePermission(authz.PermManageAgents))
		r.Post("/run-all", h.RunAll)
		r.Post("/{name}/run", h.Run)
	})

	return r
}
