// internal/app/features/configinfo/routes.go
package configinfo

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the /config endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/iso-clauses", h.ServeISOClauses)
	r.Get("/rbac", h.ServeRBAC)
	r.Get("/features", h.ServeFeatures)
	return r
}
