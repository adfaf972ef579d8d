// internal/app/features/assistant/routes.go
package assistant

import (
	"github.com/go-chi/chi/v5"

	"github.com/anvarov/qmshub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermCreateDocument, authz.PermEditDocument))
		r.Post("/documents/{id}/summarize", h.SummarizeDocument)
		r.Post("/documents/{id}/key-points", h.KeyPoints)
		r.Post("/documents/{id}/improve", h.ImproveDocument)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermManageSuppliers, authz.PermManageCompliance))
		r.Post("/feedback/{id}/analyze", h.AnalyzeFeedback)
		r.Post("/feedback/analyze-batch", h.AnalyzeBatch)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAnyPermission(authz.PermManageCompliance, authz.PermCreatePolicy))
		r.Post("/context/pestel", h.PESTEL)
		r.Post("/context/swot", h.SWOT)
		r.Post("/context/tows", h.TOWS)
		r.Post("/compliance/check", h.ComplianceCheck)
		r.Post("/compliance/gaps", h.ComplianceGaps)
	})

	return r
}
