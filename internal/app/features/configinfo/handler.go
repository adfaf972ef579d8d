// internal/app/features/configinfo/handler.go
package configinfo

import (
	"net/http"

	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
)

// ISOClauses maps ISO 9001:2015 clause numbers to their titles.
var ISOClauses = map[string]string{
	"4":  "Context of the Organization",
	"5":  "Leadership",
	"6":  "Planning",
	"7":  "Support",
	"8":  "Operation",
	"9":  "Performance Evaluation",
	"10": "Improvement",
}

// Flags reports which AI agents are enabled. The values come from
// configuration and do not change at runtime.
type Flags struct {
	RiskPrediction        bool
	PredictiveMaintenance bool
	TrainingGapAnalysis   bool
	SupplierEvaluation    bool
	RootCauseAnalysis     bool
}

// Handler serves the read-only configuration endpoints.
type Handler struct {
	Flags Flags
}

func NewHandler(flags Flags) *Handler {
	return &Handler{Flags: flags}
}

// ServeISOClauses handles GET /config/iso-clauses.
func (h *Handler) ServeISOClauses(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, map[string]any{
		"status":      "success",
		"iso_clauses": ISOClauses,
	})
}

// ServeRBAC handles GET /config/rbac, exposing the role → permission map.
func (h *Handler) ServeRBAC(w http.ResponseWriter, r *http.Request) {
	rbac := map[string]any{}
	for _, role := range authz.Roles() {
		rbac[role] = map[string]any{"permissions": authz.Permissions(role)}
	}
	httpjson.OK(w, map[string]any{
		"status": "success",
		"rbac":   rbac,
	})
}

// ServeFeatures handles GET /config/features.
func (h *Handler) ServeFeatures(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, map[string]any{
		"status": "success",
		"features": map[string]bool{
			"risk_prediction":        h.Flags.RiskPrediction,
			"predictive_maintenance": h.Flags.PredictiveMaintenance,
			"training_gap_analysis":  h.Flags.TrainingGapAnalysis,
			"supplier_evaluation":    h.Flags.SupplierEvaluation,
			"root_cause_analysis":    h.Flags.RootCauseAnalysis,
		},
	})
}
