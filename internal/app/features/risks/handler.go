// internal/app/features/risks/handler.go
package risks

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/app/system/scoring"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *riskstore.Store
	Log   *zap.Logger
}

func NewHandler(store *riskstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type riskRequest struct {
	Title          string `json:"title" validate:"required,max=300"`
	Description    string `json:"description" validate:"omitempty,max=5000"`
	Category       string `json:"category" validate:"omitempty,oneof=Safety Environmental Operational Compliance Reputational Financial"`
	Likelihood     int    `json:"likelihood" validate:"required,gte=1,lte=5"`
	Impact         int    `json:"impact" validate:"required,gte=1,lte=5"`
	Owner          string `json:"owner" validate:"omitempty,max=200"`
	MitigationPlan string `json:"mitigation_plan" validate:"omitempty,max=5000"`
}

// Create handles POST /risks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r)
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req riskRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Risk{
		OrganizationID: orgID,
		Title:          sanitize.Text(req.Title, 300),
		Description:    sanitize.Text(req.Description, 5000),
		Category:       req.Category,
		Likelihood:     req.Likelihood,
		Impact:         req.Impact,
		Owner:          sanitize.Text(req.Owner, 200),
		MitigationPlan: sanitize.Text(req.MitigationPlan, 5000),
		CreatedBy:      user.ID,
	})
	if err != nil {
		h.Log.Error("risk create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create risk")
		return
	}

	httpjson.Created(w, map[string]any{
		"status":     "success",
		"risk":       created,
		"risk_level": scoring.RiskLevel(created.RiskScore),
	})
}

// List handles GET /risks with optional status/category filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "risk_score", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	risks, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("risk list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list risks")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		h.Log.Error("risk count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list risks")
		return
	}

	httpjson.List(w, risks, total, page.Skip, page.Limit)
}

// Get handles GET /risks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	risk, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{
		"status":     "success",
		"risk":       risk,
		"risk_level": scoring.RiskLevel(risk.RiskScore),
	})
}

type riskUpdateRequest struct {
	Title          string `json:"title" validate:"omitempty,max=300"`
	Description    string `json:"description" validate:"omitempty,max=5000"`
	Category       string `json:"category" validate:"omitempty,oneof=Safety Environmental Operational Compliance Reputational Financial"`
	Likelihood     int    `json:"likelihood" validate:"omitempty,gte=1,lte=5"`
	Impact         int    `json:"impact" validate:"omitempty,gte=1,lte=5"`
	Status         string `json:"status" validate:"omitempty,oneof=Open Mitigated Closed"`
	Owner          string `json:"owner" validate:"omitempty,max=200"`
	MitigationPlan string `json:"mitigation_plan" validate:"omitempty,max=5000"`
}

// Update handles PUT /risks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	risk, ok := h.load(w, r)
	if !ok {
		return
	}

	var req riskUpdateRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), risk.ID, models.Risk{
		Title:          sanitize.Text(req.Title, 300),
		Description:    sanitize.Text(req.Description, 5000),
		Category:       req.Category,
		Likelihood:     req.Likelihood,
		Impact:         req.Impact,
		Status:         req.Status,
		Owner:          sanitize.Text(req.Owner, 200),
		MitigationPlan: sanitize.Text(req.MitigationPlan, 5000),
	})
	if err != nil {
		h.Log.Error("risk update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update risk")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), risk.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update risk")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "risk": updated})
}

// Delete handles DELETE /risks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	risk, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), risk.ID); err != nil {
		h.Log.Error("risk delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete risk")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

// load fetches the risk from the URL and checks the org boundary.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Risk, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid risk id")
		return models.Risk{}, false
	}
	risk, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "risk")
			return models.Risk{}, false
		}
		h.Log.Error("risk load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load risk")
		return models.Risk{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || risk.OrganizationID != orgID {
		httpjson.NotFound(w, "risk")
		return models.Risk{}, false
	}
	return risk, true
}
