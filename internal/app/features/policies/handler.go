// internal/app/features/policies/handler.go
package policies

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	policystore "github.com/anvarov/qmshub/internal/app/store/policies"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *policystore.Store
	Log   *zap.Logger
}

func NewHandler(store *policystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type policyRequest struct {
	Title          string     `json:"title" validate:"required,max=300"`
	ISOClause      string     `json:"iso_clause" validate:"omitempty,oneof=4 5 6 7 8 9 10"`
	Content        string     `json:"content" validate:"omitempty,max=50000"`
	ApprovalDate   *time.Time `json:"approval_date"`
	NextReviewDate *time.Time `json:"next_review_date"`
	Status         string     `json:"status" validate:"omitempty,max=50"`
}

// Create handles POST /policies.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req policyRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Policy{
		OrganizationID: orgID,
		Title:          sanitize.Text(req.Title, 300),
		ISOClause:      req.ISOClause,
		Content:        sanitize.Text(req.Content, 50000),
		ApprovalDate:   req.ApprovalDate,
		NextReviewDate: req.NextReviewDate,
		Status:         req.Status,
	})
	if err != nil {
		h.Log.Error("policy create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create policy")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "policy": created})
}

// List handles GET /policies with an optional iso_clause filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if clause := r.URL.Query().Get("iso_clause"); clause != "" {
		filter["iso_clause"] = clause
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "iso_clause", Value: 1}, {Key: "title", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	policies, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("policy list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list policies")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list policies")
		return
	}
	httpjson.List(w, policies, total, page.Skip, page.Limit)
}

// Get handles GET /policies/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "policy": policy})
}

// Update handles PUT /policies/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.load(w, r)
	if !ok {
		return
	}

	var req policyRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), policy.ID, models.Policy{
		Title:          sanitize.Text(req.Title, 300),
		ISOClause:      req.ISOClause,
		Content:        sanitize.Text(req.Content, 50000),
		ApprovalDate:   req.ApprovalDate,
		NextReviewDate: req.NextReviewDate,
		Status:         req.Status,
	})
	if err != nil {
		h.Log.Error("policy update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update policy")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), policy.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update policy")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "policy": updated})
}

// Delete handles DELETE /policies/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	policy, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), policy.ID); err != nil {
		h.Log.Error("policy delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete policy")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Policy, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid policy id")
		return models.Policy{}, false
	}
	policy, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "policy")
			return models.Policy{}, false
		}
		h.Log.Error("policy load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load policy")
		return models.Policy{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || policy.OrganizationID != orgID {
		httpjson.NotFound(w, "policy")
		return models.Policy{}, false
	}
	return policy, true
}
