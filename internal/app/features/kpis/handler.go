// internal/app/features/kpis/handler.go
package kpis

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	kpistore "github.com/anvarov/qmshub/internal/app/store/kpis"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *kpistore.Store
	Log   *zap.Logger
}

func NewHandler(store *kpistore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type kpiRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	ISOClause   string   `json:"iso_clause" validate:"omitempty,oneof=4 5 6 7 8 9 10"`
	TargetValue *float64 `json:"target_value"`
	Unit        string   `json:"unit" validate:"omitempty,max=50"`
	Frequency   string   `json:"frequency" validate:"omitempty,oneof=Daily Weekly Monthly Quarterly Annual"`
	Owner       string   `json:"owner" validate:"omitempty,max=200"`
}

// Create handles POST /kpis.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req kpiRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.KPI{
		OrganizationID: orgID,
		Name:           sanitize.Text(req.Name, 200),
		ISOClause:      req.ISOClause,
		TargetValue:    req.TargetValue,
		Unit:           sanitize.Text(req.Unit, 50),
		Frequency:      req.Frequency,
		Owner:          sanitize.Text(req.Owner, 200),
	})
	if err != nil {
		h.Log.Error("kpi create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create KPI")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "kpi": created})
}

// List handles GET /kpis with optional iso_clause/status filters.
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
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	kpis, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("kpi list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list KPIs")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list KPIs")
		return
	}
	httpjson.List(w, kpis, total, page.Skip, page.Limit)
}

// Get handles GET /kpis/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	kpi, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "kpi": kpi})
}

// Update handles PUT /kpis/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	kpi, ok := h.load(w, r)
	if !ok {
		return
	}

	var req kpiRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), kpi.ID, models.KPI{
		Name:        sanitize.Text(req.Name, 200),
		ISOClause:   req.ISOClause,
		TargetValue: req.TargetValue,
		Unit:        sanitize.Text(req.Unit, 50),
		Frequency:   req.Frequency,
		Owner:       sanitize.Text(req.Owner, 200),
	})
	if err != nil {
		h.Log.Error("kpi update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update KPI")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), kpi.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update KPI")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "kpi": updated})
}

type valueRequest struct {
	Value float64 `json:"value"`
}

// RecordValue handles POST /kpis/{id}/values. The tracking status is
// derived from the new value against the target in the store.
func (h *Handler) RecordValue(w http.ResponseWriter, r *http.Request) {
	kpi, ok := h.load(w, r)
	if !ok {
		return
	}

	var req valueRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if err := h.Store.RecordValue(r.Context(), kpi.ID, req.Value); err != nil {
		h.Log.Error("kpi value record failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not record KPI value")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), kpi.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not record KPI value")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "kpi": updated})
}

// Delete handles DELETE /kpis/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	kpi, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), kpi.ID); err != nil {
		h.Log.Error("kpi delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete KPI")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.KPI, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid KPI id")
		return models.KPI{}, false
	}
	kpi, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "KPI")
			return models.KPI{}, false
		}
		h.Log.Error("kpi load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load KPI")
		return models.KPI{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || kpi.OrganizationID != orgID {
		httpjson.NotFound(w, "KPI")
		return models.KPI{}, false
	}
	return kpi, true
}
