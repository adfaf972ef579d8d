// internal/app/features/nonconformities/handler.go
package nonconformities

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

	ncstore "github.com/anvarov/qmshub/internal/app/store/nonconformities"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *ncstore.Store
	Log   *zap.Logger
}

func NewHandler(store *ncstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type ncRequest struct {
	Title            string     `json:"title" validate:"required,max=300"`
	Description      string     `json:"description" validate:"omitempty,max=5000"`
	Severity         string     `json:"severity" validate:"omitempty,oneof=Minor Major Critical"`
	ReportedBy       string     `json:"reported_by" validate:"omitempty,max=200"`
	CorrectiveAction string     `json:"corrective_action" validate:"omitempty,max=5000"`
	Owner            string     `json:"owner" validate:"omitempty,max=200"`
	DueDate          *time.Time `json:"due_date"`
}

// Create handles POST /non-conformities. The NC number and Open status are
// assigned by the store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req ncRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.NonConformity{
		OrganizationID:   orgID,
		Title:            sanitize.Text(req.Title, 300),
		Description:      sanitize.Text(req.Description, 5000),
		Severity:         req.Severity,
		ReportedBy:       sanitize.Text(req.ReportedBy, 200),
		CorrectiveAction: sanitize.Text(req.CorrectiveAction, 5000),
		Owner:            sanitize.Text(req.Owner, 200),
		DueDate:          req.DueDate,
	})
	if err != nil {
		h.Log.Error("non-conformity create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create non-conformity")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "non_conformity": created})
}

// List handles GET /non-conformities with optional status/severity filters.
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
	if severity := r.URL.Query().Get("severity"); severity != "" {
		filter["severity"] = severity
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "reported_date", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	ncs, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("non-conformity list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list non-conformities")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list non-conformities")
		return
	}
	httpjson.List(w, ncs, total, page.Skip, page.Limit)
}

// Get handles GET /non-conformities/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	nc, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "non_conformity": nc})
}

type ncUpdateRequest struct {
	Title            string     `json:"title" validate:"omitempty,max=300"`
	Description      string     `json:"description" validate:"omitempty,max=5000"`
	Severity         string     `json:"severity" validate:"omitempty,oneof=Minor Major Critical"`
	CorrectiveAction string     `json:"corrective_action" validate:"omitempty,max=5000"`
	Owner            string     `json:"owner" validate:"omitempty,max=200"`
	DueDate          *time.Time `json:"due_date"`
	Status           string     `json:"status" validate:"omitempty,oneof=Open 'In Progress' Completed Closed"`
	VerificationDate *time.Time `json:"verification_date"`
}

// Update handles PUT /non-conformities/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	nc, ok := h.load(w, r)
	if !ok {
		return
	}

	var req ncUpdateRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), nc.ID, models.NonConformity{
		Title:            sanitize.Text(req.Title, 300),
		Description:      sanitize.Text(req.Description, 5000),
		Severity:         req.Severity,
		CorrectiveAction: sanitize.Text(req.CorrectiveAction, 5000),
		Owner:            sanitize.Text(req.Owner, 200),
		DueDate:          req.DueDate,
		Status:           req.Status,
		VerificationDate: req.VerificationDate,
	})
	if err != nil {
		h.Log.Error("non-conformity update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update non-conformity")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), nc.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update non-conformity")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "non_conformity": updated})
}

type rootCauseRequest struct {
	RootCause string `json:"root_cause" validate:"required,max=5000"`
	Method    string `json:"method" validate:"omitempty,oneof='5 Whys' Fishbone Other"`
}

// SetRootCause handles PUT /non-conformities/{id}/root-cause, recording the
// human-confirmed root cause and the analysis method used.
func (h *Handler) SetRootCause(w http.ResponseWriter, r *http.Request) {
	nc, ok := h.load(w, r)
	if !ok {
		return
	}

	var req rootCauseRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if err := h.Store.SetRootCause(r.Context(), nc.ID, sanitize.Text(req.RootCause, 5000), req.Method); err != nil {
		h.Log.Error("root cause update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not record root cause")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), nc.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not record root cause")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "non_conformity": updated})
}

// Delete handles DELETE /non-conformities/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	nc, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), nc.ID); err != nil {
		h.Log.Error("non-conformity delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete non-conformity")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.NonConformity, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid non-conformity id")
		return models.NonConformity{}, false
	}
	nc, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "non-conformity")
			return models.NonConformity{}, false
		}
		h.Log.Error("non-conformity load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load non-conformity")
		return models.NonConformity{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || nc.OrganizationID != orgID {
		httpjson.NotFound(w, "non-conformity")
		return models.NonConformity{}, false
	}
	return nc, true
}
