// internal/app/features/audits/handler.go
package audits

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

	auditstore "github.com/anvarov/qmshub/internal/app/store/audits"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *auditstore.Store
	Log   *zap.Logger
}

func NewHandler(store *auditstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type auditRequest struct {
	AuditType     string     `json:"audit_type" validate:"omitempty,oneof=Internal External 'Management Review'"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	ActualDate    *time.Time `json:"actual_date"`
	Auditor       string     `json:"auditor" validate:"omitempty,max=200"`
	Scope         string     `json:"scope" validate:"omitempty,max=2000"`
	Status        string     `json:"status" validate:"omitempty,oneof=Scheduled 'In Progress' Completed"`
}

// Create handles POST /audits.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req auditRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Audit{
		OrganizationID: orgID,
		AuditType:      req.AuditType,
		ScheduledDate:  req.ScheduledDate,
		ActualDate:     req.ActualDate,
		Auditor:        sanitize.Text(req.Auditor, 200),
		Scope:          sanitize.Text(req.Scope, 2000),
		Status:         req.Status,
	})
	if err != nil {
		h.Log.Error("audit create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create audit")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "audit": created})
}

// List handles GET /audits with optional status/audit_type filters and an
// upcoming=true shortcut for audits scheduled from today on.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	if r.URL.Query().Get("upcoming") == "true" {
		upcoming, err := h.Store.ListUpcoming(r.Context(), orgID, time.Now().UTC())
		if err != nil {
			h.Log.Error("upcoming audit list failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not list audits")
			return
		}
		httpjson.List(w, upcoming, int64(len(upcoming)), 0, int64(len(upcoming)))
		return
	}

	filter := bson.M{"organization_id": orgID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if auditType := r.URL.Query().Get("audit_type"); auditType != "" {
		filter["audit_type"] = auditType
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_date", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	audits, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("audit list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list audits")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list audits")
		return
	}
	httpjson.List(w, audits, total, page.Skip, page.Limit)
}

// Get handles GET /audits/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	audit, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "audit": audit})
}

// Update handles PUT /audits/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	audit, ok := h.load(w, r)
	if !ok {
		return
	}

	var req auditRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), audit.ID, models.Audit{
		AuditType:     req.AuditType,
		ScheduledDate: req.ScheduledDate,
		ActualDate:    req.ActualDate,
		Auditor:       sanitize.Text(req.Auditor, 200),
		Scope:         sanitize.Text(req.Scope, 2000),
		Status:        req.Status,
	})
	if err != nil {
		h.Log.Error("audit update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update audit")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), audit.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update audit")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "audit": updated})
}

type findingRequest struct {
	Clause      string `json:"clause" validate:"omitempty,oneof=4 5 6 7 8 9 10"`
	Description string `json:"description" validate:"required,max=2000"`
	Severity    string `json:"severity" validate:"omitempty,oneof=Minor Major Critical"`
}

// AddFinding handles POST /audits/{id}/findings. Each finding bumps the
// audit's non-conformity counter.
func (h *Handler) AddFinding(w http.ResponseWriter, r *http.Request) {
	audit, ok := h.load(w, r)
	if !ok {
		return
	}

	var req findingRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	finding := models.AuditFinding{
		Clause:      req.Clause,
		Description: sanitize.Text(req.Description, 2000),
		Severity:    req.Severity,
	}
	if err := h.Store.AddFinding(r.Context(), audit.ID, finding); err != nil {
		h.Log.Error("audit finding add failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not record finding")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), audit.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not record finding")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "audit": updated})
}

// Delete handles DELETE /audits/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	audit, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), audit.ID); err != nil {
		h.Log.Error("audit delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete audit")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Audit, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid audit id")
		return models.Audit{}, false
	}
	audit, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "audit")
			return models.Audit{}, false
		}
		h.Log.Error("audit load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load audit")
		return models.Audit{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || audit.OrganizationID != orgID {
		httpjson.NotFound(w, "audit")
		return models.Audit{}, false
	}
	return audit, true
}
