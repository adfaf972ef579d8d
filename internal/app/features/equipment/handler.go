// internal/app/features/equipment/handler.go
package equipment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	equipmentstore "github.com/anvarov/qmshub/internal/app/store/equipment"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *equipmentstore.Store
	Log   *zap.Logger
}

func NewHandler(store *equipmentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type equipmentRequest struct {
	Name                 string     `json:"equipment_name" validate:"required,max=200"`
	Code                 string     `json:"equipment_code" validate:"omitempty,max=50"`
	Description          string     `json:"description" validate:"omitempty,max=2000"`
	Location             string     `json:"location" validate:"omitempty,max=200"`
	SerialNumber         string     `json:"serial_number" validate:"omitempty,max=100"`
	PurchaseDate         *time.Time `json:"purchase_date"`
	LastMaintenance      *time.Time `json:"last_maintenance"`
	NextMaintenance      *time.Time `json:"next_maintenance"`
	UsageHours           int        `json:"usage_hours" validate:"gte=0"`
	MaintenanceFrequency string     `json:"maintenance_frequency" validate:"omitempty,oneof=Monthly Quarterly 'Semi-Annual' Annual"`
	CalibrationRequired  bool       `json:"calibration_required"`
	CalibrationDueDate   *time.Time `json:"calibration_due_date"`
	Status               string     `json:"status" validate:"omitempty,oneof=Active 'Under Maintenance' Retired"`
}

func (req *equipmentRequest) model() models.Equipment {
	return models.Equipment{
		Name:                 sanitize.Text(req.Name, 200),
		Code:                 sanitize.Text(req.Code, 50),
		Description:          sanitize.Text(req.Description, 2000),
		Location:             sanitize.Text(req.Location, 200),
		SerialNumber:         sanitize.Text(req.SerialNumber, 100),
		PurchaseDate:         req.PurchaseDate,
		LastMaintenance:      req.LastMaintenance,
		NextMaintenance:      req.NextMaintenance,
		UsageHours:           req.UsageHours,
		MaintenanceFrequency: req.MaintenanceFrequency,
		CalibrationRequired:  req.CalibrationRequired,
		CalibrationDueDate:   req.CalibrationDueDate,
		Status:               req.Status,
	}
}

// Create handles POST /equipment.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req equipmentRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	eq := req.model()
	eq.OrganizationID = orgID
	created, err := h.Store.Create(r.Context(), eq)
	if err != nil {
		h.Log.Error("equipment create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create equipment")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "equipment": created})
}

// List handles GET /equipment with optional status filter and a
// maintenance_due_within_days window.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	if days := r.URL.Query().Get("maintenance_due_within_days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			httpjson.Error(w, http.StatusBadRequest, "invalid maintenance_due_within_days")
			return
		}
		due, err := h.Store.ListMaintenanceDue(r.Context(), orgID, time.Now().UTC().AddDate(0, 0, n))
		if err != nil {
			h.Log.Error("equipment maintenance-due list failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not list equipment")
			return
		}
		httpjson.List(w, due, int64(len(due)), 0, int64(len(due)))
		return
	}

	filter := bson.M{"organization_id": orgID}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "equipment_name", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	items, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("equipment list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list equipment")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list equipment")
		return
	}
	httpjson.List(w, items, total, page.Skip, page.Limit)
}

// Get handles GET /equipment/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	eq, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "equipment": eq})
}

// Update handles PUT /equipment/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	eq, ok := h.load(w, r)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if err := h.Store.Update(r.Context(), eq.ID, req.model()); err != nil {
		h.Log.Error("equipment update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update equipment")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), eq.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update equipment")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "equipment": updated})
}

// Delete handles DELETE /equipment/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	eq, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), eq.ID); err != nil {
		h.Log.Error("equipment delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete equipment")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Equipment, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid equipment id")
		return models.Equipment{}, false
	}
	eq, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "equipment")
			return models.Equipment{}, false
		}
		h.Log.Error("equipment load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load equipment")
		return models.Equipment{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || eq.OrganizationID != orgID {
		httpjson.NotFound(w, "equipment")
		return models.Equipment{}, false
	}
	return eq, true
}
