// internal/app/features/suppliers/handler.go
package suppliers

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

	supplierstore "github.com/anvarov/qmshub/internal/app/store/suppliers"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *supplierstore.Store
	Log   *zap.Logger
}

func NewHandler(store *supplierstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type supplierRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	ContactEmail   string     `json:"contact_email" validate:"omitempty,email"`
	ContactPhone   string     `json:"contact_phone" validate:"omitempty,max=40"`
	Address        string     `json:"address" validate:"omitempty,max=500"`
	Category       string     `json:"category" validate:"omitempty,max=100"`
	OnTimeDelivery *float64   `json:"on_time_delivery" validate:"omitempty,gte=0,lte=100"`
	DefectRate     *float64   `json:"defect_rate" validate:"omitempty,gte=0,lte=100"`
	LastAuditDate  *time.Time `json:"last_audit_date"`
	Status         string     `json:"status" validate:"omitempty,oneof=Active Inactive 'Under Review'"`
}

// Create handles POST /suppliers. The performance score is derived in the
// store when delivery metrics are present.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req supplierRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Supplier{
		OrganizationID: orgID,
		Name:           sanitize.Text(req.Name, 200),
		ContactEmail:   req.ContactEmail,
		ContactPhone:   sanitize.Text(req.ContactPhone, 40),
		Address:        sanitize.Text(req.Address, 500),
		Category:       sanitize.Text(req.Category, 100),
		OnTimeDelivery: req.OnTimeDelivery,
		DefectRate:     req.DefectRate,
		LastAuditDate:  req.LastAuditDate,
		Status:         req.Status,
	})
	if err != nil {
		h.Log.Error("supplier create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create supplier")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "supplier": created})
}

// List handles GET /suppliers with optional status/category filters.
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
		SetSort(bson.D{{Key: "performance_score", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	sups, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("supplier list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list suppliers")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list suppliers")
		return
	}
	httpjson.List(w, sups, total, page.Skip, page.Limit)
}

// Get handles GET /suppliers/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sup, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "supplier": sup})
}

// Update handles PUT /suppliers/{id}. A changed delivery metric re-derives
// the performance score in the store.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	sup, ok := h.load(w, r)
	if !ok {
		return
	}

	var req supplierRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), sup.ID, models.Supplier{
		Name:           sanitize.Text(req.Name, 200),
		ContactEmail:   req.ContactEmail,
		ContactPhone:   sanitize.Text(req.ContactPhone, 40),
		Address:        sanitize.Text(req.Address, 500),
		Category:       sanitize.Text(req.Category, 100),
		OnTimeDelivery: req.OnTimeDelivery,
		DefectRate:     req.DefectRate,
		LastAuditDate:  req.LastAuditDate,
		Status:         req.Status,
	})
	if err != nil {
		h.Log.Error("supplier update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update supplier")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), sup.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update supplier")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "supplier": updated})
}

// Delete handles DELETE /suppliers/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sup, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), sup.ID); err != nil {
		h.Log.Error("supplier delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete supplier")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Supplier, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid supplier id")
		return models.Supplier{}, false
	}
	sup, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "supplier")
			return models.Supplier{}, false
		}
		h.Log.Error("supplier load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load supplier")
		return models.Supplier{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || sup.OrganizationID != orgID {
		httpjson.NotFound(w, "supplier")
		return models.Supplier{}, false
	}
	return sup, true
}
