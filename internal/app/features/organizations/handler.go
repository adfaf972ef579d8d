// internal/app/features/organizations/handler.go
package organizations

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	organizationstore "github.com/anvarov/qmshub/internal/app/store/organizations"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *organizationstore.Store
	Log   *zap.Logger
}

func NewHandler(store *organizationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type organizationRequest struct {
	Name               string   `json:"name" validate:"required,max=300"`
	RegistrationNumber string   `json:"registration_number" validate:"omitempty,max=100"`
	Industry           string   `json:"industry" validate:"omitempty,max=100"`
	Country            string   `json:"country" validate:"omitempty,max=100"`
	ISOStandards       []string `json:"iso_standards" validate:"omitempty,dive,max=50"`
	Scope              string   `json:"scope" validate:"omitempty,max=2000"`
}

// Create handles POST /organizations. Registration numbers are unique
// across the platform.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req organizationRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Organization{
		Name:               sanitize.Text(req.Name, 300),
		RegistrationNumber: sanitize.Text(req.RegistrationNumber, 100),
		Industry:           sanitize.Text(req.Industry, 100),
		Country:            sanitize.Text(req.Country, 100),
		ISOStandards:       req.ISOStandards,
		Scope:              sanitize.Text(req.Scope, 2000),
	})
	if err != nil {
		if errors.Is(err, organizationstore.ErrDuplicateRegistration) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("organization create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create organization")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "organization": created})
}

// List handles GET /organizations. Admins see every organization; other
// roles see only their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if !authz.IsAdmin(r) {
		user, ok := auth.UserFrom(r)
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		filter["_id"] = user.OrganizationID
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	orgs, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("organization list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list organizations")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list organizations")
		return
	}
	httpjson.List(w, orgs, total, page.Skip, page.Limit)
}

// Get handles GET /organizations/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	org, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "organization": org})
}

// Update handles PUT /organizations/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	org, ok := h.load(w, r)
	if !ok {
		return
	}

	var req organizationRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), org.ID, models.Organization{
		Name:               sanitize.Text(req.Name, 300),
		RegistrationNumber: sanitize.Text(req.RegistrationNumber, 100),
		Industry:           sanitize.Text(req.Industry, 100),
		Country:            sanitize.Text(req.Country, 100),
		ISOStandards:       req.ISOStandards,
		Scope:              sanitize.Text(req.Scope, 2000),
	})
	if err != nil {
		h.Log.Error("organization update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update organization")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), org.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update organization")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "organization": updated})
}

// Delete handles DELETE /organizations/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	org, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), org.ID); err != nil {
		h.Log.Error("organization delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete organization")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Organization, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid organization id")
		return models.Organization{}, false
	}
	if !authz.IsAdmin(r) {
		user, ok := auth.UserFrom(r)
		if !ok || user.OrganizationID != id {
			httpjson.NotFound(w, "organization")
			return models.Organization{}, false
		}
	}
	org, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "organization")
			return models.Organization{}, false
		}
		h.Log.Error("organization load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load organization")
		return models.Organization{}, false
	}
	return org, true
}
