// internal/app/features/users/handler.go
package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	userstore "github.com/anvarov/qmshub/internal/app/store/users"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *userstore.Store
	Log   *zap.Logger
}

func NewHandler(store *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type createUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Password       string `json:"password" validate:"required,min=8,max=128"`
	FullName       string `json:"full_name" validate:"omitempty,max=200"`
	Role           string `json:"role" validate:"required,oneof=Admin Process_Owner Auditor Viewer"`
	OrganizationID string `json:"organization_id" validate:"omitempty,len=24,hexadecimal"`
}

// Create handles POST /users. Non-admin creators cannot grant the Admin
// role, and new accounts land in the creator's organization unless an
// admin says otherwise.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if req.Role == models.RoleAdmin && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusForbidden, "only admins may grant the Admin role")
		return
	}

	actor, _ := auth.UserFrom(r)
	orgID := actor.OrganizationID
	if req.OrganizationID != "" {
		if !authz.IsAdmin(r) {
			httpjson.Error(w, http.StatusForbidden, "only admins may choose an organization")
			return
		}
		id, err := primitive.ObjectIDFromHex(req.OrganizationID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid organization_id")
			return
		}
		orgID = id
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	user := models.User{
		Email:          req.Email,
		Username:       sanitize.Text(req.Username, 50),
		HashedPassword: hashed,
		FullName:       sanitize.Text(req.FullName, 200),
		Role:           req.Role,
		IsActive:       true,
	}
	if !orgID.IsZero() {
		user.OrganizationID = &orgID
	}

	created, err := h.Store.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUser) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "user": created})
}

// List handles GET /users, scoped to the caller's organization with
// optional role/is_active filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		filter["is_active"] = active == "true"
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	users, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list users")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list users")
		return
	}
	httpjson.List(w, users, total, page.Skip, page.Limit)
}

// Me handles GET /users/me for the authenticated account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	user, err := h.Store.GetByID(r.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "user")
			return
		}
		h.Log.Error("user load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load user")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "user": user})
}

// Get handles GET /users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "user": user})
}

type updateUserRequest struct {
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=Admin Process_Owner Auditor Viewer"`
	IsActive *bool  `json:"is_active"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

// Update handles PUT /users/{id}: profile, role, active flag, and password
// reset in one call.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if req.Role == models.RoleAdmin && !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusForbidden, "only admins may grant the Admin role")
		return
	}

	if req.FullName != "" || req.Role != "" {
		err := h.Store.Update(r.Context(), user.ID, models.User{
			FullName: sanitize.Text(req.FullName, 200),
			Role:     req.Role,
		})
		if err != nil {
			h.Log.Error("user update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not update user")
			return
		}
	}
	if req.IsActive != nil {
		if err := h.Store.SetActive(r.Context(), user.ID, *req.IsActive); err != nil {
			h.Log.Error("user active flag update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not update user")
			return
		}
	}
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			h.Log.Error("password hash failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not update user")
			return
		}
		if err := h.Store.SetPassword(r.Context(), user.ID, hashed); err != nil {
			h.Log.Error("password update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not update user")
			return
		}
	}

	updated, err := h.Store.GetByID(r.Context(), user.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update user")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "user": updated})
}

// Delete handles DELETE /users/{id}. Accounts cannot delete themselves.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}
	actor, _ := auth.UserFrom(r)
	if actor.ID == user.ID {
		httpjson.Error(w, http.StatusConflict, "cannot delete your own account")
		return
	}
	if _, err := h.Store.Delete(r.Context(), user.ID); err != nil {
		h.Log.Error("user delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete user")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user id")
		return models.User{}, false
	}
	user, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "user")
			return models.User{}, false
		}
		h.Log.Error("user load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load user")
		return models.User{}, false
	}
	if !authz.IsAdmin(r) {
		orgID, ok := authz.OrgScope(r)
		if !ok || user.OrganizationID == nil || *user.OrganizationID != orgID {
			httpjson.NotFound(w, "user")
			return models.User{}, false
		}
	}
	return user, true
}
