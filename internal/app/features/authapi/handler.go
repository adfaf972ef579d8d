// internal/app/features/authapi/handler.go
package authapi

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/anvarov/qmshub/internal/app/store/users"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Handler serves registration, login, and token refresh.
type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"omitempty,max=200"`
	// Registration is unauthenticated, so Admin is not grantable here.
	// Admin accounts are created by an existing admin through /users.
	Role           string `json:"role" validate:"omitempty,oneof=Process_Owner Auditor Viewer"`
	OrganizationID string `json:"organization_id" validate:"omitempty,len=24"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	user := models.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: hashed,
		FullName:       req.FullName,
		Role:           req.Role,
	}
	if req.OrganizationID != "" {
		orgID, err := primitive.ObjectIDFromHex(req.OrganizationID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid organization_id")
			return
		}
		user.OrganizationID = &orgID
	}

	created, err := h.Users.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateUser) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("user create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create user")
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role))
	httpjson.Created(w, map[string]any{"status": "success", "user": created})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login, issuing an access/refresh token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		httpjson.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.issueTokens(w, user)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh handles POST /auth/refresh, exchanging a valid refresh token
// for a new access/refresh pair. The user is re-checked so revoked or
// deactivated accounts cannot keep refreshing.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	claims, err := h.Tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	user, err := h.Users.GetByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		httpjson.Error(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	h.issueTokens(w, user)
}

func (h *Handler) issueTokens(w http.ResponseWriter, user models.User) {
	access, err := h.Tokens.IssueAccess(user)
	if err != nil {
		h.Log.Error("issue access token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	refresh, err := h.Tokens.IssueRefresh(user)
	if err != nil {
		h.Log.Error("issue refresh token failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	httpjson.OK(w, map[string]any{
		"status":        "success",
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
		"user":          user,
	})
}
