// internal/app/features/notifications/handler.go
package notifications

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

	notificationstore "github.com/anvarov/qmshub/internal/app/store/notifications"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *notificationstore.Store
	Log   *zap.Logger
}

func NewHandler(store *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type notificationRequest struct {
	UserID    string     `json:"user_id" validate:"required,len=24,hexadecimal"`
	Type      string     `json:"notification_type" validate:"omitempty,max=100"`
	Title     string     `json:"title" validate:"omitempty,max=300"`
	Message   string     `json:"message" validate:"omitempty,max=2000"`
	Priority  string     `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	ActionURL string     `json:"action_url" validate:"omitempty,max=500"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Create handles POST /notifications, delivering an in-app message to a
// user. Reserved for admins.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	created, err := h.Store.Create(r.Context(), models.Notification{
		UserID:    userID,
		Type:      req.Type,
		Title:     sanitize.Text(req.Title, 300),
		Message:   sanitize.Text(req.Message, 2000),
		Priority:  req.Priority,
		ActionURL: sanitize.Text(req.ActionURL, 500),
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.Log.Error("notification create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create notification")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "notification": created})
}

// List handles GET /notifications for the authenticated user, newest
// first. ?unread=true narrows to unread messages.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	items, err := h.Store.ListForUser(r.Context(), actor.ID, unreadOnly, opts)
	if err != nil {
		h.Log.Error("notification list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list notifications")
		return
	}
	httpjson.List(w, items, int64(len(items)), page.Skip, page.Limit)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	n, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.MarkRead(r.Context(), n.ID); err != nil {
		h.Log.Error("notification mark read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update notification")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

// MarkAllRead handles POST /notifications/read-all and reports how many
// messages were affected.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	n, err := h.Store.MarkAllRead(r.Context(), actor.ID)
	if err != nil {
		h.Log.Error("notification mark all read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update notifications")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "updated": n})
}

// Delete handles DELETE /notifications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	n, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), n.ID); err != nil {
		h.Log.Error("notification delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete notification")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Notification, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid notification id")
		return models.Notification{}, false
	}
	n, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "notification")
			return models.Notification{}, false
		}
		h.Log.Error("notification load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load notification")
		return models.Notification{}, false
	}
	actor, ok := auth.UserFrom(r)
	if !ok || n.UserID != actor.ID {
		httpjson.NotFound(w, "notification")
		return models.Notification{}, false
	}
	return n, true
}
