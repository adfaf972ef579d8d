// internal/app/features/training/handler.go
package training

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

	trainingstore "github.com/anvarov/qmshub/internal/app/store/training"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *trainingstore.Store
	Log   *zap.Logger
}

func NewHandler(store *trainingstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type trainingRequest struct {
	UserID       string     `json:"user_id" validate:"required,len=24,hexadecimal"`
	TrainingType string     `json:"training_type" validate:"omitempty,max=100"`
	Topic        string     `json:"topic" validate:"omitempty,max=300"`
	DocumentID   string     `json:"document_id" validate:"omitempty,len=24,hexadecimal"`
	AssignedDate *time.Time `json:"assigned_date"`
}

// Create handles POST /training, assigning a training record to a user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req trainingRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	var docID *primitive.ObjectID
	if req.DocumentID != "" {
		id, err := primitive.ObjectIDFromHex(req.DocumentID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid document_id")
			return
		}
		docID = &id
	}

	created, err := h.Store.Create(r.Context(), models.Training{
		OrganizationID: orgID,
		UserID:         userID,
		TrainingType:   sanitize.Text(req.TrainingType, 100),
		Topic:          sanitize.Text(req.Topic, 300),
		DocumentID:     docID,
		AssignedDate:   req.AssignedDate,
	})
	if err != nil {
		h.Log.Error("training create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create training record")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "training": created})
}

// List handles GET /training with optional status/user_id filters.
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
	if uid := r.URL.Query().Get("user_id"); uid != "" {
		id, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		filter["user_id"] = id
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	records, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("training list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list training records")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list training records")
		return
	}
	httpjson.List(w, records, total, page.Skip, page.Limit)
}

// Get handles GET /training/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "training": tr})
}

type completeRequest struct {
	ProficiencyLevel int `json:"proficiency_level" validate:"required,gte=1,lte=5"`
}

// Complete handles POST /training/{id}/complete, marking the record
// completed with the achieved proficiency level.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.load(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	if err := h.Store.Complete(r.Context(), tr.ID, req.ProficiencyLevel); err != nil {
		h.Log.Error("training complete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not complete training record")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), tr.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not complete training record")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "training": updated})
}

// Delete handles DELETE /training/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), tr.ID); err != nil {
		h.Log.Error("training delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete training record")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Training, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid training id")
		return models.Training{}, false
	}
	tr, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "training record")
			return models.Training{}, false
		}
		h.Log.Error("training load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load training record")
		return models.Training{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || tr.OrganizationID != orgID {
		httpjson.NotFound(w, "training record")
		return models.Training{}, false
	}
	return tr, true
}
