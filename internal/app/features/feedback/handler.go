// internal/app/features/feedback/handler.go
package feedback

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

	feedbackstore "github.com/anvarov/qmshub/internal/app/store/feedback"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *feedbackstore.Store
	Log   *zap.Logger
}

func NewHandler(store *feedbackstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type feedbackRequest struct {
	FeedbackText  string `json:"feedback_text" validate:"required,max=10000"`
	Category      string `json:"category" validate:"omitempty,oneof=Product Service Support Delivery"`
	CustomerName  string `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

// Create handles POST /feedback, capturing a raw feedback entry for later
// sentiment analysis.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req feedbackRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.CustomerFeedback{
		OrganizationID: orgID,
		FeedbackText:   sanitize.Text(req.FeedbackText, 10000),
		Category:       req.Category,
		CustomerName:   sanitize.Text(req.CustomerName, 200),
		CustomerEmail:  req.CustomerEmail,
	})
	if err != nil {
		h.Log.Error("feedback create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create feedback")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "feedback": created})
}

// List handles GET /feedback with optional sentiment/category/analyzed
// filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if sentiment := r.URL.Query().Get("sentiment"); sentiment != "" {
		filter["sentiment"] = sentiment
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if analyzed := r.URL.Query().Get("analyzed"); analyzed != "" {
		filter["ai_analyzed"] = analyzed == "true"
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	entries, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("feedback list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list feedback")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list feedback")
		return
	}
	httpjson.List(w, entries, total, page.Skip, page.Limit)
}

// Get handles GET /feedback/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "feedback": fb})
}

// SentimentSummary handles GET /feedback/sentiment-summary, counting
// sentiment labels over an optional trailing window in days.
func (h *Handler) SentimentSummary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	since := time.Time{}
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			httpjson.Error(w, http.StatusBadRequest, "invalid days")
			return
		}
		since = time.Now().UTC().AddDate(0, 0, -n)
	}

	counts, err := h.Store.SentimentCounts(r.Context(), orgID, since)
	if err != nil {
		h.Log.Error("sentiment summary failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not summarize sentiment")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "counts": counts})
}

// Delete handles DELETE /feedback/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), fb.ID); err != nil {
		h.Log.Error("feedback delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete feedback")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.CustomerFeedback, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid feedback id")
		return models.CustomerFeedback{}, false
	}
	fb, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "feedback")
			return models.CustomerFeedback{}, false
		}
		h.Log.Error("feedback load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feedback")
		return models.CustomerFeedback{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || fb.OrganizationID != orgID {
		httpjson.NotFound(w, "feedback")
		return models.CustomerFeedback{}, false
	}
	return fb, true
}
