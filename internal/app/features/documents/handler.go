// internal/app/features/documents/handler.go
package documents

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	documentstore "github.com/anvarov/qmshub/internal/app/store/documents"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Store *documentstore.Store
	Log   *zap.Logger
}

func NewHandler(store *documentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

type documentRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	DocType string `json:"doc_type" validate:"required,oneof=Policy Procedure 'Work Instruction' Form Record Guideline"`
	Content string `json:"content" validate:"omitempty,max=100000"`
	Version string `json:"version" validate:"omitempty,max=20"`
}

// Create handles POST /documents.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFrom(r)
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req documentRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	created, err := h.Store.Create(r.Context(), models.Document{
		OrganizationID: orgID,
		Title:          sanitize.Text(req.Title, 300),
		DocType:        req.DocType,
		Content:        sanitize.Text(req.Content, 100000),
		Version:        req.Version,
		CreatedBy:      user.ID,
	})
	if err != nil {
		h.Log.Error("document create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create document")
		return
	}
	httpjson.Created(w, map[string]any{"status": "success", "document": created})
}

// List handles GET /documents with optional doc_type/status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if docType := r.URL.Query().Get("doc_type"); docType != "" {
		filter["doc_type"] = docType
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	docs, err := h.Store.Find(r.Context(), filter, opts)
	if err != nil {
		h.Log.Error("document list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	total, err := h.Store.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	httpjson.List(w, docs, total, page.Skip, page.Limit)
}

// Get handles GET /documents/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "document": doc})
}

type documentUpdateRequest struct {
	Title   string `json:"title" validate:"omitempty,max=300"`
	DocType string `json:"doc_type" validate:"omitempty,oneof=Policy Procedure 'Work Instruction' Form Record Guideline"`
	Content string `json:"content" validate:"omitempty,max=100000"`
	Version string `json:"version" validate:"omitempty,max=20"`
}

// Update handles PUT /documents/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	var req documentUpdateRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	err := h.Store.Update(r.Context(), doc.ID, models.Document{
		Title:   sanitize.Text(req.Title, 300),
		DocType: req.DocType,
		Content: sanitize.Text(req.Content, 100000),
		Version: req.Version,
	})
	if err != nil {
		h.Log.Error("document update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update document")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), doc.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update document")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "document": updated})
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=Draft Review Approved Obsolete"`
}

// UpdateStatus handles PATCH /documents/{id}/status, walking the review
// workflow. Approval records the acting user.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	user, _ := auth.UserFrom(r)
	if req.Status == models.DocumentApproved && !authz.Can(user.Role, authz.PermApproveDocuments) {
		httpjson.Error(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	var approver *primitive.ObjectID
	if req.Status == models.DocumentApproved {
		approver = &user.ID
	}
	if err := h.Store.UpdateStatus(r.Context(), doc.ID, req.Status, approver); err != nil {
		if errors.Is(err, documentstore.ErrInvalidTransition) {
			httpjson.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("document status update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not update document status")
		return
	}

	updated, err := h.Store.GetByID(r.Context(), doc.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not update document status")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "document": updated})
}

// Delete handles DELETE /documents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.load(w, r)
	if !ok {
		return
	}
	if _, err := h.Store.Delete(r.Context(), doc.ID); err != nil {
		h.Log.Error("document delete failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete document")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success"})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (models.Document, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid document id")
		return models.Document{}, false
	}
	doc, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "document")
			return models.Document{}, false
		}
		h.Log.Error("document load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load document")
		return models.Document{}, false
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || doc.OrganizationID != orgID {
		httpjson.NotFound(w, "document")
		return models.Document{}, false
	}
	return doc, true
}
