// internal/app/features/assistant/handler.go
package assistant

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	documentstore "github.com/anvarov/qmshub/internal/app/store/documents"
	feedbackstore "github.com/anvarov/qmshub/internal/app/store/feedback"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/inputval"
	"github.com/anvarov/qmshub/internal/app/system/llm"
	"github.com/anvarov/qmshub/internal/app/system/sanitize"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Handler exposes the AI assistants: document drafting help, sentiment
// analysis, strategic context analysis, and compliance checks. Every
// endpoint degrades to 503 when no model is configured.
type Handler struct {
	Model     llm.Model
	Documents *documentstore.Store
	Feedback  *feedbackstore.Store
	Log       *zap.Logger
}

func NewHandler(model llm.Model, documents *documentstore.Store, feedback *feedbackstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Model: model, Documents: documents, Feedback: feedback, Log: logger}
}

func (h *Handler) requireModel(w http.ResponseWriter) bool {
	if h.Model == nil {
		httpjson.Error(w, http.StatusServiceUnavailable, "AI model not configured")
		return false
	}
	return true
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, system, prompt string) (string, bool) {
	answer, err := h.Model.Generate(r.Context(), system, prompt)
	if err != nil {
		h.Log.Error("model generation failed", zap.Error(err))
		httpjson.Error(w, http.StatusBadGateway, "AI model request failed")
		return "", false
	}
	return answer, true
}

// --- document assistants ---

const documentSystem = "You are a quality management documentation specialist " +
	"working with ISO 9001 controlled documents."

// SummarizeDocument handles POST /assistants/documents/{id}/summarize. The
// summary is stored on the document.
func (h *Handler) SummarizeDocument(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.Content) == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "document has no content to summarize")
		return
	}

	prompt := fmt.Sprintf("Summarize this %s titled %q in at most five sentences:\n\n%s",
		doc.DocType, doc.Title, doc.Content)
	summary, ok := h.generate(w, r, documentSystem, prompt)
	if !ok {
		return
	}

	if err := h.Documents.SetSummary(r.Context(), doc.ID, summary); err != nil {
		h.Log.Error("summary store failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store summary")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "summary": summary})
}

// KeyPoints handles POST /assistants/documents/{id}/key-points.
func (h *Handler) KeyPoints(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.Content) == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "document has no content to analyze")
		return
	}

	prompt := fmt.Sprintf("List the key points of this %s titled %q, one per line:\n\n%s",
		doc.DocType, doc.Title, doc.Content)
	answer, ok := h.generate(w, r, documentSystem, prompt)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "key_points": splitLines(answer)})
}

type improveRequest struct {
	Instructions string `json:"instructions" validate:"omitempty,max=2000"`
}

// ImproveDocument handles POST /assistants/documents/{id}/improve and
// returns a revised draft without touching the stored document.
func (h *Handler) ImproveDocument(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	doc, ok := h.loadDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.Content) == "" {
		httpjson.Error(w, http.StatusUnprocessableEntity, "document has no content to improve")
		return
	}

	var req improveRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	prompt := fmt.Sprintf("Improve the clarity and completeness of this %s titled %q.", doc.DocType, doc.Title)
	if req.Instructions != "" {
		prompt += " Focus on: " + sanitize.Text(req.Instructions, 2000) + "."
	}
	prompt += "\n\n" + doc.Content
	answer, ok := h.generate(w, r, documentSystem, prompt)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "improved_content": answer})
}

// --- sentiment assistants ---

const sentimentSystem = "You are a customer feedback analyst. Classify the " +
	"sentiment of the feedback as Positive, Neutral, or Negative with a score " +
	"between -1 and 1. Answer on the first line with `<label> <score>`, then " +
	"give one sentence of insight."

// AnalyzeFeedback handles POST /assistants/feedback/{id}/analyze. The
// result is stored on the feedback entry.
func (h *Handler) AnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	fb, ok := h.loadFeedback(w, r)
	if !ok {
		return
	}
	if err := h.analyzeOne(w, r, fb); err != nil {
		return
	}
	updated, err := h.Feedback.GetByID(r.Context(), fb.ID)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not load analysis result")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "feedback": updated})
}

type batchRequest struct {
	Limit int64 `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

// AnalyzeBatch handles POST /assistants/feedback/analyze-batch, analyzing
// up to limit unanalyzed entries for the organization.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	var req batchRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 20
	}

	entries, err := h.Feedback.ListUnanalyzed(r.Context(), orgID, req.Limit)
	if err != nil {
		h.Log.Error("unanalyzed feedback load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load feedback")
		return
	}

	var analyzed, failed int
	for _, fb := range entries {
		if err := h.analyzeQuiet(r, fb); err != nil {
			if r.Context().Err() != nil {
				httpjson.Error(w, http.StatusBadGateway, "AI model request failed")
				return
			}
			failed++
			continue
		}
		analyzed++
	}
	httpjson.OK(w, map[string]any{
		"status":   "success",
		"analyzed": analyzed,
		"failed":   failed,
		"total":    len(entries),
	})
}

func (h *Handler) analyzeOne(w http.ResponseWriter, r *http.Request, fb models.CustomerFeedback) error {
	answer, ok := h.generate(w, r, sentimentSystem, fb.FeedbackText)
	if !ok {
		return errors.New("generation failed")
	}
	sentiment, score, insights, err := parseSentiment(answer)
	if err != nil {
		h.Log.Warn("unparseable sentiment answer", zap.String("answer", answer))
		httpjson.Error(w, http.StatusBadGateway, "AI model returned an unusable answer")
		return err
	}
	if err := h.Feedback.SetAnalysis(r.Context(), fb.ID, sentiment, score, insights); err != nil {
		h.Log.Error("analysis store failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store analysis")
		return err
	}
	return nil
}

func (h *Handler) analyzeQuiet(r *http.Request, fb models.CustomerFeedback) error {
	answer, err := h.Model.Generate(r.Context(), sentimentSystem, fb.FeedbackText)
	if err != nil {
		return err
	}
	sentiment, score, insights, err := parseSentiment(answer)
	if err != nil {
		return err
	}
	return h.Feedback.SetAnalysis(r.Context(), fb.ID, sentiment, score, insights)
}

// --- context analysis assistants ---

const contextSystem = "You are a strategy consultant helping an organization " +
	"establish its context for an ISO 9001 quality management system."

type contextRequest struct {
	Description string `json:"description" validate:"required,max=10000"`
}

func (h *Handler) contextAnalysis(w http.ResponseWriter, r *http.Request, kind, instruction string) {
	if !h.requireModel(w) {
		return
	}
	var req contextRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	prompt := instruction + "\n\nOrganization description:\n" + sanitize.Text(req.Description, 10000)
	answer, ok := h.generate(w, r, contextSystem, prompt)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "analysis_type": kind, "analysis": answer})
}

// PESTEL handles POST /assistants/context/pestel.
func (h *Handler) PESTEL(w http.ResponseWriter, r *http.Request) {
	h.contextAnalysis(w, r, "PESTEL",
		"Produce a PESTEL analysis (Political, Economic, Social, Technological, Environmental, Legal) for this organization.")
}

// SWOT handles POST /assistants/context/swot.
func (h *Handler) SWOT(w http.ResponseWriter, r *http.Request) {
	h.contextAnalysis(w, r, "SWOT",
		"Produce a SWOT analysis (Strengths, Weaknesses, Opportunities, Threats) for this organization.")
}

// TOWS handles POST /assistants/context/tows.
func (h *Handler) TOWS(w http.ResponseWriter, r *http.Request) {
	h.contextAnalysis(w, r, "TOWS",
		"Produce a TOWS matrix deriving strategies from this organization's strengths, weaknesses, opportunities, and threats.")
}

// --- compliance assistants ---

const complianceSystem = "You are an ISO 9001 compliance auditor. Assess the " +
	"given material against the named ISO 9001 clause and be specific about " +
	"what is covered and what is missing."

type complianceRequest struct {
	ISOClause string `json:"iso_clause" validate:"required,oneof=4 5 6 7 8 9 10"`
	Content   string `json:"content" validate:"required,max=100000"`
}

// ComplianceCheck handles POST /assistants/compliance/check.
func (h *Handler) ComplianceCheck(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	var req complianceRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	prompt := fmt.Sprintf("Check the following material against ISO 9001 clause %s and report compliance status:\n\n%s",
		req.ISOClause, sanitize.Text(req.Content, 100000))
	answer, ok := h.generate(w, r, complianceSystem, prompt)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "iso_clause": req.ISOClause, "assessment": answer})
}

// ComplianceGaps handles POST /assistants/compliance/gaps.
func (h *Handler) ComplianceGaps(w http.ResponseWriter, r *http.Request) {
	if !h.requireModel(w) {
		return
	}
	var req complianceRequest
	if err := inputval.Bind(r, &req); err != nil {
		httpjson.BindError(w, err)
		return
	}

	prompt := fmt.Sprintf("List the compliance gaps in the following material against ISO 9001 clause %s, one per line:\n\n%s",
		req.ISOClause, sanitize.Text(req.Content, 100000))
	answer, ok := h.generate(w, r, complianceSystem, prompt)
	if !ok {
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "iso_clause": req.ISOClause, "gaps": splitLines(answer)})
}

// --- helpers ---

func (h *Handler) loadDocument(w http.ResponseWriter, r *http.Request) (models.Document, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid document id")
		return models.Document{}, false
	}
	doc, err := h.Documents.GetByID(r.Context(), id)
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

func (h *Handler) loadFeedback(w http.ResponseWriter, r *http.Request) (models.CustomerFeedback, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid feedback id")
		return models.CustomerFeedback{}, false
	}
	fb, err := h.Feedback.GetByID(r.Context(), id)
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

// parseSentiment reads a `<label> <score>` first line followed by optional
// insight text.
func parseSentiment(answer string) (sentiment string, score float64, insights string, err error) {
	lines := strings.SplitN(strings.TrimSpace(answer), "\n", 2)
	fields := strings.Fields(strings.Trim(lines[0], "`"))
	if len(fields) < 2 {
		return "", 0, "", fmt.Errorf("unexpected sentiment answer %q", answer)
	}

	var label string
	switch strings.ToLower(strings.Trim(fields[0], ".,:;")) {
	case "positive":
		label = models.SentimentPositive
	case "neutral":
		label = models.SentimentNeutral
	case "negative":
		label = models.SentimentNegative
	default:
		return "", 0, "", fmt.Errorf("unknown sentiment label %q", fields[0])
	}

	score, err = strconv.ParseFloat(strings.Trim(fields[1], ".,:;"), 64)
	if err != nil || score < -1 || score > 1 {
		return "", 0, "", fmt.Errorf("unusable sentiment score %q", fields[1])
	}

	if len(lines) == 2 {
		insights = strings.TrimSpace(lines[1])
	}
	return label, score, insights, nil
}

func splitLines(answer string) []string {
	var out []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
