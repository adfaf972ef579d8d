package assistant

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	documentstore "github.com/anvarov/qmshub/internal/app/store/documents"
	feedbackstore "github.com/anvarov/qmshub/internal/app/store/feedback"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestParseSentiment(t *testing.T) {
	sentiment, score, insights, err := parseSentiment("Negative -0.8\nDelivery delays frustrate this customer.")
	if err != nil {
		t.Fatalf("parseSentiment: %v", err)
	}
	if sentiment != models.SentimentNegative {
		t.Errorf("sentiment = %q", sentiment)
	}
	if score != -0.8 {
		t.Errorf("score = %v", score)
	}
	if !strings.Contains(insights, "Delivery delays") {
		t.Errorf("insights = %q", insights)
	}

	if _, _, _, err := parseSentiment("Ambivalent 0.1"); err == nil {
		t.Error("expected error for unknown label")
	}
	if _, _, _, err := parseSentiment("Positive five"); err == nil {
		t.Error("expected error for non-numeric score")
	}
	if _, _, _, err := parseSentiment("Positive 3.5"); err == nil {
		t.Error("expected error for out-of-range score")
	}
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("1. First point\n\n- Second point\n* Third")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[1] != "Second point" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestSummarizeDocumentStoresSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	doc := fixtures.CreateDocument(ctx, org.ID, "Calibration Procedure", "Procedure")

	docs := documentstore.New(db)
	model := &testutil.FakeLLM{Response: "A concise summary."}
	h := NewHandler(model, docs, feedbackstore.New(db), zap.NewNop())

	req := httptest.NewRequest("POST", "/assistants/documents/"+doc.ID.Hex()+"/summarize", nil)
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	req = testutil.AsAdmin(req, org.ID)
	rec := httptest.NewRecorder()

	h.SummarizeDocument(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if model.CallCount() != 1 {
		t.Errorf("model calls = %d", model.CallCount())
	}

	updated, err := docs.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Summary != "A concise summary." {
		t.Errorf("stored summary = %q", updated.Summary)
	}
}

func TestAssistantsUnavailableWithoutModel(t *testing.T) {
	h := NewHandler(nil, nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/assistants/context/swot", strings.NewReader(`{"description":"A small machine shop."}`))
	rec := httptest.NewRecorder()
	h.SWOT(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestAnalyzeFeedback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	fb := fixtures.CreateFeedback(ctx, org.ID, "The parts arrived on time and in great condition.")

	feedback := feedbackstore.New(db)
	model := &testutil.FakeLLM{Response: "Positive 0.9\nHappy repeat customer."}
	h := NewHandler(model, documentstore.New(db), feedback, zap.NewNop())

	req := httptest.NewRequest("POST", "/assistants/feedback/"+fb.ID.Hex()+"/analyze", nil)
	req = testutil.WithChiURLParam(req, "id", fb.ID.Hex())
	req = testutil.AsAdmin(req, org.ID)
	rec := httptest.NewRecorder()

	h.AnalyzeFeedback(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	updated, err := feedback.GetByID(ctx, fb.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.Sentiment != models.SentimentPositive || !updated.AIAnalyzed {
		t.Errorf("analysis not stored: %+v", updated)
	}
	if updated.SentimentScore == nil || *updated.SentimentScore != 0.9 {
		t.Errorf("score = %v", updated.SentimentScore)
	}
}
