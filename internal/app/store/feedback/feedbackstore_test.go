package feedbackstore_test

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	feedbackstore "github.com/anvarov/qmshub/internal/app/store/feedback"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestStore_SetAnalysis(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := feedbackstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.CustomerFeedback{
		OrganizationID: primitive.NewObjectID(),
		FeedbackText:   "Delivery was two weeks late and nobody called us.",
		CustomerName:   "Acme Corp",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.AIAnalyzed {
		t.Error("new feedback must start unanalyzed")
	}

	err = store.SetAnalysis(ctx, created.ID, models.SentimentNegative, -0.7, "Recurring delivery complaints")
	if err != nil {
		t.Fatalf("SetAnalysis failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.AIAnalyzed {
		t.Error("expected AIAnalyzed to be set")
	}
	if got.Sentiment != models.SentimentNegative {
		t.Errorf("Sentiment = %q, want Negative", got.Sentiment)
	}
	if got.SentimentScore == nil || *got.SentimentScore != -0.7 {
		t.Errorf("SentimentScore = %v, want -0.7", got.SentimentScore)
	}
}

func TestStore_ListUnanalyzed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := feedbackstore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	for _, text := range []string{"Great support", "Broken on arrival", "Fast turnaround"} {
		if _, err := store.Create(ctx, models.CustomerFeedback{
			OrganizationID: orgID,
			FeedbackText:   text,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	pending, err := store.ListUnanalyzed(ctx, orgID, 2)
	if err != nil {
		t.Fatalf("ListUnanalyzed failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("got %d unanalyzed, want 2 (limit)", len(pending))
	}

	// Analyzing one shrinks the backlog.
	if err := store.SetAnalysis(ctx, pending[0].ID, models.SentimentPositive, 0.9, ""); err != nil {
		t.Fatalf("SetAnalysis failed: %v", err)
	}
	rest, err := store.ListUnanalyzed(ctx, orgID, 10)
	if err != nil {
		t.Fatalf("ListUnanalyzed failed: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("got %d unanalyzed after one analysis, want 2", len(rest))
	}
}

func TestStore_SentimentCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := feedbackstore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	seed := []struct {
		text      string
		sentiment string
		score     float64
	}{
		{"Love the product", models.SentimentPositive, 0.8},
		{"Works fine", models.SentimentNeutral, 0.1},
		{"Damaged packaging", models.SentimentNegative, -0.6},
		{"Another win", models.SentimentPositive, 0.7},
	}
	for _, s := range seed {
		created, err := store.Create(ctx, models.CustomerFeedback{
			OrganizationID: orgID,
			FeedbackText:   s.text,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := store.SetAnalysis(ctx, created.ID, s.sentiment, s.score, ""); err != nil {
			t.Fatalf("SetAnalysis failed: %v", err)
		}
	}

	counts, err := store.SentimentCounts(ctx, orgID, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("SentimentCounts failed: %v", err)
	}
	if counts[models.SentimentPositive] != 2 {
		t.Errorf("positive = %d, want 2", counts[models.SentimentPositive])
	}
	if counts[models.SentimentNeutral] != 1 || counts[models.SentimentNegative] != 1 {
		t.Errorf("neutral/negative = %d/%d, want 1/1",
			counts[models.SentimentNeutral], counts[models.SentimentNegative])
	}
}
