package riskstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestStore_Create_ComputesScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := riskstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Risk{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Press line hydraulic failure",
		Category:       "Operational",
		Likelihood:     4,
		Impact:         5,
		CreatedBy:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.RiskScore != 20 {
		t.Errorf("RiskScore = %v, want 20", created.RiskScore)
	}
	if created.Status != models.RiskOpen {
		t.Errorf("Status = %q, want %q", created.Status, models.RiskOpen)
	}
}

func TestStore_Update_RecomputesScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := riskstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Risk{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Supplier raw material delay",
		Likelihood:     2,
		Impact:         2,
		CreatedBy:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.Update(ctx, created.ID, models.Risk{Likelihood: 5, Impact: 4})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.RiskScore != 20 {
		t.Errorf("RiskScore after update = %v, want 20", got.RiskScore)
	}
}

func TestStore_Update_PartialLikelihoodKeepsStoredImpact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := riskstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Risk{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Cooling tower bacterial growth",
		Likelihood:     2,
		Impact:         3,
		CreatedBy:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Only likelihood changes; impact must come from the stored risk.
	if err := store.Update(ctx, created.ID, models.Risk{Likelihood: 5}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Likelihood != 5 {
		t.Errorf("Likelihood = %d, want 5", got.Likelihood)
	}
	if got.Impact != 3 {
		t.Errorf("Impact = %d, want 3", got.Impact)
	}
	if got.RiskScore != 15 {
		t.Errorf("RiskScore = %v, want 15", got.RiskScore)
	}
}

func TestStore_TopByScore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := riskstore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	for _, r := range []struct {
		title              string
		likelihood, impact int
	}{
		{"Minor labeling error", 1, 2},
		{"Forklift near-miss pattern", 4, 4},
		{"Audit finding recurrence", 3, 3},
	} {
		if _, err := store.Create(ctx, models.Risk{
			OrganizationID: orgID,
			Title:          r.title,
			Likelihood:     r.likelihood,
			Impact:         r.impact,
			CreatedBy:      primitive.NewObjectID(),
		}); err != nil {
			t.Fatalf("Create %q: %v", r.title, err)
		}
	}

	top, err := store.TopByScore(ctx, orgID, 2)
	if err != nil {
		t.Fatalf("TopByScore failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("got %d risks, want 2", len(top))
	}
	if top[0].Title != "Forklift near-miss pattern" {
		t.Errorf("highest risk = %q, want forklift pattern", top[0].Title)
	}
	if top[0].RiskScore < top[1].RiskScore {
		t.Error("results not sorted by score descending")
	}
}

func TestStore_SetPrediction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := riskstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.Risk{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Predicted calibration drift",
		Likelihood:     3,
		Impact:         4,
		CreatedBy:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetPrediction(ctx, created.ID, 0.82); err != nil {
		t.Fatalf("SetPrediction failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.PredictedByAI {
		t.Error("expected PredictedByAI to be set")
	}
	if got.AIConfidence == nil || *got.AIConfidence != 0.82 {
		t.Errorf("AIConfidence = %v, want 0.82", got.AIConfidence)
	}
}
