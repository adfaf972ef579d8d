package ncstore_test

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	ncstore "github.com/anvarov/qmshub/internal/app/store/nonconformities"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestNewNCNumber(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	num := ncstore.NewNCNumber(now)
	if !strings.HasPrefix(num, "NC-2026-") {
		t.Errorf("NC number %q missing NC-2026- prefix", num)
	}
	if len(num) != len("NC-2026-")+8 {
		t.Errorf("NC number %q has unexpected length", num)
	}
	if num == ncstore.NewNCNumber(now) {
		t.Error("two generated NC numbers collided")
	}
}

func TestStore_Create_AssignsNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ncstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.NonConformity{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Out-of-spec weld on frame batch 42",
		Severity:       "Major",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.NCNumber == "" {
		t.Error("expected NC number to be assigned")
	}
	if created.Status != models.NCOpen {
		t.Errorf("Status = %q, want Open", created.Status)
	}
	if created.ReportedDate.IsZero() {
		t.Error("expected ReportedDate to default to now")
	}
}

func TestStore_RootCause(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ncstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.NonConformity{
		OrganizationID: primitive.NewObjectID(),
		Title:          "Customer complaint: late shipment",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	causes := []string{"No capacity buffer in schedule", "Carrier SLA not monitored"}
	if err := store.SetSuggestedCauses(ctx, created.ID, causes); err != nil {
		t.Fatalf("SetSuggestedCauses failed: %v", err)
	}
	if err := store.SetRootCause(ctx, created.ID, causes[0], "5 Whys"); err != nil {
		t.Fatalf("SetRootCause failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.AISuggestedCauses) != 2 {
		t.Errorf("got %d suggested causes, want 2", len(got.AISuggestedCauses))
	}
	if got.RootCause != causes[0] || got.RootCauseMethod != "5 Whys" {
		t.Errorf("root cause = %q via %q", got.RootCause, got.RootCauseMethod)
	}
}

func TestStore_ListOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ncstore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	first, err := store.Create(ctx, models.NonConformity{OrganizationID: orgID, Title: "First"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.NonConformity{OrganizationID: orgID, Title: "Second"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Close the first; it must drop out of the open list.
	if err := store.Update(ctx, first.ID, models.NonConformity{Status: models.NCClosed}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	open, err := store.ListOpen(ctx, orgID)
	if err != nil {
		t.Fatalf("ListOpen failed: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("got %d open NCs, want 1", len(open))
	}
	if open[0].Title != "Second" {
		t.Errorf("open NC = %q, want Second", open[0].Title)
	}
}
