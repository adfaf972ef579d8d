package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
	userstore "github.com/anvarov/qmshub/internal/app/store/users"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext(t)

	orgID := primitive.NewObjectID()
	user := models.User{
		Email:          "qa.lead@example.com",
		Username:       "qa.lead",
		HashedPassword: "hash",
		FullName:       "QA Lead",
		Role:           models.RoleProcessOwner,
		OrganizationID: &orgID,
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if !created.IsActive {
		t.Error("expected new user to be active")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	byEmail, err := store.GetByEmail(ctx, "qa.lead@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", byEmail.ID.Hex(), created.ID.Hex())
	}

	byUsername, err := store.GetByUsername(ctx, "qa.lead")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if byUsername.ID != created.ID {
		t.Errorf("GetByUsername returned %s, want %s", byUsername.ID.Hex(), created.ID.Hex())
	}
}

func TestStore_Create_DefaultRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.User{
		Email:          "norole@example.com",
		Username:       "norole",
		HashedPassword: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Role != models.RoleViewer {
		t.Errorf("default role = %q, want %q", created.Role, models.RoleViewer)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext(t)

	// The unique index backs duplicate detection.
	for _, d := range indexes.All() {
		if err := indexes.Ensure(ctx, db, d); err != nil {
			t.Fatalf("provision index %s/%s: %v", d.Collection, d.Name, err)
		}
	}

	user := models.User{
		Email:          "dup@example.com",
		Username:       "dup.one",
		HashedPassword: "hash",
	}
	if _, err := store.Create(ctx, user); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	user.Username = "dup.two"
	_, err := store.Create(ctx, user)
	if !errors.Is(err, userstore.ErrDuplicateUser) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateUser", err)
	}
}

func TestStore_SetActiveAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx := testutil.TestContext(t)

	created, err := store.Create(ctx, models.User{
		Email:          "toggle@example.com",
		Username:       "toggle",
		HashedPassword: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected user to be deactivated")
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Delete removed %d docs, want 1", n)
	}

	count, err := store.Count(ctx, bson.M{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count after delete = %d, want 0", count)
	}
}
