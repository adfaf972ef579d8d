package notificationstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	notificationstore "github.com/anvarov/qmshub/internal/app/store/notifications"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestStore_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx := testutil.TestContext(t)

	userID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Notification{
		UserID:  userID,
		Type:    "risk_alert",
		Title:   "High risk detected",
		Message: "Forklift near-miss pattern scored 16.",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("default priority = %q, want Medium", created.Priority)
	}
	if created.IsRead {
		t.Error("new notification must start unread")
	}

	n, err := store.MarkRead(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if n != 1 {
		t.Errorf("MarkRead modified %d, want 1", n)
	}

	unread, err := store.ListForUser(ctx, userID, true)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("got %d unread, want 0", len(unread))
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx := testutil.TestContext(t)

	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Notification{UserID: userID, Title: "Pending approval"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Notification{UserID: otherID, Title: "Unrelated"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.MarkAllRead(ctx, userID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if n != 3 {
		t.Errorf("MarkAllRead modified %d, want 3", n)
	}

	// The other user's notification stays unread.
	otherUnread, err := store.ListForUser(ctx, otherID, true)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(otherUnread) != 1 {
		t.Errorf("other user unread = %d, want 1", len(otherUnread))
	}
}
