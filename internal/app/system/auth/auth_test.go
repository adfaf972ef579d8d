package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/domain/models"
)

const testSecret = "unit-test-secret-0123456789"

func testUser() models.User {
	orgID := primitive.NewObjectID()
	return models.User{
		ID:             primitive.NewObjectID(),
		Email:          "inspector@example.com",
		Username:       "inspector",
		Role:           models.RoleAuditor,
		OrganizationID: &orgID,
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !auth.CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestNewTokenManager_RejectsWeakSecret(t *testing.T) {
	if _, err := auth.NewTokenManager("short", time.Minute, time.Hour); err == nil {
		t.Error("expected error for short secret")
	}
	if _, err := auth.NewTokenManager(testSecret, 0, time.Hour); err == nil {
		t.Error("expected error for zero access TTL")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm, err := auth.NewTokenManager(testSecret, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager failed: %v", err)
	}
	user := testUser()

	token, err := tm.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	claims, err := tm.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if claims.Subject != user.ID.Hex() {
		t.Errorf("subject: got %q, want %q", claims.Subject, user.ID.Hex())
	}
	if claims.Role != models.RoleAuditor {
		t.Errorf("role: got %q, want %q", claims.Role, models.RoleAuditor)
	}
	if claims.OrgID != user.OrganizationID.Hex() {
		t.Errorf("org: got %q, want %q", claims.OrgID, user.OrganizationID.Hex())
	}
}

func TestVerifyAccess_RejectsRefreshToken(t *testing.T) {
	tm, _ := auth.NewTokenManager(testSecret, time.Minute, time.Hour)
	refresh, err := tm.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}
	if _, err := tm.VerifyAccess(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
}

func TestVerifyAccess_RejectsExpired(t *testing.T) {
	tm, _ := auth.NewTokenManager(testSecret, time.Nanosecond, time.Hour)
	token, err := tm.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tm.VerifyAccess(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyAccess_RejectsTampering(t *testing.T) {
	tm, _ := auth.NewTokenManager(testSecret, time.Minute, time.Hour)
	other, _ := auth.NewTokenManager("another-secret-0123456789", time.Minute, time.Hour)

	token, _ := other.IssueAccess(testUser())
	if _, err := tm.VerifyAccess(token); err == nil {
		t.Error("token signed with different secret accepted")
	}
}

func TestRequireAuth(t *testing.T) {
	tm, _ := auth.NewTokenManager(testSecret, time.Minute, time.Hour)
	user := testUser()

	var seen *auth.CurrentUser
	h := auth.RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.UserFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	// No token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/risks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want 401", rec.Code)
	}

	// Valid token.
	token, _ := tm.IssueAccess(user)
	req := httptest.NewRequest("GET", "/api/v1/risks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: got %d, want 200", rec.Code)
	}
	if seen == nil || seen.ID != user.ID {
		t.Error("CurrentUser not injected into context")
	}
	if seen.OrganizationID != *user.OrganizationID {
		t.Error("organization not carried into context")
	}
}
