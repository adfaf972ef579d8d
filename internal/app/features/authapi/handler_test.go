package authapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	userstore "github.com/anvarov/qmshub/internal/app/store/users"
	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens, err := auth.NewTokenManager("test-secret-0123456789-0123456789", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return NewHandler(userstore.New(db), tokens, zap.NewNop())
}

type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	User         models.User `json:"user"`
}

func TestRegisterLoginRefresh(t *testing.T) {
	h := newTestHandler(t)

	register := httptest.NewRequest("POST", "/auth/register", strings.NewReader(
		`{"email":"qa@example.com","username":"qa","password":"longenough1","role":"Auditor"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body: %s", rec.Code, rec.Body.String())
	}

	login := httptest.NewRequest("POST", "/auth/login", strings.NewReader(
		`{"email":"qa@example.com","password":"longenough1"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, login)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var tokens tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" || tokens.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", tokens)
	}
	if tokens.User.Role != models.RoleAuditor {
		t.Errorf("role = %q", tokens.User.Role)
	}

	refresh := httptest.NewRequest("POST", "/auth/refresh", strings.NewReader(
		`{"refresh_token":"`+tokens.RefreshToken+`"}`))
	rec = httptest.NewRecorder()
	h.Refresh(rec, refresh)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newTestHandler(t)

	register := httptest.NewRequest("POST", "/auth/register", strings.NewReader(
		`{"email":"qa@example.com","username":"qa","password":"longenough1"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}

	login := httptest.NewRequest("POST", "/auth/login", strings.NewReader(
		`{"email":"qa@example.com","password":"wrongpassword"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, login)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", rec.Code)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/auth/register", strings.NewReader(
		`{"email":"boss@example.com","username":"boss","password":"longenough1","role":"Admin"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("register status = %d, want 400", rec.Code)
	}

	// The account must not exist afterwards.
	login := httptest.NewRequest("POST", "/auth/login", strings.NewReader(
		`{"email":"boss@example.com","password":"longenough1"}`))
	rec = httptest.NewRecorder()
	h.Login(rec, login)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401", rec.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newTestHandler(t)

	body := `{"email":"qa@example.com","username":"qa","password":"longenough1"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest("POST", "/auth/register", strings.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("second register status = %d, want 409", rec.Code)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	h := newTestHandler(t)

	user := models.User{ID: primitive.NewObjectID(), Role: models.RoleViewer, Username: "v"}
	access, err := h.Tokens.IssueAccess(user)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	refresh := httptest.NewRequest("POST", "/auth/refresh", strings.NewReader(
		`{"refresh_token":"`+access+`"}`))
	rec := httptest.NewRecorder()
	h.Refresh(rec, refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh status = %d, want 401", rec.Code)
	}
}
