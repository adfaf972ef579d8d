package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/domain/models"
)

func TestCan(t *testing.T) {
	cases := []struct {
		role, permission string
		want             bool
	}{
		{models.RoleAdmin, authz.PermCreateUser, true},
		{models.RoleAdmin, authz.PermManageRisk, true}, // admins pass everything
		{models.RoleProcessOwner, authz.PermManageRisk, true},
		{models.RoleProcessOwner, authz.PermCreateUser, false},
		{models.RoleAuditor, authz.PermCreateAudit, true},
		{models.RoleAuditor, authz.PermEditDocument, false},
		{models.RoleViewer, authz.PermViewReports, true},
		{models.RoleViewer, authz.PermCreateDocument, false},
		{"Unknown", authz.PermViewReports, false},
	}
	for _, tc := range cases {
		if got := authz.Can(tc.role, tc.permission); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.permission, got, tc.want)
		}
	}
}

func TestPermissions(t *testing.T) {
	for _, role := range authz.Roles() {
		if len(authz.Permissions(role)) == 0 {
			t.Errorf("role %q has no permissions", role)
		}
	}
	if authz.Permissions("Ghost") != nil {
		t.Error("unknown role should return nil permissions")
	}
}

func requestAs(role string) *http.Request {
	r := httptest.NewRequest("GET", "/api/v1/users", nil)
	return auth.WithUser(r, &auth.CurrentUser{
		ID:       primitive.NewObjectID(),
		Username: "tester",
		Role:     role,
	})
}

func TestRequirePermission(t *testing.T) {
	h := authz.RequirePermission(authz.PermCreateUser)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(models.RoleViewer))
	if rec.Code != http.StatusForbidden {
		t.Errorf("viewer: got %d, want 403", rec.Code)
	}

	// No user in context at all.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/users", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous: got %d, want 403", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	h := authz.RequireRole(models.RoleAdmin, models.RoleAuditor)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(models.RoleAuditor))
	if rec.Code != http.StatusOK {
		t.Errorf("auditor: got %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestAs(models.RoleProcessOwner))
	if rec.Code != http.StatusForbidden {
		t.Errorf("process owner: got %d, want 403", rec.Code)
	}
}
