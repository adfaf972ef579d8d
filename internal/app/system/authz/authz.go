// internal/app/system/authz/authz.go
package authz

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvarov/qmshub/internal/app/system/auth"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Permission names mirror the role configuration exposed at /config/rbac.
const (
	PermCreateUser        = "create_user"
	PermEditUser          = "edit_user"
	PermDeleteUser        = "delete_user"
	PermCreatePolicy      = "create_policy"
	PermEditPolicy        = "edit_policy"
	PermApproveDocuments  = "approve_documents"
	PermManageCompliance  = "manage_compliance"
	PermViewReports       = "view_reports"
	PermManageAgents      = "manage_agents"
	PermCreateDocument    = "create_document"
	PermEditDocument      = "edit_document"
	PermSubmitForApproval = "submit_for_approval"
	PermManageRisk        = "manage_risk"
	PermManageSuppliers   = "manage_suppliers"
	PermViewDocuments     = "view_documents"
	PermCreateAudit       = "create_audit"
	PermViewRisk          = "view_risk"
)

// rolePermissions is the authoritative role → permission mapping.
// Admins additionally pass every permission check (see Can).
var rolePermissions = map[string][]string{
	models.RoleAdmin: {
		PermCreateUser,
		PermEditUser,
		PermDeleteUser,
		PermCreatePolicy,
		PermEditPolicy,
		PermApproveDocuments,
		PermManageCompliance,
		PermViewReports,
		PermManageAgents,
	},
	models.RoleProcessOwner: {
		PermCreateDocument,
		PermEditDocument,
		PermSubmitForApproval,
		PermManageRisk,
		PermManageSuppliers,
		PermViewReports,
	},
	models.RoleAuditor: {
		PermViewDocuments,
		PermCreateAudit,
		PermViewReports,
		PermViewRisk,
	},
	models.RoleViewer: {
		PermViewDocuments,
		PermViewReports,
	},
}

// Roles returns the known role names in a stable order.
func Roles() []string {
	return []string{models.RoleAdmin, models.RoleProcessOwner, models.RoleAuditor, models.RoleViewer}
}

// Permissions returns the permission list for a role, or nil for an
// unknown role. The returned slice must not be mutated.
func Permissions(role string) []string {
	return rolePermissions[role]
}

// Can reports whether a role grants the given permission.
// Admins hold every permission.
func Can(role, permission string) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	u, ok := auth.UserFrom(r)
	return ok && u.Role == models.RoleAdmin
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false when no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	u, ok := auth.UserFrom(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if u.Role == want {
			return true
		}
	}
	return false
}

// OrgScope resolves the organization a request operates on. Most users
// are bound to their own organization; admins without one may select a
// tenant with the organization_id query parameter.
func OrgScope(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.UserFrom(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	if !u.OrganizationID.IsZero() {
		return u.OrganizationID, true
	}
	if u.Role == models.RoleAdmin {
		if hex := r.URL.Query().Get("organization_id"); hex != "" {
			if id, err := primitive.ObjectIDFromHex(hex); err == nil {
				return id, true
			}
		}
	}
	return primitive.NilObjectID, false
}

// RequirePermission rejects requests whose user lacks the permission.
// It must run inside auth.RequireAuth so a user is present in context.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFrom(r)
			if !ok || !Can(u.Role, permission) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission rejects requests whose user holds none of the
// given permissions.
func RequireAnyPermission(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFrom(r)
			if !ok {
				forbidden(w)
				return
			}
			for _, p := range permissions {
				if Can(u.Role, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			forbidden(w)
		})
	}
}

// RequireRole rejects requests whose user holds none of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasAnyRole(r, roles...) {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": "insufficient permissions",
	})
}
