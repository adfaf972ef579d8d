// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Roles map to permission sets in the authz package.
const (
	RoleAdmin        = "Admin"
	RoleProcessOwner = "Process_Owner"
	RoleAuditor      = "Auditor"
	RoleViewer       = "Viewer"
)

// User represents a platform account. Accounts are organization-scoped
// except that email and username are unique across the whole platform.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email          string              `bson:"email" json:"email"`
	Username       string              `bson:"username" json:"username"`
	HashedPassword string              `bson:"hashed_password" json:"-"`
	FullName       string              `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Role           string              `bson:"role" json:"role"`
	IsActive       bool                `bson:"is_active" json:"is_active"`
	OrganizationID *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
