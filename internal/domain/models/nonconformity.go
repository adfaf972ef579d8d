// internal/domain/models/nonconformity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Non-conformity lifecycle states.
const (
	NCOpen       = "Open"
	NCInProgress = "In Progress"
	NCCompleted  = "Completed"
	NCClosed     = "Closed"
)

// NonConformity records a deviation from a requirement. NCNumber is
// generated on create and unique within the organization. AISuggestedCauses
// is written by the root cause analysis agent.
type NonConformity struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID    primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	NCNumber          string             `bson:"nc_number" json:"nc_number"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	Severity          string             `bson:"severity,omitempty" json:"severity,omitempty"` // Minor, Major, Critical
	ReportedBy        string             `bson:"reported_by,omitempty" json:"reported_by,omitempty"`
	ReportedDate      time.Time          `bson:"reported_date" json:"reported_date"`
	RootCause         string             `bson:"root_cause,omitempty" json:"root_cause,omitempty"`
	RootCauseMethod   string             `bson:"root_cause_method,omitempty" json:"root_cause_method,omitempty"` // 5 Whys, Fishbone
	AISuggestedCauses []string           `bson:"ai_suggested_causes,omitempty" json:"ai_suggested_causes,omitempty"`
	CorrectiveAction  string             `bson:"corrective_action,omitempty" json:"corrective_action,omitempty"`
	Owner             string             `bson:"owner,omitempty" json:"owner,omitempty"`
	DueDate           *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Status            string             `bson:"status" json:"status"`
	VerificationDate  *time.Time         `bson:"verification_date,omitempty" json:"verification_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
