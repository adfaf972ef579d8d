// internal/domain/models/audit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit states.
const (
	AuditScheduled  = "Scheduled"
	AuditInProgress = "In Progress"
	AuditCompleted  = "Completed"
)

// AuditFinding is a single finding recorded during an audit.
type AuditFinding struct {
	Clause      string `bson:"clause,omitempty" json:"clause,omitempty"`
	Description string `bson:"description" json:"description"`
	Severity    string `bson:"severity,omitempty" json:"severity,omitempty"`
}

// Audit is a scheduled or completed internal/external audit.
type Audit struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID       primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	AuditType            string             `bson:"audit_type,omitempty" json:"audit_type,omitempty"` // Internal, External, Management Review
	ScheduledDate        *time.Time         `bson:"scheduled_date,omitempty" json:"scheduled_date,omitempty"`
	ActualDate           *time.Time         `bson:"actual_date,omitempty" json:"actual_date,omitempty"`
	Auditor              string             `bson:"auditor,omitempty" json:"auditor,omitempty"`
	Scope                string             `bson:"scope,omitempty" json:"scope,omitempty"`
	Findings             []AuditFinding     `bson:"findings,omitempty" json:"findings,omitempty"`
	NonConformitiesFound int                `bson:"non_conformities_found" json:"non_conformities_found"`
	Status               string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
