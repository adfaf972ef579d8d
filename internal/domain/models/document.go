// internal/domain/models/document.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document lifecycle states.
const (
	DocumentDraft    = "Draft"
	DocumentReview   = "Review"
	DocumentApproved = "Approved"
	DocumentObsolete = "Obsolete"
)

// DocumentTypes lists the accepted doc_type values.
var DocumentTypes = []string{
	"Policy",
	"Procedure",
	"Work Instruction",
	"Form",
	"Record",
	"Guideline",
}

// Document is a controlled QMS document (procedure, work instruction, ...).
type Document struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	Title          string              `bson:"title" json:"title"`
	DocType        string              `bson:"doc_type,omitempty" json:"doc_type,omitempty"`
	Content        string              `bson:"content,omitempty" json:"content,omitempty"`
	Version        string              `bson:"version" json:"version"`
	Status         string              `bson:"status" json:"status"`
	CreatedBy      primitive.ObjectID  `bson:"created_by" json:"created_by"`
	ApprovedBy     *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	NextReviewDate *time.Time          `bson:"next_review_date,omitempty" json:"next_review_date,omitempty"`
	IsCurrent      bool                `bson:"is_current" json:"is_current"`
	Summary        string              `bson:"summary,omitempty" json:"summary,omitempty"` // AI generated

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
