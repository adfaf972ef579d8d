// internal/domain/models/policy.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy is a top-level quality policy statement tied to an ISO clause.
type Policy struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Title          string             `bson:"title" json:"title"`
	ISOClause      string             `bson:"iso_clause,omitempty" json:"iso_clause,omitempty"` // 4..10
	Content        string             `bson:"content,omitempty" json:"content,omitempty"`
	ApprovalDate   *time.Time         `bson:"approval_date,omitempty" json:"approval_date,omitempty"`
	NextReviewDate *time.Time         `bson:"next_review_date,omitempty" json:"next_review_date,omitempty"`
	Status         string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
