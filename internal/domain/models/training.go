// internal/domain/models/training.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Training record states.
const (
	TrainingPending   = "Pending"
	TrainingCompleted = "Completed"
	TrainingExpired   = "Expired"
)

// Training is a per-user training assignment, optionally referencing the
// controlled document it trains on.
type Training struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrganizationID   primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	UserID           primitive.ObjectID  `bson:"user_id" json:"user_id"`
	TrainingType     string              `bson:"training_type,omitempty" json:"training_type,omitempty"` // Induction, Safety, ...
	Topic            string              `bson:"topic,omitempty" json:"topic,omitempty"`
	DocumentID       *primitive.ObjectID `bson:"document_id,omitempty" json:"document_id,omitempty"`
	AssignedDate     *time.Time          `bson:"assigned_date,omitempty" json:"assigned_date,omitempty"`
	CompletionDate   *time.Time          `bson:"completion_date,omitempty" json:"completion_date,omitempty"`
	Status           string              `bson:"status" json:"status"`
	ProficiencyLevel *int                `bson:"proficiency_level,omitempty" json:"proficiency_level,omitempty"` // 1..5

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
