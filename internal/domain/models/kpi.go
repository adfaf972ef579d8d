// internal/domain/models/kpi.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KPI tracking states.
const (
	KPIOnTrack  = "On Track"
	KPIAtRisk   = "At Risk"
	KPIOffTrack = "Off Track"
)

// KPI is a tracked performance indicator tied to an ISO clause.
type KPI struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name           string             `bson:"name" json:"name"`
	ISOClause      string             `bson:"iso_clause,omitempty" json:"iso_clause,omitempty"`
	TargetValue    *float64           `bson:"target_value,omitempty" json:"target_value,omitempty"`
	CurrentValue   *float64           `bson:"current_value,omitempty" json:"current_value,omitempty"`
	Unit           string             `bson:"unit,omitempty" json:"unit,omitempty"`           // %, hours, incidents
	Frequency      string             `bson:"frequency,omitempty" json:"frequency,omitempty"` // Daily, Weekly, Monthly
	Owner          string             `bson:"owner,omitempty" json:"owner,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
