// internal/domain/models/risk.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Risk lifecycle states.
const (
	RiskOpen      = "Open"
	RiskMitigated = "Mitigated"
	RiskClosed    = "Closed"
)

// RiskCategories lists the accepted risk categories.
var RiskCategories = []string{
	"Safety",
	"Environmental",
	"Operational",
	"Compliance",
	"Reputational",
	"Financial",
}

// Risk is an identified quality/compliance risk. Likelihood and impact are
// 1..5; RiskScore is their product, computed by the scoring package on
// create and update.
type Risk struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID  `bson:"organization_id" json:"organization_id"`
	Title          string              `bson:"title" json:"title"`
	Description    string              `bson:"description,omitempty" json:"description,omitempty"`
	Category       string              `bson:"category,omitempty" json:"category,omitempty"`
	Likelihood     int                 `bson:"likelihood" json:"likelihood"`
	Impact         int                 `bson:"impact" json:"impact"`
	RiskScore      float64             `bson:"risk_score" json:"risk_score"`
	Status         string              `bson:"status" json:"status"`
	Owner          string              `bson:"owner,omitempty" json:"owner,omitempty"`
	CreatedBy      primitive.ObjectID  `bson:"created_by" json:"created_by"`
	MitigationPlan string              `bson:"mitigation_plan,omitempty" json:"mitigation_plan,omitempty"`
	ResidualRisk   *float64            `bson:"residual_risk,omitempty" json:"residual_risk,omitempty"`
	PredictedByAI  bool                `bson:"predicted_by_ai" json:"predicted_by_ai"`
	AIConfidence   *float64            `bson:"ai_confidence,omitempty" json:"ai_confidence,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
