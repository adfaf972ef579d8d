// internal/domain/models/supplier.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Supplier states.
const (
	SupplierActive      = "Active"
	SupplierInactive    = "Inactive"
	SupplierUnderReview = "Under Review"
)

// Supplier tracks vendor performance. PerformanceScore (0..100) is derived
// from on-time delivery and defect rate by the scoring package.
type Supplier struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID   primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name             string             `bson:"name" json:"name"`
	ContactEmail     string             `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	ContactPhone     string             `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Address          string             `bson:"address,omitempty" json:"address,omitempty"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"` // Raw Material, Service Provider, ...
	PerformanceScore float64            `bson:"performance_score" json:"performance_score"`
	OnTimeDelivery   *float64           `bson:"on_time_delivery,omitempty" json:"on_time_delivery,omitempty"` // percent
	DefectRate       *float64           `bson:"defect_rate,omitempty" json:"defect_rate,omitempty"`           // percent
	LastAuditDate    *time.Time         `bson:"last_audit_date,omitempty" json:"last_audit_date,omitempty"`
	Status           string             `bson:"status" json:"status"`
	AIRecommendation string             `bson:"ai_recommendation,omitempty" json:"ai_recommendation,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
