// internal/domain/models/organization.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Organization is the tenant boundary: every business resource is scoped to
// exactly one organization.
type Organization struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	RegistrationNumber string             `bson:"registration_number,omitempty" json:"registration_number,omitempty"`
	Industry           string             `bson:"industry,omitempty" json:"industry,omitempty"`
	Country            string             `bson:"country,omitempty" json:"country,omitempty"`
	ISOStandards       []string           `bson:"iso_standards,omitempty" json:"iso_standards,omitempty"` // e.g. ISO 9001, ISO 14001
	Scope              string             `bson:"scope,omitempty" json:"scope,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
