// internal/domain/models/equipment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Equipment states.
const (
	EquipmentActive           = "Active"
	EquipmentUnderMaintenance = "Under Maintenance"
	EquipmentRetired          = "Retired"
)

// Equipment is a calibrated or maintained asset. PredictedMaintenanceDate
// is written by the predictive maintenance agent.
type Equipment struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID           primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	Name                     string             `bson:"equipment_name" json:"equipment_name"`
	Code                     string             `bson:"equipment_code,omitempty" json:"equipment_code,omitempty"`
	Description              string             `bson:"description,omitempty" json:"description,omitempty"`
	Location                 string             `bson:"location,omitempty" json:"location,omitempty"`
	SerialNumber             string             `bson:"serial_number,omitempty" json:"serial_number,omitempty"`
	PurchaseDate             *time.Time         `bson:"purchase_date,omitempty" json:"purchase_date,omitempty"`
	LastMaintenance          *time.Time         `bson:"last_maintenance,omitempty" json:"last_maintenance,omitempty"`
	NextMaintenance          *time.Time         `bson:"next_maintenance,omitempty" json:"next_maintenance,omitempty"`
	UsageHours               int                `bson:"usage_hours" json:"usage_hours"`
	MaintenanceFrequency     string             `bson:"maintenance_frequency,omitempty" json:"maintenance_frequency,omitempty"` // Monthly, Quarterly, ...
	CalibrationRequired      bool               `bson:"calibration_required" json:"calibration_required"`
	CalibrationDueDate       *time.Time         `bson:"calibration_due_date,omitempty" json:"calibration_due_date,omitempty"`
	Status                   string             `bson:"status" json:"status"`
	PredictedMaintenanceDate *time.Time         `bson:"predicted_maintenance_date,omitempty" json:"predicted_maintenance_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
