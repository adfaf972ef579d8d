// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification priorities.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// Notification is an in-app message for a user (document expiry, risk
// alert, approval pending, agent results).
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      string             `bson:"notification_type,omitempty" json:"notification_type,omitempty"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Message   string             `bson:"message,omitempty" json:"message,omitempty"`
	Priority  string             `bson:"priority" json:"priority"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	ActionURL string             `bson:"action_url,omitempty" json:"action_url,omitempty"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
