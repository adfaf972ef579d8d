// internal/domain/models/feedback.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentiment labels assigned by the sentiment assistant.
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// CustomerFeedback holds a raw feedback entry and, once analyzed, the
// AI-assigned sentiment label and score (-1..1).
type CustomerFeedback struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id" json:"organization_id"`
	FeedbackText   string             `bson:"feedback_text" json:"feedback_text"`
	Sentiment      string             `bson:"sentiment,omitempty" json:"sentiment,omitempty"`
	SentimentScore *float64           `bson:"sentiment_score,omitempty" json:"sentiment_score,omitempty"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"` // Product, Service, Support, Delivery
	CustomerName   string             `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	CustomerEmail  string             `bson:"customer_email,omitempty" json:"customer_email,omitempty"`
	AIAnalyzed     bool               `bson:"ai_analyzed" json:"ai_analyzed"`
	AIInsights     string             `bson:"ai_insights,omitempty" json:"ai_insights,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
