// internal/domain/models/agentlog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent execution outcomes.
const (
	AgentRunSuccess = "Success"
	AgentRunFailed  = "Failed"
	AgentRunPartial = "Partial"
)

// AgentLog records a single AI agent execution: which agent ran, for which
// organization, how it went, and how long it took. RunID correlates the log
// with the API response that triggered it.
type AgentLog struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	RunID           string              `bson:"run_id" json:"run_id"`
	AgentName       string              `bson:"agent_name" json:"agent_name"`
	OrganizationID  *primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	ExecutionStatus string              `bson:"execution_status" json:"execution_status"`
	InputSummary    string              `bson:"input_summary,omitempty" json:"input_summary,omitempty"`
	OutputSummary   string              `bson:"output_summary,omitempty" json:"output_summary,omitempty"`
	ErrorMessage    string              `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ExecutionTime   float64             `bson:"execution_time" json:"execution_time"` // seconds

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
