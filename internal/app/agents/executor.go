// internal/app/agents/executor.go
package agents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	agentlogstore "github.com/anvarov/qmshub/internal/app/store/agentlogs"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Executor runs agents and persists one AgentLog per run. A run that
// fails still gets a log entry with the error message.
type Executor struct {
	Logs *agentlogstore.Store
	Log  *zap.Logger
}

func NewExecutor(logs *agentlogstore.Store, logger *zap.Logger) *Executor {
	return &Executor{Logs: logs, Log: logger}
}

// Run pairs the persisted log entry of one execution with the error the
// agent returned. Err carries the original error value so callers can
// branch with errors.Is instead of matching the persisted message.
type Run struct {
	Entry models.AgentLog
	Err   error
}

// Execute runs one agent for one organization and returns the persisted
// log entry together with the agent error, if any. Only log persistence
// failures come back as the second return value.
func (e *Executor) Execute(ctx context.Context, agent Agent, orgID primitive.ObjectID) (Run, error) {
	runID := uuid.NewString()
	start := time.Now()

	e.Log.Info("agent run started",
		zap.String("agent", agent.Name()),
		zap.String("run_id", runID),
		zap.String("organization_id", orgID.Hex()),
	)

	result, runErr := agent.Run(ctx, orgID)
	elapsed := time.Since(start).Seconds()

	entry := models.AgentLog{
		RunID:          runID,
		AgentName:      agent.Name(),
		OrganizationID: &orgID,
		InputSummary:   result.InputSummary,
		OutputSummary:  result.OutputSummary,
		ExecutionTime:  elapsed,
	}
	switch {
	case runErr != nil:
		entry.ExecutionStatus = models.AgentRunFailed
		entry.ErrorMessage = runErr.Error()
	case result.Partial:
		entry.ExecutionStatus = models.AgentRunPartial
	default:
		entry.ExecutionStatus = models.AgentRunSuccess
	}

	if runErr != nil {
		e.Log.Warn("agent run failed",
			zap.String("agent", agent.Name()),
			zap.String("run_id", runID),
			zap.Float64("seconds", elapsed),
			zap.Error(runErr),
		)
	} else {
		e.Log.Info("agent run finished",
			zap.String("agent", agent.Name()),
			zap.String("run_id", runID),
			zap.String("status", entry.ExecutionStatus),
			zap.Float64("seconds", elapsed),
		)
	}

	created, err := e.Logs.Create(ctx, entry)
	if err != nil {
		return Run{}, err
	}
	return Run{Entry: created, Err: runErr}, nil
}
