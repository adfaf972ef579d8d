// Package agents holds the AI agents that run against an organization's
// quality data: risk prediction, predictive maintenance, training gap
// analysis, supplier evaluation, and root cause analysis. Agents are
// executed synchronously through the Executor, which records every run in
// the agent log collection.
package agents

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Agent names as they appear in run logs and the API.
const (
	NameRiskPrediction        = "risk_prediction"
	NamePredictiveMaintenance = "predictive_maintenance"
	NameTrainingGapAnalysis   = "training_gap_analysis"
	NameSupplierEvaluation    = "supplier_evaluation"
	NameRootCauseAnalysis     = "root_cause_analysis"
)

// Result is what an agent reports back after a run. Failures that abort
// the whole run are returned as errors instead; Partial covers runs where
// some items were processed and others skipped.
type Result struct {
	InputSummary  string
	OutputSummary string
	Partial       bool
}

// Agent is a single AI analysis job scoped to one organization.
type Agent interface {
	Name() string
	Run(ctx context.Context, orgID primitive.ObjectID) (Result, error)
}

// Registry maps agent names to enabled agents. Disabled agents are simply
// never registered.
type Registry struct {
	agents map[string]Agent
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

func (r *Registry) Register(a Agent) {
	r.agents[a.Name()] = a
}

// Get returns the named agent, or false when it is unknown or disabled.
func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Names lists the registered agent names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
