// internal/app/agents/rootcause.go
package agents

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	ncstore "github.com/anvarov/qmshub/internal/app/store/nonconformities"
	"github.com/anvarov/qmshub/internal/app/system/llm"
)

const rootCauseSystem = "You are a quality engineer doing root cause analysis. " +
	"Given a non-conformity, list up to three plausible root causes, one per " +
	"line, without numbering or extra commentary."

// RootCauseAnalysis suggests root causes for open non-conformities that do
// not have a confirmed root cause yet. Suggestions are stored alongside the
// record for a human to confirm.
type RootCauseAnalysis struct {
	NCs   *ncstore.Store
	Model llm.Model
}

func NewRootCauseAnalysis(ncs *ncstore.Store, model llm.Model) *RootCauseAnalysis {
	return &RootCauseAnalysis{NCs: ncs, Model: model}
}

func (a *RootCauseAnalysis) Name() string { return NameRootCauseAnalysis }

func (a *RootCauseAnalysis) Run(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	if a.Model == nil {
		return Result{}, llm.ErrUnavailable
	}

	open, err := a.NCs.ListOpen(ctx, orgID)
	if err != nil {
		return Result{}, fmt.Errorf("load open non-conformities: %w", err)
	}

	var analyzed, skipped int
	for _, nc := range open {
		if nc.RootCause != "" || len(nc.AISuggestedCauses) > 0 {
			continue
		}
		prompt := fmt.Sprintf("Non-conformity %s: %s\nSeverity: %s\nDescription: %s",
			nc.NCNumber, nc.Title, nc.Severity, nc.Description)
		answer, err := a.Model.Generate(ctx, rootCauseSystem, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			skipped++
			continue
		}
		causes := splitCauses(answer)
		if len(causes) == 0 {
			skipped++
			continue
		}
		if err := a.NCs.SetSuggestedCauses(ctx, nc.ID, causes); err != nil {
			return Result{}, fmt.Errorf("store causes for %s: %w", nc.NCNumber, err)
		}
		analyzed++
	}

	res := Result{
		InputSummary:  fmt.Sprintf("%d open non-conformities", len(open)),
		OutputSummary: fmt.Sprintf("%d analyzed, %d skipped", analyzed, skipped),
		Partial:       skipped > 0 && analyzed > 0,
	}
	return res, nil
}

// splitCauses turns a line-per-cause model answer into a trimmed slice,
// capped at three entries.
func splitCauses(answer string) []string {
	var causes []string
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		causes = append(causes, line)
		if len(causes) == 3 {
			break
		}
	}
	return causes
}
