// internal/app/agents/riskprediction.go
package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	"github.com/anvarov/qmshub/internal/app/system/llm"
)

const riskPredictionSystem = "You are a quality management risk analyst. " +
	"Given a risk description, estimate the likelihood that the risk materializes " +
	"within the next quarter. Answer with a single number between 0 and 1."

// RiskPrediction asks the model for a materialization confidence for the
// organization's highest-scored risks and stores it on each risk.
type RiskPrediction struct {
	Risks *riskstore.Store
	Model llm.Model
	TopN  int64
}

func NewRiskPrediction(risks *riskstore.Store, model llm.Model) *RiskPrediction {
	return &RiskPrediction{Risks: risks, Model: model, TopN: 10}
}

func (a *RiskPrediction) Name() string { return NameRiskPrediction }

func (a *RiskPrediction) Run(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	if a.Model == nil {
		return Result{}, llm.ErrUnavailable
	}

	risks, err := a.Risks.TopByScore(ctx, orgID, a.TopN)
	if err != nil {
		return Result{}, fmt.Errorf("load top risks: %w", err)
	}
	res := Result{InputSummary: fmt.Sprintf("%d risks analyzed", len(risks))}
	if len(risks) == 0 {
		res.OutputSummary = "no risks to analyze"
		return res, nil
	}

	var predicted, skipped int
	for _, risk := range risks {
		prompt := fmt.Sprintf("Risk: %s\nCategory: %s\nLikelihood: %d/5\nImpact: %d/5\nDescription: %s",
			risk.Title, risk.Category, risk.Likelihood, risk.Impact, risk.Description)
		answer, err := a.Model.Generate(ctx, riskPredictionSystem, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			skipped++
			continue
		}
		confidence, err := parseConfidence(answer)
		if err != nil {
			skipped++
			continue
		}
		if err := a.Risks.SetPrediction(ctx, risk.ID, confidence); err != nil {
			return res, fmt.Errorf("store prediction for %s: %w", risk.ID.Hex(), err)
		}
		predicted++
	}

	res.OutputSummary = fmt.Sprintf("%d predictions stored, %d skipped", predicted, skipped)
	res.Partial = skipped > 0 && predicted > 0
	if predicted == 0 {
		return res, fmt.Errorf("no usable predictions for %d risks", len(risks))
	}
	return res, nil
}

// parseConfidence pulls the first 0..1 number out of a model answer.
func parseConfidence(answer string) (float64, error) {
	for _, field := range strings.Fields(answer) {
		field = strings.Trim(field, ".,:;%")
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		if v >= 0 && v <= 1 {
			return v, nil
		}
		// Tolerate percentage answers.
		if v > 1 && v <= 100 {
			return v / 100, nil
		}
	}
	return 0, fmt.Errorf("no confidence value in %q", answer)
}
