// internal/app/agents/supplierevaluation.go
package agents

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	supplierstore "github.com/anvarov/qmshub/internal/app/store/suppliers"
	"github.com/anvarov/qmshub/internal/app/system/llm"
	"github.com/anvarov/qmshub/internal/app/system/scoring"
)

const supplierEvaluationSystem = "You are a procurement quality analyst. " +
	"Given a supplier's delivery and quality metrics, give a one-sentence " +
	"recommendation on whether to keep, monitor, or replace the supplier."

// SupplierEvaluation recomputes performance scores for active suppliers
// and, when a model is available, attaches a one-line recommendation.
type SupplierEvaluation struct {
	Suppliers *supplierstore.Store
	Model     llm.Model
}

func NewSupplierEvaluation(suppliers *supplierstore.Store, model llm.Model) *SupplierEvaluation {
	return &SupplierEvaluation{Suppliers: suppliers, Model: model}
}

func (a *SupplierEvaluation) Name() string { return NameSupplierEvaluation }

func (a *SupplierEvaluation) Run(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	suppliers, err := a.Suppliers.ListActive(ctx, orgID)
	if err != nil {
		return Result{}, fmt.Errorf("load active suppliers: %w", err)
	}
	res := Result{InputSummary: fmt.Sprintf("%d active suppliers", len(suppliers))}

	var evaluated, skipped int
	for _, sup := range suppliers {
		if sup.OnTimeDelivery == nil || sup.DefectRate == nil {
			skipped++
			continue
		}
		score := scoring.SupplierPerformance(*sup.OnTimeDelivery, *sup.DefectRate, nil)

		recommendation := ""
		if a.Model != nil {
			prompt := fmt.Sprintf("Supplier: %s\nCategory: %s\nOn-time delivery: %.1f%%\nDefect rate: %.2f%%\nPerformance score: %.1f/100",
				sup.Name, sup.Category, *sup.OnTimeDelivery, *sup.DefectRate, score)
			answer, err := a.Model.Generate(ctx, supplierEvaluationSystem, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
			} else {
				recommendation = answer
			}
		}

		if err := a.Suppliers.SetEvaluation(ctx, sup.ID, score, recommendation); err != nil {
			return res, fmt.Errorf("store evaluation for %s: %w", sup.ID.Hex(), err)
		}
		evaluated++
	}

	res.OutputSummary = fmt.Sprintf("%d suppliers evaluated, %d lacked metrics", evaluated, skipped)
	res.Partial = skipped > 0 && evaluated > 0
	return res, nil
}
