// internal/app/agents/maintenance.go
package agents

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	equipmentstore "github.com/anvarov/qmshub/internal/app/store/equipment"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Maintenance intervals by declared frequency. Unknown frequencies fall
// back to quarterly.
var maintenanceIntervals = map[string]time.Duration{
	"Monthly":     30 * 24 * time.Hour,
	"Quarterly":   91 * 24 * time.Hour,
	"Semi-Annual": 182 * 24 * time.Hour,
	"Annual":      365 * 24 * time.Hour,
}

// PredictiveMaintenance projects the next maintenance date for active
// equipment from its last maintenance, declared frequency, and usage. Heavy
// usage pulls the predicted date forward.
type PredictiveMaintenance struct {
	Equipment *equipmentstore.Store
	Now       func() time.Time
}

func NewPredictiveMaintenance(equipment *equipmentstore.Store) *PredictiveMaintenance {
	return &PredictiveMaintenance{Equipment: equipment, Now: time.Now}
}

func (a *PredictiveMaintenance) Name() string { return NamePredictiveMaintenance }

func (a *PredictiveMaintenance) Run(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	items, err := a.Equipment.Find(ctx, bson.M{
		"organization_id": orgID,
		"status":          models.EquipmentActive,
	})
	if err != nil {
		return Result{}, fmt.Errorf("load equipment: %w", err)
	}
	res := Result{InputSummary: fmt.Sprintf("%d active equipment items", len(items))}

	var predicted, skipped int
	for _, eq := range items {
		base := eq.LastMaintenance
		if base == nil {
			base = eq.PurchaseDate
		}
		if base == nil {
			skipped++
			continue
		}

		interval, ok := maintenanceIntervals[eq.MaintenanceFrequency]
		if !ok {
			interval = maintenanceIntervals["Quarterly"]
		}
		// Over 2000 usage hours shortens the interval by a quarter.
		if eq.UsageHours > 2000 {
			interval = interval * 3 / 4
		}

		next := base.Add(interval)
		if now := a.Now().UTC(); next.Before(now) {
			next = now
		}
		if err := a.Equipment.SetPredictedMaintenance(ctx, eq.ID, next); err != nil {
			return res, fmt.Errorf("store prediction for %s: %w", eq.ID.Hex(), err)
		}
		predicted++
	}

	res.OutputSummary = fmt.Sprintf("%d maintenance dates predicted, %d skipped", predicted, skipped)
	res.Partial = skipped > 0 && predicted > 0
	return res, nil
}
