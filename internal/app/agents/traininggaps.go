// internal/app/agents/traininggaps.go
package agents

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	notificationstore "github.com/anvarov/qmshub/internal/app/store/notifications"
	trainingstore "github.com/anvarov/qmshub/internal/app/store/training"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// TrainingGapAnalysis finds pending and expired training records and
// notifies each affected user about their open assignments.
type TrainingGapAnalysis struct {
	Training      *trainingstore.Store
	Notifications *notificationstore.Store
}

func NewTrainingGapAnalysis(training *trainingstore.Store, notifications *notificationstore.Store) *TrainingGapAnalysis {
	return &TrainingGapAnalysis{Training: training, Notifications: notifications}
}

func (a *TrainingGapAnalysis) Name() string { return NameTrainingGapAnalysis }

func (a *TrainingGapAnalysis) Run(ctx context.Context, orgID primitive.ObjectID) (Result, error) {
	pending, err := a.Training.ListPending(ctx, orgID)
	if err != nil {
		return Result{}, fmt.Errorf("load pending training: %w", err)
	}
	res := Result{InputSummary: fmt.Sprintf("%d open training records", len(pending))}
	if len(pending) == 0 {
		res.OutputSummary = "no training gaps"
		return res, nil
	}

	// One notification per user, not per record.
	gaps := make(map[primitive.ObjectID]int)
	for _, tr := range pending {
		gaps[tr.UserID]++
	}

	var notified int
	for userID, count := range gaps {
		priority := models.PriorityMedium
		if count >= 3 {
			priority = models.PriorityHigh
		}
		_, err := a.Notifications.Create(ctx, models.Notification{
			UserID:   userID,
			Type:     "training_gap",
			Title:    "Open training assignments",
			Message:  fmt.Sprintf("You have %d open training assignments. Please complete them.", count),
			Priority: priority,
		})
		if err != nil {
			return res, fmt.Errorf("notify user %s: %w", userID.Hex(), err)
		}
		notified++
	}

	res.OutputSummary = fmt.Sprintf("%d users notified about %d open records", notified, len(pending))
	return res, nil
}
