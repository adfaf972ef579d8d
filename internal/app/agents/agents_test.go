package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	agentlogstore "github.com/anvarov/qmshub/internal/app/store/agentlogs"
	equipmentstore "github.com/anvarov/qmshub/internal/app/store/equipment"
	notificationstore "github.com/anvarov/qmshub/internal/app/store/notifications"
	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	supplierstore "github.com/anvarov/qmshub/internal/app/store/suppliers"
	trainingstore "github.com/anvarov/qmshub/internal/app/store/training"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestParseConfidence(t *testing.T) {
	cases := []struct {
		answer  string
		want    float64
		wantErr bool
	}{
		{"0.75", 0.75, false},
		{"The confidence is 0.3.", 0.3, false},
		{"80%", 0.8, false},
		{"Roughly 45 percent", 0.45, false},
		{"1", 1, false},
		{"no numbers here", 0, true},
	}
	for _, tc := range cases {
		got, err := parseConfidence(tc.answer)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseConfidence(%q): expected error, got %v", tc.answer, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseConfidence(%q): %v", tc.answer, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseConfidence(%q) = %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestSplitCauses(t *testing.T) {
	answer := "1. Operator fatigue\n- Missing calibration\n\n* Outdated work instruction\n4. A fourth cause"
	causes := splitCauses(answer)
	if len(causes) != 3 {
		t.Fatalf("expected 3 causes, got %d: %v", len(causes), causes)
	}
	if causes[0] != "Operator fatigue" {
		t.Errorf("first cause = %q", causes[0])
	}
	if causes[2] != "Outdated work instruction" {
		t.Errorf("third cause = %q", causes[2])
	}
}

func TestRiskPredictionRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	risk := fixtures.CreateRisk(ctx, org.ID, "Supplier delay", 4, 5)

	risks := riskstore.New(db)
	agent := NewRiskPrediction(risks, &testutil.FakeLLM{Response: "0.65"})

	res, err := agent.Run(ctx, org.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Partial {
		t.Error("expected a complete run")
	}

	updated, err := risks.GetByID(ctx, risk.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.AIConfidence == nil || *updated.AIConfidence != 0.65 {
		t.Errorf("confidence = %v, want 0.65", updated.AIConfidence)
	}
}

func TestRiskPredictionWithoutModel(t *testing.T) {
	agent := NewRiskPrediction(nil, nil)
	if _, err := agent.Run(context.Background(), primitive.NewObjectID()); err == nil {
		t.Fatal("expected error without a model")
	}
}

func TestPredictiveMaintenanceRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")

	equipment := equipmentstore.New(db)
	last := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	eq, err := equipment.Create(ctx, models.Equipment{
		OrganizationID:       org.ID,
		Name:                 "CMM-1",
		Status:               models.EquipmentActive,
		LastMaintenance:      &last,
		MaintenanceFrequency: "Monthly",
	})
	if err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	// No maintenance history at all: skipped.
	if _, err := equipment.Create(ctx, models.Equipment{
		OrganizationID: org.ID,
		Name:           "CMM-2",
		Status:         models.EquipmentActive,
	}); err != nil {
		t.Fatalf("create equipment: %v", err)
	}

	agent := NewPredictiveMaintenance(equipment)
	agent.Now = func() time.Time { return time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC) }

	res, err := agent.Run(ctx, org.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Partial {
		t.Error("expected a partial run with one skipped item")
	}

	updated, err := equipment.GetByID(ctx, eq.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if updated.PredictedMaintenanceDate == nil {
		t.Fatal("expected a predicted maintenance date")
	}
	want := last.Add(30 * 24 * time.Hour)
	if !updated.PredictedMaintenanceDate.Equal(want) {
		t.Errorf("predicted = %v, want %v", updated.PredictedMaintenanceDate, want)
	}
}

func TestTrainingGapAnalysisRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	user := fixtures.CreateUser(ctx, org.ID, "worker@acme.test", models.RoleViewer)
	fixtures.CreateTraining(ctx, org.ID, user.ID, "ISO refresher", models.TrainingPending)
	fixtures.CreateTraining(ctx, org.ID, user.ID, "Machine safety", models.TrainingExpired)
	fixtures.CreateTraining(ctx, org.ID, user.ID, "Onboarding", models.TrainingCompleted)

	notifications := notificationstore.New(db)
	agent := NewTrainingGapAnalysis(trainingstore.New(db), notifications)

	if _, err := agent.Run(ctx, org.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	msgs, err := notifications.ListForUser(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one aggregated notification, got %d", len(msgs))
	}
	if msgs[0].Type != "training_gap" {
		t.Errorf("notification type = %q", msgs[0].Type)
	}
}

func TestSupplierEvaluationRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	sup := fixtures.CreateSupplier(ctx, org.ID, "Steelworks", 95, 2)

	suppliers := supplierstore.New(db)
	agent := NewSupplierEvaluation(suppliers, &testutil.FakeLLM{Response: "Keep this supplier."})

	if _, err := agent.Run(ctx, org.ID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	updated, err := suppliers.GetByID(ctx, sup.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// 95*0.6 + 98*0.4 = 96.2
	if updated.PerformanceScore < 96.1 || updated.PerformanceScore > 96.3 {
		t.Errorf("performance score = %v, want ~96.2", updated.PerformanceScore)
	}
	if updated.AIRecommendation != "Keep this supplier." {
		t.Errorf("recommendation = %q", updated.AIRecommendation)
	}
}

func TestExecutorRecordsRuns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	logs := agentlogstore.New(db)
	exec := NewExecutor(logs, zap.NewNop())
	orgID := primitive.NewObjectID()

	run, err := exec.Execute(ctx, stubAgent{name: "stub", result: Result{OutputSummary: "done"}}, orgID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if run.Entry.RunID == "" {
		t.Error("expected a run id")
	}
	if run.Entry.ExecutionStatus != models.AgentRunSuccess {
		t.Errorf("status = %q", run.Entry.ExecutionStatus)
	}
	if run.Err != nil {
		t.Errorf("run error = %v", run.Err)
	}

	boom := errors.New("boom")
	failed, err := exec.Execute(ctx, stubAgent{name: "stub", err: boom}, orgID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if failed.Entry.ExecutionStatus != models.AgentRunFailed || failed.Entry.ErrorMessage != "boom" {
		t.Errorf("failed run = %+v", failed.Entry)
	}
	if !errors.Is(failed.Err, boom) {
		t.Errorf("failed run error = %v, want the agent's error", failed.Err)
	}

	stored, err := logs.GetByRunID(ctx, run.Entry.RunID)
	if err != nil {
		t.Fatalf("GetByRunID: %v", err)
	}
	if stored.AgentName != "stub" || stored.OutputSummary != "done" {
		t.Errorf("stored run = %+v", stored)
	}
}

type stubAgent struct {
	name   string
	result Result
	err    error
}

func (s stubAgent) Name() string { return s.name }

func (s stubAgent) Run(context.Context, primitive.ObjectID) (Result, error) {
	return s.result, s.err
}
