package agentapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/agents"
	agentlogstore "github.com/anvarov/qmshub/internal/app/store/agentlogs"
	riskstore "github.com/anvarov/qmshub/internal/app/store/risks"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestRunAgent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	fixtures.CreateRisk(ctx, org.ID, "Machine breakdown", 3, 4)

	logs := agentlogstore.New(db)
	registry := agents.NewRegistry()
	registry.Register(agents.NewRiskPrediction(riskstore.New(db), &testutil.FakeLLM{Response: "0.5"}))
	h := NewHandler(registry, agents.NewExecutor(logs, zap.NewNop()), logs, zap.NewNop())

	req := httptest.NewRequest("POST", "/agents/risk_prediction/run", nil)
	req = testutil.WithChiURLParam(req, "name", agents.NameRiskPrediction)
	req = testutil.AsAdmin(req, org.ID)
	rec := httptest.NewRecorder()

	h.Run(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Run models.AgentLog `json:"run"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Run.ExecutionStatus != models.AgentRunSuccess {
		t.Errorf("run status = %q", resp.Run.ExecutionStatus)
	}
	if resp.Run.RunID == "" {
		t.Error("expected a run id")
	}

	// The run log is retrievable afterwards.
	getReq := httptest.NewRequest("GET", "/agents/logs/"+resp.Run.RunID, nil)
	getReq = testutil.WithChiURLParam(getReq, "runID", resp.Run.RunID)
	getReq = testutil.AsAdmin(getReq, org.ID)
	getRec := httptest.NewRecorder()
	h.GetLog(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get log status = %d", getRec.Code)
	}
}

func TestRunWithoutModelUnavailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")
	fixtures.CreateRisk(ctx, org.ID, "Machine breakdown", 3, 4)

	logs := agentlogstore.New(db)
	registry := agents.NewRegistry()
	registry.Register(agents.NewRiskPrediction(riskstore.New(db), nil))
	h := NewHandler(registry, agents.NewExecutor(logs, zap.NewNop()), logs, zap.NewNop())

	req := httptest.NewRequest("POST", "/agents/risk_prediction/run", nil)
	req = testutil.WithChiURLParam(req, "name", agents.NameRiskPrediction)
	req = testutil.AsAdmin(req, org.ID)
	rec := httptest.NewRecorder()

	h.Run(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRunUnknownAgent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fixtures := testutil.NewFixtures(t, db)
	org := fixtures.CreateOrganization(ctx, "Acme")

	logs := agentlogstore.New(db)
	h := NewHandler(agents.NewRegistry(), agents.NewExecutor(logs, zap.NewNop()), logs, zap.NewNop())

	req := httptest.NewRequest("POST", "/agents/nope/run", nil)
	req = testutil.WithChiURLParam(req, "name", "nope")
	req = testutil.AsAdmin(req, org.ID)
	rec := httptest.NewRecorder()

	h.Run(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
