package configinfo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServeISOClauses(t *testing.T) {
	h := NewHandler(Flags{})
	rec := httptest.NewRecorder()
	h.ServeISOClauses(rec, httptest.NewRequest("GET", "/config/iso-clauses", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Clauses map[string]string `json:"iso_clauses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Clauses) != 7 {
		t.Errorf("clause count = %d, want 7", len(resp.Clauses))
	}
	if resp.Clauses["9"] != "Performance Evaluation" {
		t.Errorf("clause 9 = %q", resp.Clauses["9"])
	}
}

func TestServeRBAC(t *testing.T) {
	h := NewHandler(Flags{})
	rec := httptest.NewRecorder()
	h.ServeRBAC(rec, httptest.NewRequest("GET", "/config/rbac", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		RBAC map[string]struct {
			Permissions []string `json:"permissions"`
		} `json:"rbac"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, role := range []string{"Admin", "Process_Owner", "Auditor", "Viewer"} {
		if _, ok := resp.RBAC[role]; !ok {
			t.Errorf("missing role %s", role)
		}
	}
	if len(resp.RBAC["Viewer"].Permissions) == 0 {
		t.Error("Viewer has no permissions")
	}
}

func TestServeFeatures(t *testing.T) {
	h := NewHandler(Flags{RiskPrediction: true, RootCauseAnalysis: true})
	rec := httptest.NewRecorder()
	h.ServeFeatures(rec, httptest.NewRequest("GET", "/config/features", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Features map[string]bool `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Features["risk_prediction"] || resp.Features["supplier_evaluation"] {
		t.Errorf("unexpected feature flags: %v", resp.Features)
	}
}
