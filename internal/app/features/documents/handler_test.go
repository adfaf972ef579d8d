package documents

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	documentstore "github.com/anvarov/qmshub/internal/app/store/documents"
	"github.com/anvarov/qmshub/internal/domain/models"
	"github.com/anvarov/qmshub/internal/testutil"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewHandler(documentstore.New(db), zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestCreateDocument(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)
	org := fixtures.CreateOrganization(ctx, "Acme")

	body := `{"title":"Welding Procedure","doc_type":"Procedure","content":"Weld carefully."}`
	req := httptest.NewRequest("POST", "/documents", strings.NewReader(body))
	req = testutil.AsUser(req, models.RoleProcessOwner, org.ID)
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Document models.Document `json:"document"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Document.Status != models.DocumentDraft {
		t.Errorf("status = %q, want Draft", resp.Document.Status)
	}
	if resp.Document.OrganizationID != org.ID {
		t.Error("document not scoped to caller's organization")
	}
}

func TestCreateDocumentRejectsUnknownType(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)
	org := fixtures.CreateOrganization(ctx, "Acme")

	body := `{"title":"Bad","doc_type":"Novel"}`
	req := httptest.NewRequest("POST", "/documents", strings.NewReader(body))
	req = testutil.AsUser(req, models.RoleProcessOwner, org.ID)
	rec := httptest.NewRecorder()

	h.Create(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateStatusWalksWorkflow(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)
	org := fixtures.CreateOrganization(ctx, "Acme")
	doc := fixtures.CreateDocument(ctx, org.ID, "Calibration", "Procedure")

	send := func(status, role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PATCH", "/documents/"+doc.ID.Hex()+"/status",
			strings.NewReader(`{"status":"`+status+`"}`))
		req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
		req = testutil.AsUser(req, role, org.ID)
		rec := httptest.NewRecorder()
		h.UpdateStatus(rec, req)
		return rec
	}

	// Draft straight to Approved is not a legal move.
	if rec := send(models.DocumentApproved, models.RoleAdmin); rec.Code != http.StatusConflict {
		t.Fatalf("Draft->Approved status = %d, want 409", rec.Code)
	}

	if rec := send(models.DocumentReview, models.RoleProcessOwner); rec.Code != http.StatusOK {
		t.Fatalf("Draft->Review status = %d, body: %s", rec.Code, rec.Body.String())
	}

	// Approval needs the approve permission; a process owner cannot.
	if rec := send(models.DocumentApproved, models.RoleProcessOwner); rec.Code != http.StatusForbidden {
		t.Fatalf("process owner approval status = %d, want 403", rec.Code)
	}

	if rec := send(models.DocumentApproved, models.RoleAdmin); rec.Code != http.StatusOK {
		t.Fatalf("Review->Approved status = %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestGetDocumentOtherOrgIsNotFound(t *testing.T) {
	h, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)
	org := fixtures.CreateOrganization(ctx, "Acme")
	other := fixtures.CreateOrganization(ctx, "Globex")
	doc := fixtures.CreateDocument(ctx, org.ID, "Secret SOP", "Procedure")

	req := httptest.NewRequest("GET", "/documents/"+doc.ID.Hex(), nil)
	req = testutil.WithChiURLParam(req, "id", doc.ID.Hex())
	req = testutil.AsUser(req, models.RoleProcessOwner, other.ID)
	rec := httptest.NewRecorder()

	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
