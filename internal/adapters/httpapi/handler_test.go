package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/usecase"
	"github.com/atvirokodosprendimai/seqnotes/internal/logger"
	"github.com/atvirokodosprendimai/seqnotes/migrations"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := gormsqlite.Open(filepath.Join(t.TempDir(), "api.sqlite"), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	wdb, err := db.WriteSQLDB()
	if err != nil {
		t.Fatalf("write db: %v", err)
	}
	if err := migrations.Up(context.Background(), wdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	v := domain.NewRecordValidator(domain.LengthRuleCodon)
	users := sqlite.NewUserRepository(db)
	h, err := NewHandler(Services{
		Users:         usecase.NewUserService(users),
		Sequences:     usecase.NewSequenceService(sqlite.NewSequenceRepository(db, v), users, v),
		Documents:     usecase.NewDocumentService(sqlite.NewDocumentRepository(db, v), users, v),
		Comments:      usecase.NewCommentService(sqlite.NewCommentRepository(db, v), users, sqlite.NewTargetResolver(db), v),
		Notifications: usecase.NewNotificationService(sqlite.NewNotificationRepository(db, v), v),
	}, logger.Nop())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return h.Router()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func createUser(t *testing.T, h http.Handler, name string) int64 {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/users", fmt.Sprintf(`{"username":%q}`, name))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return int64(decodeBody(t, rec)["id"].(float64))
}

func TestHealthz(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(traceIDHeader) == "" {
		t.Fatal("expected generated trace id")
	}
}

func TestTraceIDEchoed(t *testing.T) {
	h := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(traceIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(traceIDHeader); got != "trace-123" {
		t.Fatalf("expected echoed trace id, got %q", got)
	}
}

func TestCreateSequenceRoundTrip(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/sequences",
		fmt.Sprintf(`{"owner_id":%d,"protein_sequence":"M","dna_sequence":"ATG"}`, owner))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id := int64(decodeBody(t, rec)["id"].(float64))

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/v1/sequences/%d", id), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["dna_sequence"]; got != "ATG" {
		t.Fatalf("unexpected dna_sequence %v", got)
	}
}

func TestCreateSequenceLengthMismatch(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/sequences",
		fmt.Sprintf(`{"owner_id":%d,"protein_sequence":"MK","dna_sequence":"ATG"}`, owner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["field"] != domain.FieldDNASequence {
		t.Fatalf("unexpected field %v", payload["field"])
	}
	if payload["code"] != string(domain.CodeInvalidLength) {
		t.Fatalf("unexpected code %v", payload["code"])
	}
}

func TestCreateSequenceMissingField(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/sequences", fmt.Sprintf(`{"owner_id":%d,"dna_sequence":"ATG"}`, owner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["field"]; got != domain.FieldProteinSequence {
		t.Fatalf("unexpected field %v", got)
	}
}

func TestCreateSequenceUnknownOwner(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/sequences", `{"owner_id":99,"protein_sequence":"M","dna_sequence":"ATG"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["code"]; got != string(domain.CodeInvalidReference) {
		t.Fatalf("unexpected code %v", got)
	}
}

func TestCreateRejectsUnknownFields(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/users", `{"username":"alice","extra":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["code"]; got != "invalid_body" {
		t.Fatalf("unexpected code %v", got)
	}
}

func TestCreateRejectsWrongTypes(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/sequences", `{"owner_id":"one","protein_sequence":"M","dna_sequence":"ATG"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRejectsTrailingJSON(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/users", `{"username":"alice"} {}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := testRouter(t)
	body := `{"username":"` + strings.Repeat("a", maxJSONBodySize) + `"}`
	rec := do(t, h, http.MethodPost, "/v1/users", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestDocumentBodyEscaped(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/documents", fmt.Sprintf(`{"owner_id":%d,"body":"<b>hi</b>"}`, owner))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["body"]; got != "&lt;b&gt;hi&lt;/b&gt;" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestCommentLifecycle(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/documents", fmt.Sprintf(`{"owner_id":%d,"body":"notes"}`, owner))
	docID := int64(decodeBody(t, rec)["id"].(float64))

	rec = do(t, h, http.MethodPost, "/v1/comments",
		fmt.Sprintf(`{"owner_id":%d,"target_type":"document","target_id":%d,"body":"nice"}`, owner, docID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/v1/comments?target_type=document&target_id=%d", docID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if items := decodeBody(t, rec)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(items))
	}

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/v1/documents/%d", docID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/v1/comments?target_type=document&target_id=%d", docID), "")
	if items := decodeBody(t, rec)["items"].([]any); len(items) != 0 {
		t.Fatalf("expected comments removed with document, got %d", len(items))
	}
}

func TestCommentMissingTarget(t *testing.T) {
	h := testRouter(t)
	owner := createUser(t, h, "alice")

	rec := do(t, h, http.MethodPost, "/v1/comments",
		fmt.Sprintf(`{"owner_id":%d,"target_type":"sequence","target_id":404,"body":"hm"}`, owner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["field"]; got != domain.FieldTargetID {
		t.Fatalf("unexpected field %v", got)
	}
}

func TestListCommentsBadTarget(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/comments?target_type=user&target_id=1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestNotificationLinkValidation(t *testing.T) {
	h := testRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/notifications", `{"kind":"Link","message":"see docs"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["code"]; got != string(domain.CodeInvalidLink) {
		t.Fatalf("unexpected code %v", got)
	}

	rec = do(t, h, http.MethodPost, "/v1/notifications", `{"kind":"Link","message":"https://example.com/docs"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNotificationKindIsCaseSensitive(t *testing.T) {
	h := testRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/notifications", `{"kind":"link","message":"https://example.com/docs"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["code"] != string(domain.CodeInvalidChoice) {
		t.Fatalf("unexpected code %v", payload["code"])
	}
	if payload["field"] != domain.FieldNotificationKind {
		t.Fatalf("unexpected field %v", payload["field"])
	}
}

func TestListBadLimitReturnsBadRequest(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/sequences?limit=bad", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListNegativeCursorReturnsBadRequest(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/documents?after=-1", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetNotFoundReturns404(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/sequences/404", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInvalidIDReturnsBadRequest(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/users/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWriteJSONEncodeErrorHandled(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	writeJSON(rec, req, http.StatusOK, map[string]any{"bad": func() {}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestHandleDomainErrorFieldError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handleDomainError(rec, req, domain.InvalidReference(domain.FieldOwner))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["field"] != domain.FieldOwner {
		t.Fatalf("unexpected field %v", payload["field"])
	}
}

func TestHandleDomainErrorUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handleDomainError(rec, req, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
