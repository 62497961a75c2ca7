package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yhjeon/assemblybook/internal/aggregate"
	"github.com/yhjeon/assemblybook/internal/book"
	"github.com/yhjeon/assemblybook/internal/narrative"
	ledgersvc "github.com/yhjeon/assemblybook/internal/service/ledger"
	"github.com/yhjeon/assemblybook/internal/storage/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func setup(t *testing.T) (*ledgersvc.Service, http.Handler) {
	t.Helper()
	store := memory.New()
	svc, err := ledgersvc.New(context.Background(), store, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	h := New(svc, nil, nil, testLogger()).Handler()
	return svc, h
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPutCounting(t *testing.T) {
	_, h := setup(t)

	rec := do(t, h, http.MethodPut, "/v1/counting/monday/dawn/10000", map[string]any{"quantity": 3})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var sum aggregate.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.TotalOffering != 30000 {
		t.Fatalf("total offering = %d", sum.TotalOffering)
	}

	// Sunday has no dawn service.
	rec = do(t, h, http.MethodPut, "/v1/counting/sunday/dawn/10000", map[string]any{"quantity": 1})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestQuantityCoercion(t *testing.T) {
	_, h := setup(t)

	// Free-text amounts coerce: grouped digits parse, junk becomes zero.
	rec := do(t, h, http.MethodPut, "/v1/counting/monday/dawn/50000", map[string]any{"quantity": "2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("string quantity rejected: %d %s", rec.Code, rec.Body.String())
	}
	var sum aggregate.Summary
	_ = json.Unmarshal(rec.Body.Bytes(), &sum)
	if sum.TotalOffering != 100000 {
		t.Fatalf("total offering = %d", sum.TotalOffering)
	}

	rec = do(t, h, http.MethodPut, "/v1/counting/monday/dawn/50000", map[string]any{"quantity": "abc"})
	if rec.Code != http.StatusOK {
		t.Fatalf("junk quantity rejected: %d", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &sum)
	if sum.TotalOffering != 0 {
		t.Fatalf("junk quantity did not coerce to zero: %d", sum.TotalOffering)
	}
}

func TestDetailSyncOverHTTP(t *testing.T) {
	svc, h := setup(t)

	rec := do(t, h, http.MethodPost, "/v1/personal/categories", map[string]any{"name": "Taxi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/v1/personal/categories/Taxi/details", map[string]any{
		"name":          "airport run",
		"amount":        "12,000",
		"sync_category": "Operations",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create detail: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
		Linked bool   `json:"linked"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Amount != 12000 || !created.Linked {
		t.Fatalf("unexpected detail: %+v", created)
	}

	doc := svc.Document()
	if doc.Expenses["Operations"] != 12000 {
		t.Fatalf("mirror total = %d", doc.Expenses["Operations"])
	}
	mirror := doc.ExpenseDetails["Operations"][0]

	// The mirror refuses deletion from the institutional side.
	rec = do(t, h, http.MethodDelete, "/v1/institutional/categories/Operations/details/"+mirror.ID.String(), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var er errResp
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Code != "linked_detail" {
		t.Fatalf("error code = %q", er.Code)
	}

	// Disconnect via PATCH with an empty sync target, then delete both sides.
	rec = do(t, h, http.MethodPatch, "/v1/personal/categories/Taxi/details/"+created.ID, map[string]any{
		"name":   "airport run",
		"amount": 12000,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch: %d %s", rec.Code, rec.Body.String())
	}
	doc = svc.Document()
	if len(doc.ExpenseDetails["Operations"]) != 0 || doc.Expenses["Operations"] != 0 {
		t.Fatalf("mirror survived disconnect")
	}
	rec = do(t, h, http.MethodDelete, "/v1/personal/categories/Taxi/details/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete personal: %d", rec.Code)
	}
}

func TestUnknownNamespace(t *testing.T) {
	_, h := setup(t)
	rec := do(t, h, http.MethodPost, "/v1/corporate/categories", map[string]any{"name": "X"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestBankWithdrawalOverHTTP(t *testing.T) {
	_, h := setup(t)

	do(t, h, http.MethodPost, "/v1/personal/categories", map[string]any{"name": "Taxi"})
	do(t, h, http.MethodPost, "/v1/personal/categories/Taxi/details", map[string]any{"name": "airport run", "amount": 12000})

	rec := do(t, h, http.MethodPost, "/v1/bank/records", map[string]any{"type": "withdraw", "category": "Taxi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("withdraw: %d %s", rec.Code, rec.Body.String())
	}
	var br struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &br)
	if br.Amount != 12000 {
		t.Fatalf("withdrawal amount = %d", br.Amount)
	}

	rec = do(t, h, http.MethodPost, "/v1/bank/records", map[string]any{"type": "withdraw", "category": "Taxi"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second withdrawal: %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/v1/bank/records", map[string]any{"type": "teleport"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad type: %d", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/v1/bank/records/"+br.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete record: %d", rec.Code)
	}
}

func TestReportOverridesOverHTTP(t *testing.T) {
	_, h := setup(t)

	do(t, h, http.MethodPost, "/v1/institutional/categories/Operations/details", map[string]any{"name": "paper", "amount": 40000})

	rec := do(t, h, http.MethodPut, "/v1/report/overrides/Operations", map[string]any{"name": "Facility", "amount": 45000})
	if rec.Code != http.StatusOK {
		t.Fatalf("put override: %d %s", rec.Code, rec.Body.String())
	}
	var rep struct {
		Rows []struct {
			Category string `json:"category"`
			Name     string `json:"name"`
			Amount   int64  `json:"amount"`
		} `json:"rows"`
		ExpenseTotal int64 `json:"expense_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, row := range rep.Rows {
		if row.Category == "Operations" {
			found = true
			if row.Name != "Facility" || row.Amount != 45000 {
				t.Fatalf("override not applied: %+v", row)
			}
		}
	}
	if !found {
		t.Fatalf("operations row missing")
	}
	if rep.ExpenseTotal != 45000 {
		t.Fatalf("edited total = %d", rep.ExpenseTotal)
	}

	// The canonical report is untouched.
	rec = do(t, h, http.MethodGet, "/v1/report", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.ExpenseTotal != 40000 {
		t.Fatalf("canonical total = %d", rep.ExpenseTotal)
	}

	rec = do(t, h, http.MethodDelete, "/v1/report/overrides", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear overrides: %d", rec.Code)
	}
}

func TestReportOrderHonorariumFirst(t *testing.T) {
	_, h := setup(t)
	rec := do(t, h, http.MethodGet, "/v1/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report: %d", rec.Code)
	}
	var rep struct {
		Rows []struct {
			Category string `json:"category"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rep.Rows) == 0 || rep.Rows[0].Category != book.CategoryInstructorHonorarium {
		t.Fatalf("first row = %+v", rep.Rows)
	}
}

func TestImportRejectsBadJSONAtomically(t *testing.T) {
	svc, h := setup(t)

	do(t, h, http.MethodPut, "/v1/counting/monday/dawn/10000", map[string]any{"quantity": 3})

	req := httptest.NewRequest(http.MethodPost, "/v1/import", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	doc := svc.Document()
	if doc.Counting[book.DayMonday][book.SlotDawn][10000] != 3 {
		t.Fatalf("failed import clobbered the document")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, h := setup(t)

	do(t, h, http.MethodPut, "/v1/counting/monday/dawn/10000", map[string]any{"quantity": 3})

	rec := do(t, h, http.MethodGet, "/v1/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "assembly_finance_") {
		t.Fatalf("content disposition = %q", cd)
	}
	exported := rec.Body.Bytes()

	// Reset, then import the snapshot back.
	if rc := do(t, h, http.MethodPost, "/v1/reset", nil); rc.Code != http.StatusOK {
		t.Fatalf("reset: %d", rc.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/import", bytes.NewReader(exported))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: %d %s", rec.Code, rec.Body.String())
	}
	doc := svc.Document()
	if doc.Counting[book.DayMonday][book.SlotDawn][10000] != 3 {
		t.Fatalf("round trip lost data")
	}
}

func TestNarrativeFallsBackWithoutNarrator(t *testing.T) {
	_, h := setup(t)
	rec := do(t, h, http.MethodGet, "/v1/summary/narrative", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("narrative: %d", rec.Code)
	}
	var nr struct {
		Narrative string `json:"narrative"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &nr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if nr.Narrative != narrative.Fallback {
		t.Fatalf("narrative = %q", nr.Narrative)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, h := setup(t)
	if rec := do(t, h, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}
}
