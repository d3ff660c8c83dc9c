package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/config"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/engine"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.EmployeeDB = "" // seed roster
	cfg.RulesDir = ""   // builtin rules
	cfg.AuditLog = filepath.Join(dir, "audit.jsonl")
	cfg.JournalDB = filepath.Join(dir, "journal.db")
	cfg.PreclearDir = filepath.Join(dir, "pending")

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	out := decode(t, w)
	if out["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", out["status"])
	}
	if out["employees_loaded"].(float64) != 8 {
		t.Errorf("employees_loaded = %v, want 8", out["employees_loaded"])
	}
	if out["advisor"] != "heuristic" {
		t.Errorf("advisor = %v, want heuristic", out["advisor"])
	}
}

func TestCheckTradeActiveDeal(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/check-trade", map[string]any{
		"employee_id": "MCP001",
		"ticker":      "CRWD",
		"action":      "buy",
		"date":        "2026-03-02T14:30:00",
		"quantity":    100,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["decision"] != string(model.Prohibited) {
		t.Errorf("decision = %v, want PROHIBITED", out["decision"])
	}
	emp, ok := out["employee"].(map[string]any)
	if !ok || emp["employee_id"] != "MCP001" {
		t.Errorf("employee block = %v", out["employee"])
	}

	// Decisions are audited.
	data, err := os.ReadFile(s.cfg.AuditLog)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if !bytes.Contains(data, []byte("MCP001")) || !bytes.Contains(data, []byte("PROHIBITED")) {
		t.Errorf("audit log missing decision: %s", data)
	}
}

func TestCheckTradePreclearanceFilesRequest(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/check-trade", map[string]any{
		"employee_id": "MCP001",
		"ticker":      "IBM",
		"action":      "sell",
		"date":        "2026-03-02",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	out := decode(t, w)
	if out["decision"] != string(model.RequiresPreclearance) {
		t.Fatalf("decision = %v, want REQUIRES_PRECLEARANCE", out["decision"])
	}

	pending, err := s.preclear.List()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}
	if pending[0].EmployeeID != "MCP001" || pending[0].Ticker != "IBM" {
		t.Errorf("pending request = %+v", pending[0])
	}
}

func TestCheckTradeUnknownEmployee(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/check-trade", map[string]any{
		"employee_id": "MCP999",
		"ticker":      "AAPL",
		"action":      "buy",
		"date":        "2026-03-02",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}
}

func TestCheckTradeValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing fields", map[string]any{"employee_id": "MCP001"}},
		{"bad action", map[string]any{
			"employee_id": "MCP001", "ticker": "AAPL", "action": "short", "date": "2026-03-02",
		}},
		{"bad date", map[string]any{
			"employee_id": "MCP001", "ticker": "AAPL", "action": "buy", "date": "03/02/2026",
		}},
		{"negative quantity", map[string]any{
			"employee_id": "MCP001", "ticker": "AAPL", "action": "buy", "date": "2026-03-02", "quantity": -5,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, s, http.MethodPost, "/api/check-trade", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetEmployee(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/employee/MCP003", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decode(t, w)
	profile := out["profile"].(map[string]any)
	if profile["name"] != "Jennifer Martinez" {
		t.Errorf("name = %v", profile["name"])
	}
	if profile["tier"].(float64) != 2 {
		t.Errorf("tier = %v", profile["tier"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/employee/MCP999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown employee status = %d, want 404", w.Code)
	}
}

func TestListEmployees(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/employees", nil)
	out := decode(t, w)
	if out["count"].(float64) != 8 {
		t.Errorf("count = %v, want 8", out["count"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/employees?tier=1", nil)
	out = decode(t, w)
	if out["count"].(float64) != 2 {
		t.Errorf("tier 1 count = %v, want 2", out["count"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/employees?tier=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad tier status = %d, want 400", w.Code)
	}
}

func TestSearchEmployees(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/search/employees?q=chen", nil)
	out := decode(t, w)
	if out["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1", out["count"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/search/employees", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", w.Code)
	}
}

func TestGetRules(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/rules/Meridian%20Capital", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := decode(t, w)
	if out["content"] == "" {
		t.Error("empty rules content")
	}

	w = doJSON(t, s, http.MethodGet, "/api/rules/Unknown%20Firm", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown firm status = %d, want 404", w.Code)
	}
}

// rosterSwappingAdvisor swaps the roster out from under the request
// before answering, like a hot reload landing mid-decision.
type rosterSwappingAdvisor struct {
	s    *Server
	next *directory.Directory
}

func (a *rosterSwappingAdvisor) Name() string { return "heuristic" }

func (a *rosterSwappingAdvisor) Review(ctx context.Context, req advisor.Request) (model.ComplianceDecision, error) {
	a.s.mu.Lock()
	a.s.dir = a.next
	a.s.mu.Unlock()
	return policy.Fallback(req.Employee, req.Trade.Ticker), nil
}

func TestCheckTradeSurvivesMidRequestReload(t *testing.T) {
	s := newTestServer(t)

	empty, err := directory.New(nil)
	if err != nil {
		t.Fatalf("directory.New: %v", err)
	}
	s.engine = engine.New(s, s, &rosterSwappingAdvisor{s: s, next: empty}, s.cfg.Firm)

	w := doJSON(t, s, http.MethodPost, "/api/check-trade", map[string]any{
		"employee_id": "MCP001",
		"ticker":      "CRWD",
		"action":      "buy",
		"date":        "2026-03-02",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	out := decode(t, w)
	if out["decision"] != string(model.Prohibited) {
		t.Errorf("decision = %v, want PROHIBITED", out["decision"])
	}
	emp, ok := out["employee"].(map[string]any)
	if !ok || emp["employee_id"] != "MCP001" {
		t.Errorf("employee block = %v, want pre-reload snapshot", out["employee"])
	}
	if s.Get("MCP001") != nil {
		t.Fatal("roster swap did not take effect")
	}
}

func TestReloadSwapsRoster(t *testing.T) {
	dir := t.TempDir()
	rosterPath := filepath.Join(dir, "employees.json")
	roster := `{"employees":[{"employee_id":"EMP100","name":"Test Person","title":"Analyst","department":"Research","tier":3}]}`
	if err := os.WriteFile(rosterPath, []byte(roster), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.EmployeeDB = rosterPath
	cfg.PreclearDir = filepath.Join(dir, "pending")
	cfg.AuditLog = ""
	cfg.JournalDB = ""

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if s.Get("EMP100") == nil {
		t.Fatal("EMP100 not loaded")
	}

	updated := `{"employees":[{"employee_id":"EMP200","name":"New Person","title":"Trader","department":"Trading","tier":2}]}`
	if err := os.WriteFile(rosterPath, []byte(updated), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Get("EMP100") != nil {
		t.Error("EMP100 still present after reload")
	}
	if s.Get("EMP200") == nil {
		t.Error("EMP200 missing after reload")
	}
}
