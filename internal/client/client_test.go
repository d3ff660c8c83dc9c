package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/meridiancap/tradegate/internal/config"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/server"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.PreclearDir = filepath.Join(dir, "pending")
	cfg.AuditLog = ""
	cfg.JournalDB = ""

	s, err := server.New(cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return ts
}

func TestCheckTrade(t *testing.T) {
	ts := newBackend(t)
	c := New(ts.URL)

	resp, err := c.CheckTrade(context.Background(), "MCP001", "NVDA", "buy", time.Now(), 100)
	if err != nil {
		t.Fatalf("CheckTrade: %v", err)
	}
	if resp.Decision != model.Prohibited {
		t.Errorf("decision = %s, want PROHIBITED", resp.Decision)
	}
	if resp.Employee.EmployeeID != "MCP001" {
		t.Errorf("employee = %+v", resp.Employee)
	}
	if resp.Request.Ticker != "NVDA" {
		t.Errorf("request echo = %+v", resp.Request)
	}
}

func TestCheckTradeUnknownEmployee(t *testing.T) {
	ts := newBackend(t)
	c := New(ts.URL)

	_, err := c.CheckTrade(context.Background(), "MCP999", "AAPL", "buy", time.Now(), 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestEmployeeAndSearch(t *testing.T) {
	ts := newBackend(t)
	c := New(ts.URL)

	emp, err := c.Employee(context.Background(), "MCP006")
	if err != nil {
		t.Fatalf("Employee: %v", err)
	}
	profile := emp["profile"].(map[string]any)
	if profile["name"] != "Rachel Winters" {
		t.Errorf("name = %v", profile["name"])
	}

	res, err := c.SearchEmployees(context.Background(), "kumar")
	if err != nil {
		t.Fatalf("SearchEmployees: %v", err)
	}
	if res["count"].(float64) != 1 {
		t.Errorf("count = %v, want 1", res["count"])
	}
}

func TestEmployeesByTier(t *testing.T) {
	ts := newBackend(t)
	c := New(ts.URL)

	res, err := c.Employees(context.Background(), 1)
	if err != nil {
		t.Fatalf("Employees: %v", err)
	}
	if res["count"].(float64) != 2 {
		t.Errorf("tier 1 count = %v, want 2", res["count"])
	}
}

func TestRulesAndHealth(t *testing.T) {
	ts := newBackend(t)
	c := New(ts.URL)

	content, err := c.Rules(context.Background(), "Meridian Capital")
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if content == "" {
		t.Error("empty rules content")
	}

	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h["status"] != "healthy" {
		t.Errorf("status = %v", h["status"])
	}
}

func TestServerUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1")
	if _, err := c.Health(context.Background()); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
