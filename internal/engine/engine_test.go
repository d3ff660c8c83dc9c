package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
	"github.com/meridiancap/tradegate/internal/rules"
)

func deterministicEngine() *Engine {
	return New(directory.NewDefault(), rules.NewDefault(), advisor.NewHeuristic(), rules.DefaultFirm)
}

func trade(employeeID, ticker string) model.TradeRequest {
	return model.TradeRequest{
		EmployeeID: employeeID,
		Ticker:     ticker,
		Action:     model.Buy,
		TradeDate:  time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
	}
}

func TestDecideActiveDealProhibited(t *testing.T) {
	e := deterministicEngine()

	// MCP001 is staffed on the CRWD deal.
	d, err := e.Decide(context.Background(), trade("MCP001", "CRWD"))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Decision != model.Prohibited || d.Confidence != 0.99 {
		t.Errorf("expected PROHIBITED 0.99, got %s %v", d.Decision, d.Confidence)
	}
	if d.ApplicableRules[0] != "Rule 1.1: Active Deal Prohibition" {
		t.Errorf("expected active-deal citation, got %v", d.ApplicableRules)
	}
}

func TestDecideNormalizesTicker(t *testing.T) {
	e := deterministicEngine()

	d, err := e.Decide(context.Background(), trade("MCP003", " aapl "))
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	// AAPL is in MCP003's coverage list.
	if d.Decision != model.Prohibited {
		t.Errorf("expected coverage prohibition after normalization, got %s", d.Decision)
	}
	if !strings.Contains(d.Reason, "AAPL") {
		t.Errorf("reason should cite normalized ticker, got %q", d.Reason)
	}
}

func TestDecideTierDefaults(t *testing.T) {
	e := deterministicEngine()
	cases := []struct {
		employee   string
		want       model.Decision
		confidence float64
	}{
		{"MCP001", model.RequiresPreclearance, 0.85}, // tier 1, no conflict on SPY
		{"MCP004", model.RequiresPreclearance, 0.80}, // tier 2
		{"MCP006", model.Approved, 0.75},             // tier 3
		{"MCP008", model.Approved, 0.75},             // tier 4
	}
	for _, c := range cases {
		d, err := e.Decide(context.Background(), trade(c.employee, "SPY"))
		if err != nil {
			t.Fatalf("Decide(%s): %v", c.employee, err)
		}
		if d.Decision != c.want || d.Confidence != c.confidence {
			t.Errorf("%s: got %s %v, want %s %v",
				c.employee, d.Decision, d.Confidence, c.want, c.confidence)
		}
	}
}

func TestDecideUnknownEmployee(t *testing.T) {
	e := deterministicEngine()

	d, err := e.Decide(context.Background(), trade("MCP999", "AAPL"))
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	if d.Decision != model.DecisionError {
		t.Errorf("expected ERROR decision, got %s", d.Decision)
	}
	if !strings.Contains(d.Reason, "MCP999") {
		t.Errorf("reason should reference the missing identifier, got %q", d.Reason)
	}
}

func TestDecideFallbackMatchesOracle(t *testing.T) {
	e := deterministicEngine()
	dir := directory.NewDefault()

	for _, emp := range dir.All() {
		for _, ticker := range []string{"CRWD", "AAPL", "NVDA", "SPY"} {
			got, err := e.Decide(context.Background(), trade(emp.EmployeeID, ticker))
			if err != nil {
				t.Fatalf("Decide(%s, %s): %v", emp.EmployeeID, ticker, err)
			}
			want := policy.Fallback(emp, ticker)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("%s/%s: engine diverges from deterministic oracle", emp.EmployeeID, ticker)
			}
		}
	}
}

func TestDecideIdempotent(t *testing.T) {
	e := deterministicEngine()
	a, _ := e.Decide(context.Background(), trade("MCP004", "SAFE"))
	b, _ := e.Decide(context.Background(), trade("MCP004", "SAFE"))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("deterministic path not idempotent:\n%+v\n%+v", a, b)
	}
}

// failingAdvisor simulates a configured but unreachable reasoning service.
type failingAdvisor struct{}

func (failingAdvisor) Name() string { return "failing" }
func (failingAdvisor) Review(context.Context, advisor.Request) (model.ComplianceDecision, error) {
	return model.ComplianceDecision{}, errors.New("connection refused")
}

func TestDecideServiceFailure(t *testing.T) {
	e := New(directory.NewDefault(), rules.NewDefault(), failingAdvisor{}, rules.DefaultFirm)

	d, err := e.Decide(context.Background(), trade("MCP004", "SPY"))
	if !errors.Is(err, ErrServiceFailure) {
		t.Fatalf("expected ErrServiceFailure, got %v", err)
	}
	if d.Decision != model.DecisionError {
		t.Errorf("expected ERROR decision, got %s", d.Decision)
	}
	if d.RequiresAction != "Contact support" {
		t.Errorf("expected contact-support action, got %q", d.RequiresAction)
	}
	// A configured-but-failing service must never masquerade as the
	// deterministic fallback.
	if d.Decision == model.RequiresPreclearance {
		t.Error("service failure silently replaced by fallback decision")
	}
}
