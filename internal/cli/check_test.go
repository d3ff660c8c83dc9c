package cli

import (
	"strings"
	"testing"

	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

func TestFormatDecisionTier(t *testing.T) {
	// Tier is numeric on the wire; the formatter must render it with
	// its label, not treat it as text.
	d := policy.Fallback(directory.NewDefault().Get("MCP001"), "IBM")
	if d.Tier != 1 {
		t.Fatalf("tier = %d, want 1", d.Tier)
	}

	out := formatDecision(d)
	if !strings.Contains(out, "Tier:       1 (Investment Banking (Most Restrictive))") {
		t.Errorf("tier line missing or malformed:\n%s", out)
	}
	if !strings.Contains(out, "Decision:   REQUIRES_PRECLEARANCE (confidence 0.85)") {
		t.Errorf("decision line missing:\n%s", out)
	}
	if !strings.Contains(out, "Condition:  24-hour pre-clearance required") {
		t.Errorf("conditions missing:\n%s", out)
	}
	if !strings.Contains(out, "Turnaround: 24 hours") {
		t.Errorf("turnaround missing:\n%s", out)
	}
}

func TestFormatDecisionZeroTierOmitted(t *testing.T) {
	d := model.ComplianceDecision{
		Decision:   model.DecisionError,
		Confidence: 0,
		Reason:     "Employee MCP999 not found in database",
	}

	out := formatDecision(d)
	if strings.Contains(out, "Tier:") {
		t.Errorf("zero tier should be omitted:\n%s", out)
	}
	if !strings.Contains(out, "Decision:   ERROR") {
		t.Errorf("decision line missing:\n%s", out)
	}
}
