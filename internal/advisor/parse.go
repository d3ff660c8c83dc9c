package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/meridiancap/tradegate/internal/model"
)

// ParseReply parses a reasoning-service reply into the canonical
// decision shape. One layer of enclosing markdown fences is tolerated;
// anything else must be strict JSON with a valid decision value.
func ParseReply(raw string) (model.ComplianceDecision, error) {
	cleaned := stripFences(raw)

	var d model.ComplianceDecision
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&d); err != nil {
		return model.ComplianceDecision{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if !d.Decision.Valid() {
		return model.ComplianceDecision{}, fmt.Errorf("unknown decision value %q", d.Decision)
	}
	if d.Decision == model.DecisionError {
		// The service has no business returning ERROR; treat as untrusted.
		return model.ComplianceDecision{}, fmt.Errorf("service returned ERROR decision")
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return model.ComplianceDecision{}, fmt.Errorf("confidence %v out of range", d.Confidence)
	}
	if d.Reason == "" {
		return model.ComplianceDecision{}, fmt.Errorf("missing reason")
	}
	return d, nil
}

// ReviewEscalation is the fail-closed decision for an unparseable
// reasoning reply: a human escalation with a fixed 24-hour SLA, never a
// hard error and never a silent deterministic substitute.
func ReviewEscalation(parseErr error) model.ComplianceDecision {
	return model.ComplianceDecision{
		Decision:              model.RequiresReview,
		Confidence:            0.5,
		Reason:                fmt.Sprintf("Could not parse AI response. Error: %v. Escalating to compliance officer.", parseErr),
		RequiresAction:        "Contact your compliance officer for manual review",
		EstimatedApprovalTime: "24 hours",
	}
}

// stripFences removes a single layer of markdown code fences around the
// payload, with or without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
