package advisor

import (
	"context"

	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

// Heuristic is the deterministic advisor: the strict-precedence
// conflict/tier evaluation with no external calls. It is the reference
// oracle for tests and the selected strategy whenever no reasoning
// service is configured.
type Heuristic struct{}

// NewHeuristic returns the deterministic advisor.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Name identifies the strategy in logs and audit entries.
func (h *Heuristic) Name() string { return "heuristic" }

// Review never fails and ignores ctx: the evaluation is pure.
func (h *Heuristic) Review(_ context.Context, req Request) (model.ComplianceDecision, error) {
	return policy.Fallback(req.Employee, req.Trade.Ticker), nil
}
