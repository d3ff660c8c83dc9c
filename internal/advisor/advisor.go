// Package advisor defines the reasoning capability consulted by the
// decision engine. Two implementations exist: Heuristic, the
// deterministic tier/conflict evaluator, and LLM, which consults an
// OpenAI-compatible endpoint and parses its reply fail-closed. The
// engine selects one at construction time; there is no runtime
// null-checking of the service inside the decision path.
package advisor

import (
	"context"

	"github.com/meridiancap/tradegate/internal/model"
)

// Request is the assembled reasoning context for one trade check.
type Request struct {
	Employee  *model.EmployeeRecord
	Trade     model.TradeRequest
	Facts     model.ConflictFacts
	Firm      string
	RulesText string
}

// Advisor produces a compliance decision for an assembled context.
//
// A returned error means the advisor itself failed (transport, timeout,
// misconfiguration) and the caller must surface an ERROR decision. An
// untrustworthy but received reply is NOT an error: implementations
// degrade it to a REQUIRES_REVIEW decision instead (fail closed).
type Advisor interface {
	Review(ctx context.Context, req Request) (model.ComplianceDecision, error)
	Name() string
}
