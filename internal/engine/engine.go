// Package engine is the decision synthesizer: it resolves the employee,
// derives conflict facts, assembles the reasoning context, and
// normalizes the advisor's answer (or failure) into the canonical
// decision shape. The engine holds no mutable state and is safe for
// concurrent use.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

// ErrEmployeeNotFound signals an unknown employee identifier. The HTTP
// layer maps it to 404; the engine just reports the error kind.
var ErrEmployeeNotFound = errors.New("employee not found")

// ErrServiceFailure signals that a configured reasoning service could
// not be reached or answered with a hard failure. Never retried here:
// the call is not known to be idempotent-safe on the service side.
var ErrServiceFailure = errors.New("reasoning service failure")

// EmployeeLookup is the read-only employee directory contract.
type EmployeeLookup interface {
	Get(employeeID string) *model.EmployeeRecord
}

// RulesLookup is the read-only policy text store contract.
type RulesLookup interface {
	Rules(firm string) string
}

// Engine evaluates trade requests against firm policy.
type Engine struct {
	employees EmployeeLookup
	rules     RulesLookup
	advisor   advisor.Advisor
	firm      string
}

// New wires the engine with its collaborators. The advisor is chosen by
// the caller at construction time: advisor.NewLLM when a reasoning
// service is configured, advisor.NewHeuristic otherwise.
func New(employees EmployeeLookup, rules RulesLookup, adv advisor.Advisor, firm string) *Engine {
	return &Engine{
		employees: employees,
		rules:     rules,
		advisor:   adv,
		firm:      firm,
	}
}

// AdvisorName reports the active reasoning strategy.
func (e *Engine) AdvisorName() string { return e.advisor.Name() }

// Decide runs one trade check.
//
// Unknown employee → ERROR decision plus ErrEmployeeNotFound.
// Advisor hard failure → ERROR decision plus ErrServiceFailure.
// Everything else, including an unparseable reasoning reply (which the
// advisor degrades to REQUIRES_REVIEW), returns a nil error.
func (e *Engine) Decide(ctx context.Context, req model.TradeRequest) (model.ComplianceDecision, error) {
	emp := e.employees.Get(req.EmployeeID)
	if emp == nil {
		return model.ComplianceDecision{
			Decision:       model.DecisionError,
			Reason:         fmt.Sprintf("Employee %s not found in database", req.EmployeeID),
			RequiresAction: "Check employee ID and try again",
		}, fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.EmployeeID)
	}

	req.Ticker = strings.ToUpper(strings.TrimSpace(req.Ticker))
	facts := policy.Facts(emp, req.Ticker)

	decision, err := e.advisor.Review(ctx, advisor.Request{
		Employee:  emp,
		Trade:     req,
		Facts:     facts,
		Firm:      e.firm,
		RulesText: e.rules.Rules(e.firm),
	})
	if err != nil {
		return model.ComplianceDecision{
			Decision:       model.DecisionError,
			Reason:         fmt.Sprintf("AI service error: %v", err),
			RequiresAction: "Contact support",
		}, fmt.Errorf("%w: %v", ErrServiceFailure, err)
	}

	return decision, nil
}
