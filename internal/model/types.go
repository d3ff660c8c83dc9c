package model

import (
	"fmt"
	"strings"
	"time"
)

// Decision is the canonical compliance outcome for a trade check.
type Decision string

const (
	Approved             Decision = "APPROVED"
	Prohibited           Decision = "PROHIBITED"
	RequiresPreclearance Decision = "REQUIRES_PRECLEARANCE"
	RequiresReview       Decision = "REQUIRES_REVIEW"
	DecisionError        Decision = "ERROR"
)

// Valid reports whether d is one of the five canonical decisions.
func (d Decision) Valid() bool {
	switch d {
	case Approved, Prohibited, RequiresPreclearance, RequiresReview, DecisionError:
		return true
	}
	return false
}

// TradeAction is the direction of a proposed trade.
type TradeAction string

const (
	Buy  TradeAction = "BUY"
	Sell TradeAction = "SELL"
)

// ParseTradeAction normalizes a raw action string. Anything other than
// buy/sell (case-insensitive) is rejected.
func ParseTradeAction(s string) (TradeAction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return "", fmt.Errorf("action must be \"buy\" or \"sell\", got %q", s)
}

// DealRef names one active deal an employee is staffed on.
type DealRef struct {
	Ticker   string `json:"ticker"`
	DealName string `json:"deal_name"`
}

// CoverageRef names one security in a research employee's coverage list.
type CoverageRef struct {
	Ticker string `json:"ticker"`
}

// EmployeeRecord is immutable reference data loaded at startup.
// Tier runs 1 (investment banking, most restrictive) to 4 (administrative).
type EmployeeRecord struct {
	EmployeeID           string        `json:"employee_id"`
	Name                 string        `json:"name"`
	Title                string        `json:"title"`
	Department           string        `json:"department"`
	Tier                 int           `json:"tier"`
	RestrictedSecurities []string      `json:"restricted_securities"`
	ActiveDeals          []DealRef     `json:"active_deals"`
	CoverageList         []CoverageRef `json:"coverage_list"`
	YearsAtFirm          int           `json:"years_at_firm"`
	Notes                string        `json:"notes,omitempty"`
}

// TradeRequest is one proposed trade to check. Ticker is upper-cased by
// the caller before the engine runs.
type TradeRequest struct {
	EmployeeID string      `json:"employee_id"`
	Ticker     string      `json:"ticker"`
	Action     TradeAction `json:"action"`
	TradeDate  time.Time   `json:"date"`
	Quantity   float64     `json:"quantity,omitempty"`
}

// ConflictFacts are the per-ticker restriction facts derived from an
// employee record. Recomputed on every request, never cached.
type ConflictFacts struct {
	TickerInActiveDeal     bool `json:"ticker_in_active_deal"`
	TickerInCoverage       bool `json:"ticker_in_coverage"`
	TickerInRestrictedList bool `json:"ticker_in_restricted_list"`
}

// Any reports whether at least one conflict is present.
func (f ConflictFacts) Any() bool {
	return f.TickerInActiveDeal || f.TickerInCoverage || f.TickerInRestrictedList
}

// ComplianceDecision is the canonical decision shape returned to callers.
// Confidence is advisory only.
type ComplianceDecision struct {
	Decision              Decision `json:"decision"`
	Confidence            float64  `json:"confidence"`
	Tier                  int      `json:"tier,omitempty"`
	ApplicableRules       []string `json:"applicable_rules,omitempty"`
	RuleSources           []string `json:"rule_sources,omitempty"`
	Reason                string   `json:"reason"`
	Conditions            []string `json:"conditions,omitempty"`
	RequiresAction        string   `json:"requires_action,omitempty"`
	EstimatedApprovalTime string   `json:"estimated_approval_time,omitempty"`
}

// EmployeeSummary is the profile block attached to check-trade responses.
type EmployeeSummary struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Tier       int    `json:"tier"`
	Department string `json:"department"`
}

// Summary returns the response-facing profile for an employee record.
func (e *EmployeeRecord) Summary() EmployeeSummary {
	return EmployeeSummary{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Title:      e.Title,
		Tier:       e.Tier,
		Department: e.Department,
	}
}
