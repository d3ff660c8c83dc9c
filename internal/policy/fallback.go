package policy

import (
	"fmt"

	"github.com/meridiancap/tradegate/internal/model"
)

// Fallback produces the deterministic decision for an employee and ticker.
//
// Precedence order (must not be changed): explicit per-ticker conflicts
// dominate tier defaults, and among conflicts active-deal dominates
// coverage dominates restricted-list, in decreasing severity of the
// policy breach.
//  1. Active deal        → PROHIBITED, 0.99
//  2. Research coverage  → PROHIBITED, 0.99
//  3. Restricted list    → PROHIBITED, 0.95
//  4. Tier 1             → REQUIRES_PRECLEARANCE, 0.85
//  5. Tier 2             → REQUIRES_PRECLEARANCE, 0.80
//  6. Tier 3/4, unknown  → APPROVED, 0.75
func Fallback(emp *model.EmployeeRecord, ticker string) model.ComplianceDecision {
	facts := Facts(emp, ticker)

	if facts.TickerInActiveDeal {
		return model.ComplianceDecision{
			Decision:              model.Prohibited,
			Confidence:            0.99,
			Tier:                  emp.Tier,
			ApplicableRules:       []string{"Rule 1.1: Active Deal Prohibition"},
			RuleSources:           []string{"Cannot trade securities related to active deals"},
			Reason:                fmt.Sprintf("Ticker %s is involved in an active deal you are working on.", ticker),
			RequiresAction:        "Cannot trade this security. Choose alternative investment.",
			EstimatedApprovalTime: "N/A - Absolute prohibition",
		}
	}

	if facts.TickerInCoverage {
		return model.ComplianceDecision{
			Decision:              model.Prohibited,
			Confidence:            0.99,
			Tier:                  emp.Tier,
			ApplicableRules:       []string{"Rule 2.1: Research Analyst Coverage Prohibition (FINRA 2241)"},
			RuleSources:           []string{"Research analysts cannot trade covered securities"},
			Reason:                fmt.Sprintf("You cover %s in your research. Absolute prohibition under FINRA 2241.", ticker),
			RequiresAction:        "Cannot trade this security. Consider broad market ETFs instead.",
			EstimatedApprovalTime: "N/A - Absolute prohibition",
		}
	}

	if facts.TickerInRestrictedList {
		return model.ComplianceDecision{
			Decision:              model.Prohibited,
			Confidence:            0.95,
			Tier:                  emp.Tier,
			ApplicableRules:       []string{"Rule 1.2: Coverage Universe Prohibition"},
			RuleSources:           []string{"Security is in your coverage area or on restricted list"},
			Reason:                fmt.Sprintf("%s is on your firm-wide restricted list.", ticker),
			RequiresAction:        "Cannot trade this security.",
			EstimatedApprovalTime: "N/A",
		}
	}

	switch emp.Tier {
	case TierBanking:
		return model.ComplianceDecision{
			Decision:        model.RequiresPreclearance,
			Confidence:      0.85,
			Tier:            emp.Tier,
			ApplicableRules: []string{"Rule 1.4: Broad Market Index Funds", "Rule 1.5: Individual Stock Trading"},
			RuleSources:     []string{"Only broad index funds permitted with 90-day hold period"},
			Reason:          "Tier 1 Investment Banking requires pre-clearance for trades outside prohibited list.",
			Conditions: []string{
				"24-hour pre-clearance required",
				"90-day holding period",
				"Maximum $500K daily value",
			},
			RequiresAction:        "Submit pre-clearance request via compliance portal",
			EstimatedApprovalTime: "24 hours",
		}
	case TierMarkets:
		return model.ComplianceDecision{
			Decision:              model.RequiresPreclearance,
			Confidence:            0.80,
			Tier:                  emp.Tier,
			ApplicableRules:       []string{"Rule 2.6: Tier 2 Pre-Clearance Requirement"},
			RuleSources:           []string{"All individual stock trades require pre-clearance"},
			Reason:                fmt.Sprintf("Tier 2 %s requires pre-clearance for trades.", departmentOrRole(emp)),
			Conditions:            []string{"Provide business justification"},
			RequiresAction:        "Submit pre-clearance request",
			EstimatedApprovalTime: "24-48 hours",
		}
	}

	// Tier 3/4 or unknown tier.
	return model.ComplianceDecision{
		Decision:              model.Approved,
		Confidence:            0.75,
		Tier:                  emp.Tier,
		ApplicableRules:       []string{"Rule 4.1: Tier 4 Standard Restrictions"},
		RuleSources:           []string{"Basic insider trading rules apply"},
		Reason:                fmt.Sprintf("No restrictions identified for %s.", ticker),
		Conditions:            []string{"30-day holding period", "Report trade within 10 days"},
		RequiresAction:        "Execute trade and report within 10 days",
		EstimatedApprovalTime: "Immediate",
	}
}

func departmentOrRole(emp *model.EmployeeRecord) string {
	if emp.Department != "" {
		return emp.Department
	}
	return "role"
}
