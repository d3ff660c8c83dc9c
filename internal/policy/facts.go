// Package policy holds the deterministic side of the compliance engine:
// conflict-fact derivation and the tier-based fallback decision.
package policy

import (
	"strings"

	"github.com/meridiancap/tradegate/internal/model"
)

// Facts derives the per-ticker restriction facts for an employee.
// Pure and total: no I/O, no failure modes. Ticker comparison is
// case-insensitive; callers normally pass an upper-cased ticker.
func Facts(emp *model.EmployeeRecord, ticker string) model.ConflictFacts {
	t := strings.ToUpper(strings.TrimSpace(ticker))

	var f model.ConflictFacts
	for _, deal := range emp.ActiveDeals {
		if strings.ToUpper(deal.Ticker) == t && t != "" {
			f.TickerInActiveDeal = true
			break
		}
	}
	for _, cov := range emp.CoverageList {
		if strings.ToUpper(cov.Ticker) == t && t != "" {
			f.TickerInCoverage = true
			break
		}
	}
	for _, sec := range emp.RestrictedSecurities {
		if strings.ToUpper(sec) == t && t != "" {
			f.TickerInRestrictedList = true
			break
		}
	}
	return f
}
