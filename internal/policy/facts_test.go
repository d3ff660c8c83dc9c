package policy

import (
	"testing"

	"github.com/meridiancap/tradegate/internal/model"
)

func testEmployee() *model.EmployeeRecord {
	return &model.EmployeeRecord{
		EmployeeID:           "T001",
		Name:                 "Test Analyst",
		Department:           "Research",
		Tier:                 2,
		RestrictedSecurities: []string{"TSLA", "NVDA"},
		ActiveDeals: []model.DealRef{
			{Ticker: "DEALCO", DealName: "Project Test"},
		},
		CoverageList: []model.CoverageRef{
			{Ticker: "AAPL"}, {Ticker: "MSFT"},
		},
	}
}

func TestFactsActiveDeal(t *testing.T) {
	f := Facts(testEmployee(), "DEALCO")
	if !f.TickerInActiveDeal {
		t.Error("expected active-deal conflict for DEALCO")
	}
	if f.TickerInCoverage || f.TickerInRestrictedList {
		t.Errorf("unexpected extra conflicts: %+v", f)
	}
}

func TestFactsCaseInsensitive(t *testing.T) {
	f := Facts(testEmployee(), "aapl")
	if !f.TickerInCoverage {
		t.Error("coverage match should be case-insensitive")
	}
	f = Facts(testEmployee(), "tsla")
	if !f.TickerInRestrictedList {
		t.Error("restricted-list match should be case-insensitive")
	}
}

func TestFactsNoConflict(t *testing.T) {
	f := Facts(testEmployee(), "SPY")
	if f.Any() {
		t.Errorf("expected no conflicts for SPY, got %+v", f)
	}
}

func TestFactsEmptyTicker(t *testing.T) {
	emp := testEmployee()
	emp.RestrictedSecurities = append(emp.RestrictedSecurities, "")
	if f := Facts(emp, ""); f.Any() {
		t.Errorf("empty ticker must never match, got %+v", f)
	}
}

func TestFactsPure(t *testing.T) {
	emp := testEmployee()
	a := Facts(emp, "DEALCO")
	b := Facts(emp, "DEALCO")
	if a != b {
		t.Errorf("Facts not deterministic: %+v vs %+v", a, b)
	}
}
