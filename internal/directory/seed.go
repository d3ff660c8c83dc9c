package directory

import "github.com/meridiancap/tradegate/internal/model"

// SeedEmployees is the builtin Meridian Capital Partners roster used when
// no roster file is configured. Tiers: 1 investment banking, 2 research/
// trading/PM, 3 compliance/legal/technology/risk, 4 administrative.
var SeedEmployees = []model.EmployeeRecord{
	{
		EmployeeID:           "MCP001",
		Name:                 "Sarah Chen",
		Title:                "Managing Director, Technology Investment Banking",
		Department:           "Investment Banking",
		Tier:                 1,
		RestrictedSecurities: []string{"NVDA", "AMD", "AVGO"},
		ActiveDeals: []model.DealRef{
			{Ticker: "CRWD", DealName: "Project Falcon — CrowdStrike secondary offering"},
			{Ticker: "DDOG", DealName: "Project Timber — Datadog convertible"},
		},
		YearsAtFirm: 12,
		Notes:       "Deal team lead; wall-crossed on two live mandates.",
	},
	{
		EmployeeID:           "MCP002",
		Name:                 "Marcus Thompson",
		Title:                "Director, Healthcare Investment Banking",
		Department:           "Investment Banking",
		Tier:                 1,
		RestrictedSecurities: []string{"PFE", "MRK"},
		ActiveDeals: []model.DealRef{
			{Ticker: "VRTX", DealName: "Project Helix — Vertex bolt-on acquisition"},
		},
		YearsAtFirm: 8,
	},
	{
		EmployeeID:           "MCP003",
		Name:                 "Jennifer Martinez",
		Title:                "Senior Research Analyst, Technology",
		Department:           "Research",
		Tier:                 2,
		RestrictedSecurities: []string{"NVDA"},
		CoverageList: []model.CoverageRef{
			{Ticker: "AAPL"}, {Ticker: "MSFT"}, {Ticker: "GOOGL"}, {Ticker: "META"},
		},
		YearsAtFirm: 6,
		Notes:       "Publishes under FINRA 2241; coverage list reviewed quarterly.",
	},
	{
		EmployeeID:           "MCP004",
		Name:                 "David Kumar",
		Title:                "Equity Trader",
		Department:           "Trading",
		Tier:                 2,
		RestrictedSecurities: []string{"TSLA"},
		YearsAtFirm:          4,
	},
	{
		EmployeeID:  "MCP005",
		Name:        "Elena Voss",
		Title:       "Portfolio Manager, Global Equities",
		Department:  "Portfolio Management",
		Tier:        2,
		YearsAtFirm: 9,
	},
	{
		EmployeeID:  "MCP006",
		Name:        "Rachel Winters",
		Title:       "Chief Compliance Officer",
		Department:  "Compliance",
		Tier:        3,
		YearsAtFirm: 15,
	},
	{
		EmployeeID:  "MCP007",
		Name:        "Kevin Okonkwo",
		Title:       "Senior Counsel",
		Department:  "Legal",
		Tier:        3,
		YearsAtFirm: 7,
	},
	{
		EmployeeID:  "MCP008",
		Name:        "Priya Natarajan",
		Title:       "Executive Assistant",
		Department:  "Administration",
		Tier:        4,
		YearsAtFirm: 3,
	},
}
