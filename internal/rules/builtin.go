package rules

// DefaultFirm is the firm the builtin manual belongs to.
const DefaultFirm = "Meridian Capital"

// DefaultRules is the builtin Meridian Capital Partners personal trading
// manual, used when no rules directory is configured.
const DefaultRules = `# Meridian Capital Partners — Personal Trading Policy

## Rule 1.1: Active Deal Prohibition
Employees staffed on a live transaction may not trade any security of the
issuer or its counterparties for the duration of the mandate. There is no
override and no pre-clearance path for active-deal conflicts.

## Rule 1.2: Coverage Universe Prohibition
Securities within an employee's assigned coverage area, or on the
firm-wide restricted list, may not be traded in personal accounts.

## Rule 1.4: Broad Market Index Funds
Tier 1 employees may hold broad market index funds and ETFs without
restriction, subject to a 90-day minimum holding period.

## Rule 1.5: Individual Stock Trading (Tier 1)
Individual equity trades by Tier 1 employees require written
pre-clearance at least 24 hours before execution, carry a 90-day minimum
holding period, and are capped at $500,000 in daily traded value.

## Rule 2.1: Research Analyst Coverage Prohibition (FINRA 2241)
Research personnel may not trade securities they publish opinions on.
This prohibition is absolute and extends to household accounts.

## Rule 2.6: Tier 2 Pre-Clearance Requirement
All individual stock trades by Tier 2 employees (Research, Trading,
Portfolio Management) require pre-clearance with a stated business
justification.

## Rule 3.1: Tier 3 Notification
Tier 3 employees (Compliance, Legal, Technology, Risk) must report
personal trades within 10 business days of execution.

## Rule 4.1: Tier 4 Standard Restrictions
Tier 4 employees are subject to the baseline insider trading policy, a
30-day minimum holding period, and post-trade reporting within 10 days.
`
