package policy

import "fmt"

// Employee tier constants. Lower tier = more restrictive.
const (
	TierBanking = 1 // Investment banking, most restrictive
	TierMarkets = 2 // Research, trading, portfolio management
	TierControl = 3 // Compliance, legal, technology, risk
	TierSupport = 4 // Administrative and support, minimal
)

// TierLabel returns the human-readable description used in reasoning
// context and employee summaries.
func TierLabel(tier int) string {
	switch tier {
	case TierBanking:
		return "Investment Banking (Most Restrictive)"
	case TierMarkets:
		return "Research, Trading, Portfolio Management"
	case TierControl:
		return "Compliance, Legal, Technology, Risk"
	case TierSupport:
		return "Administrative & Support (Minimal)"
	default:
		return fmt.Sprintf("Tier %d", tier)
	}
}
