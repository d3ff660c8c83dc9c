package policy

import "testing"

func TestTierLabel(t *testing.T) {
	cases := []struct {
		tier int
		want string
	}{
		{1, "Investment Banking (Most Restrictive)"},
		{2, "Research, Trading, Portfolio Management"},
		{3, "Compliance, Legal, Technology, Risk"},
		{4, "Administrative & Support (Minimal)"},
		{0, "Tier 0"},
		{7, "Tier 7"},
	}
	for _, c := range cases {
		if got := TierLabel(c.tier); got != c.want {
			t.Errorf("TierLabel(%d) = %q, want %q", c.tier, got, c.want)
		}
	}
}
