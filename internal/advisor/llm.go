package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

// LLMConfig holds parameters for the reasoning-service advisor.
type LLMConfig struct {
	APIURL    string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Configured reports whether enough configuration exists to build the
// live advisor. Absent configuration is not an error; the caller picks
// the heuristic strategy instead.
func (c LLMConfig) Configured() bool {
	return c.APIURL != ""
}

// LLM consults an OpenAI-compatible chat-completion endpoint for a
// compliance decision. The reply is parsed fail-closed: a reply that
// cannot be parsed into the canonical decision shape becomes a
// REQUIRES_REVIEW escalation, never a crash and never a silent fall
// back to the deterministic path.
type LLM struct {
	cfg    LLMConfig
	client *http.Client
}

// NewLLM creates the live advisor.
func NewLLM(cfg LLMConfig) *LLM {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &LLM{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name identifies the strategy in logs and audit entries.
func (l *LLM) Name() string { return "llm" }

const systemPrompt = `You are a compliance advisor at an investment firm analyzing an employee trade request. Provide decisions with specific rule citations from the compliance manual.

Respond ONLY with valid JSON, no markdown fences, no commentary:
{
    "decision": "PROHIBITED" or "REQUIRES_PRECLEARANCE" or "APPROVED",
    "confidence": 0.95,
    "tier": 1,
    "applicable_rules": ["Rule 1.1: Active Deal Prohibition"],
    "rule_sources": ["Section from the rules that directly applies"],
    "reason": "Detailed explanation citing specific rules",
    "conditions": [],
    "requires_action": "What the employee needs to do",
    "estimated_approval_time": "If preclearance, how long"
}`

// BuildContext renders the reasoning context sent as the user message:
// employee profile, trade request, derived conflict facts, and the
// firm's rules text.
func BuildContext(req Request) string {
	emp := req.Employee
	var b strings.Builder

	fmt.Fprintf(&b, "EMPLOYEE PROFILE:\n")
	fmt.Fprintf(&b, "- Employee ID: %s\n", emp.EmployeeID)
	fmt.Fprintf(&b, "- Name: %s\n", emp.Name)
	fmt.Fprintf(&b, "- Title: %s\n", emp.Title)
	fmt.Fprintf(&b, "- Department: %s\n", emp.Department)
	fmt.Fprintf(&b, "- Tier: %d (%s)\n", emp.Tier, policy.TierLabel(emp.Tier))
	fmt.Fprintf(&b, "- Years at Firm: %d\n\n", emp.YearsAtFirm)

	fmt.Fprintf(&b, "TRADE REQUEST:\n")
	fmt.Fprintf(&b, "- Ticker: %s\n", req.Trade.Ticker)
	fmt.Fprintf(&b, "- Action: %s\n", req.Trade.Action)
	fmt.Fprintf(&b, "- Trade Date: %s\n\n", req.Trade.TradeDate.Format(time.RFC3339))

	fmt.Fprintf(&b, "EMPLOYEE RESTRICTIONS:\n")
	fmt.Fprintf(&b, "- Restricted Securities Count: %d\n", len(emp.RestrictedSecurities))
	fmt.Fprintf(&b, "- Active Deals Count: %d\n", len(emp.ActiveDeals))
	fmt.Fprintf(&b, "- Coverage List: %s\n", coverageTickers(emp))
	fmt.Fprintf(&b, "- Ticker in Restricted List: %t\n", req.Facts.TickerInRestrictedList)
	fmt.Fprintf(&b, "- Ticker in Active Deals: %t\n", req.Facts.TickerInActiveDeal)
	fmt.Fprintf(&b, "- Ticker in Coverage: %t\n\n", req.Facts.TickerInCoverage)

	fmt.Fprintf(&b, "%s COMPLIANCE RULES:\n%s\n", strings.ToUpper(req.Firm), req.RulesText)

	return b.String()
}

func coverageTickers(emp *model.EmployeeRecord) string {
	if len(emp.CoverageList) == 0 {
		return "None"
	}
	tickers := make([]string, len(emp.CoverageList))
	for i, c := range emp.CoverageList {
		tickers[i] = c.Ticker
	}
	return strings.Join(tickers, ", ")
}

// Review submits the context and parses the structured reply.
// Transport and HTTP failures return an error; an unparseable reply
// returns the fail-closed REQUIRES_REVIEW decision with a nil error.
func (l *LLM) Review(ctx context.Context, req Request) (model.ComplianceDecision, error) {
	messages := []map[string]string{
		{"role": "system", "content": systemPrompt},
		{"role": "user", "content": BuildContext(req)},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"model":       l.cfg.Model,
		"messages":    messages,
		"max_tokens":  l.cfg.MaxTokens,
		"temperature": 0,
	})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return model.ComplianceDecision{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if l.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+l.cfg.APIKey)
	}

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return model.ComplianceDecision{}, fmt.Errorf("reasoning request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return model.ComplianceDecision{}, fmt.Errorf("reasoning HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(truncate(string(respBody), 200)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || len(result.Choices) == 0 {
		return model.ComplianceDecision{}, fmt.Errorf("empty reasoning response")
	}

	raw := strings.TrimSpace(result.Choices[0].Message.Content)
	decision, parseErr := ParseReply(raw)
	if parseErr != nil {
		return ReviewEscalation(parseErr), nil
	}
	return decision, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
