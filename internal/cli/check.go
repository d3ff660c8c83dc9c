package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/client"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
	"github.com/meridiancap/tradegate/internal/scenario"
)

var (
	checkDate     string
	checkQuantity float64
	checkServer   string
	checkScenario string
	checkFormat   string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkDate, "date", "", "Trade date, ISO 8601 (default: now)")
	checkCmd.Flags().Float64Var(&checkQuantity, "quantity", 0, "Number of shares")
	checkCmd.Flags().StringVar(&checkServer, "server", "", "Check against a running server instead of locally (e.g. http://localhost:8000)")
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files; runs assertions instead of a single trade")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check [employee_id ticker action]",
	Short: "Check a trade or run scenario assertions",
	Long: "Evaluates one trade request and prints the compliance decision:\n\n" +
		"  tradegate check MCP001 NVDA buy\n\n" +
		"With --scenario, loads YAML files matching a glob pattern, evaluates\n" +
		"each case through the deterministic evaluator, and reports pass/fail.\n" +
		"Exit code 0 if all cases pass, 1 if any fail. Use in CI to gate\n" +
		"policy changes.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkScenario != "" {
		return runScenarios()
	}

	if len(args) != 3 {
		return fmt.Errorf("expected <employee_id> <ticker> <action>, got %d args", len(args))
	}
	employeeID, ticker, actionStr := args[0], args[1], args[2]

	action, err := model.ParseTradeAction(actionStr)
	if err != nil {
		return err
	}

	tradeDate := time.Now()
	if checkDate != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, perr := time.Parse(layout, checkDate); perr == nil {
				tradeDate = t
				err = nil
				break
			}
			err = fmt.Errorf("invalid date %q (use ISO 8601)", checkDate)
		}
		if err != nil {
			return err
		}
	}

	var decision model.ComplianceDecision
	if checkServer != "" {
		resp, err := client.New(checkServer).CheckTrade(cmd.Context(), employeeID, ticker, string(action), tradeDate, checkQuantity)
		if err != nil {
			return err
		}
		decision = resp.ComplianceDecision
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eng, _, _, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		decision, _ = eng.Decide(context.Background(), model.TradeRequest{
			EmployeeID: employeeID,
			Ticker:     ticker,
			Action:     action,
			TradeDate:  tradeDate,
			Quantity:   checkQuantity,
		})
	}

	if checkFormat == "json" {
		out, err := json.MarshalIndent(decision, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printDecision(decision)
	}

	if decision.Decision == model.DecisionError {
		os.Exit(1)
	}
	return nil
}

func printDecision(d model.ComplianceDecision) {
	fmt.Print(formatDecision(d))
}

func formatDecision(d model.ComplianceDecision) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Decision:   %s (confidence %.2f)\n", d.Decision, d.Confidence)
	if d.Tier != 0 {
		fmt.Fprintf(&b, "Tier:       %d (%s)\n", d.Tier, policy.TierLabel(d.Tier))
	}
	fmt.Fprintf(&b, "Reason:     %s\n", d.Reason)
	if len(d.ApplicableRules) > 0 {
		fmt.Fprintf(&b, "Rules:      %v\n", d.ApplicableRules)
	}
	if d.RequiresAction != "" {
		fmt.Fprintf(&b, "Action:     %s\n", d.RequiresAction)
	}
	for _, c := range d.Conditions {
		fmt.Fprintf(&b, "Condition:  %s\n", c)
	}
	if d.EstimatedApprovalTime != "" {
		fmt.Fprintf(&b, "Turnaround: %s\n", d.EstimatedApprovalTime)
	}
	return b.String()
}

func runScenarios() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(checkScenario)
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no scenario files match pattern: %s", checkScenario)
	}

	var results []*scenario.RunResult
	for _, path := range matches {
		r, err := scenario.LoadAndRun(path, cfg.EmployeeDB, cfg.RulesDir)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, r)
	}

	switch checkFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	// Exit 1 if any scenario has failures
	for _, r := range results {
		if r.Failed > 0 {
			os.Exit(1)
		}
	}
	return nil
}
