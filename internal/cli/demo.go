package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/engine"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/rules"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a demonstration of the decision precedence",
	Long: "Evaluates a set of representative trades against the seeded roster\n" +
		"and prints the decision for each, from hard prohibitions down to\n" +
		"tier-based approvals.",
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tradegate decision precedence demo ===")
	fmt.Println()

	eng := engine.New(directory.NewDefault(), rules.NewDefault(), advisor.NewHeuristic(), rules.DefaultFirm)

	trades := []struct {
		label      string
		employeeID string
		ticker     string
	}{
		{"banker trades a deal ticker", "MCP001", "CRWD"},
		{"analyst trades covered name", "MCP003", "AAPL"},
		{"trader hits restricted list", "MCP004", "TSLA"},
		{"banker trades outside book", "MCP001", "IBM"},
		{"trader, clean ticker", "MCP004", "KO"},
		{"compliance officer trade", "MCP006", "AAPL"},
		{"support staff trade", "MCP008", "NVDA"},
	}

	for _, tr := range trades {
		d, err := eng.Decide(context.Background(), model.TradeRequest{
			EmployeeID: tr.employeeID,
			Ticker:     tr.ticker,
			Action:     model.Buy,
			TradeDate:  time.Now(),
			Quantity:   100,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%-32s %s %s\n", tr.label, tr.employeeID, tr.ticker)
		fmt.Printf("    -> %-22s %s\n", d.Decision, d.Reason)
		fmt.Println()
	}

	return nil
}
