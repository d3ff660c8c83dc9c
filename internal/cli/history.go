package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/journal"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of checks to show")
}

var historyCmd = &cobra.Command{
	Use:   "history [employee_id]",
	Short: "Show past compliance checks from the decision journal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JournalDB == "" {
		return fmt.Errorf("no decision journal configured (set journal_db in config)")
	}

	jnl, err := journal.Open(cfg.JournalDB)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	employeeID := ""
	if len(args) == 1 {
		employeeID = args[0]
	}

	checks, err := jnl.History(employeeID, historyLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(checks) == 0 {
		fmt.Println("No recorded checks.")
		return nil
	}

	fmt.Printf("%-20s %-8s %-8s %-5s %-22s %s\n", "CHECKED", "EMP", "TICKER", "SIDE", "DECISION", "ADVISOR")
	for _, c := range checks {
		fmt.Printf("%-20s %-8s %-8s %-5s %-22s %s\n",
			c.CheckedAt.Format("2006-01-02 15:04:05"),
			c.EmployeeID,
			c.Ticker,
			c.Action,
			c.Decision,
			c.Advisor,
		)
	}
	return nil
}
