package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/preclear"
)

func init() {
	rootCmd.AddCommand(pendingCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List pre-clearance requests",
	Long:  "Shows all pre-clearance requests in the store with their status, ticker, and timestamps.",
	RunE:  runPending,
}

func runPending(cmd *cobra.Command, args []string) error {
	store, err := openPreclearStore()
	if err != nil {
		return err
	}

	list, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list pre-clearance requests: %w", err)
	}

	if len(list) == 0 {
		fmt.Println("No pre-clearance requests.")
		return nil
	}

	fmt.Printf("%-20s %-10s %-8s %-8s %s\n", "KEY", "STATUS", "EMP", "TICKER", "CREATED")
	for _, r := range list {
		fmt.Printf("%-20s %-10s %-8s %-8s %s\n",
			r.Key,
			r.Status,
			r.EmployeeID,
			r.Ticker,
			r.CreatedAt.Format("Jan 02 15:04:05"),
		)
	}
	return nil
}

func openPreclearStore() (*preclear.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dir := cfg.PreclearDir
	if dir == "" {
		dir = preclear.DefaultDir()
	}
	store, err := preclear.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open pre-clearance store: %w", err)
	}
	return store, nil
}
