package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var approveDuration time.Duration

func init() {
	rootCmd.AddCommand(approveCmd)
	approveCmd.Flags().DurationVar(&approveDuration, "duration", 0, "Validity period (e.g., 24h). Default: one-time use")
}

var approveCmd = &cobra.Command{
	Use:   "approve <key>",
	Short: "Grant a pre-clearance request",
	Long: "Approves a pending pre-clearance request by key (EMPLOYEE_TICKER).\n" +
		"Without --duration, approval is one-time (consumed on first use).\n" +
		"With --duration, approval is valid for the specified period.",
	Args: cobra.ExactArgs(1),
	RunE: runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	key := args[0]

	store, err := openPreclearStore()
	if err != nil {
		return err
	}

	if err := store.Approve(key, approveDuration); err != nil {
		return err
	}

	if approveDuration > 0 {
		fmt.Printf("Approved %q for %s\n", key, approveDuration)
	} else {
		fmt.Printf("Approved %q (one-time use)\n", key)
	}
	return nil
}
