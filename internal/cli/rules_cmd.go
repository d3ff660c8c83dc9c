package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/rules"
)

func init() {
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules [firm]",
	Short: "Print the trading policy text for a firm",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := rules.Load(cfg.RulesDir)
	if err != nil {
		return err
	}

	firm := cfg.Firm
	if len(args) == 1 {
		firm = args[0]
	}

	fmt.Println(store.Rules(firm))
	return nil
}
