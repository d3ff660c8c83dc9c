// Package cli implements the tradegate command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/config"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/engine"
	"github.com/meridiancap/tradegate/internal/rules"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tradegate",
	Short: "Pre-trade compliance checks for employee securities trades",
	Long: "Evaluates employee trade requests against firm trading policies:\n" +
		"restricted lists, active deals, research coverage, and tier-based\n" +
		"pre-clearance requirements.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config YAML (default ~/.tradegate/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildEngine assembles a local decision engine from configuration.
// Used by commands that do not go through a running server.
func buildEngine(cfg *config.Config) (*engine.Engine, *directory.Directory, *rules.Store, error) {
	dir, err := directory.Load(cfg.EmployeeDB)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load employee roster: %w", err)
	}
	store, err := rules.Load(cfg.RulesDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load rules: %w", err)
	}

	llm := advisor.LLMConfig{
		APIURL:    cfg.LLM.APIURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout.Std(),
	}
	var adv advisor.Advisor
	if llm.Configured() {
		adv = advisor.NewLLM(llm)
	} else {
		adv = advisor.NewHeuristic()
	}

	return engine.New(dir, store, adv, cfg.Firm), dir, store, nil
}
