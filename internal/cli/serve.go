package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/server"
)

var (
	serveListen    string
	serveEmployees string
	serveRulesDir  string
	serveAuditLog  string
	serveJournal   string
	serveFirm      string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default :8000)")
	serveCmd.Flags().StringVar(&serveEmployees, "employees", "", "Path to employee roster JSON")
	serveCmd.Flags().StringVar(&serveRulesDir, "rules-dir", "", "Directory of <firm>_rules.md files")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to audit log JSONL file")
	serveCmd.Flags().StringVar(&serveJournal, "journal", "", "Path to sqlite decision journal")
	serveCmd.Flags().StringVar(&serveFirm, "firm", "", "Firm whose rules apply")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compliance HTTP server",
	Long: "Runs tradegate as an HTTP server. Desk tools submit trades to\n" +
		"POST /api/check-trade and receive a compliance decision.\n" +
		"Supports hot-reload of the employee roster and rules files.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.ListenAddr = serveListen
	}
	if serveEmployees != "" {
		cfg.EmployeeDB = serveEmployees
	}
	if serveRulesDir != "" {
		cfg.RulesDir = serveRulesDir
	}
	if serveAuditLog != "" {
		cfg.AuditLog = serveAuditLog
	}
	if serveJournal != "" {
		cfg.JournalDB = serveJournal
	}
	if serveFirm != "" {
		cfg.Firm = serveFirm
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot-reload watcher for the roster and rules files
	reloader, err := server.NewReloader(srv, []string{cfg.EmployeeDB, cfg.RulesDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	} else {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down compliance server...")
		cancel()
	}()

	fmt.Fprintf(os.Stderr, "tradegate compliance server listening on %s\n", cfg.ListenAddr)
	fmt.Fprintf(os.Stderr, "Firm: %s\n", cfg.Firm)
	if cfg.LLM.APIURL != "" {
		fmt.Fprintf(os.Stderr, "Reasoning service: %s (%s)\n", cfg.LLM.APIURL, cfg.LLM.Model)
	} else {
		fmt.Fprintln(os.Stderr, "Reasoning service: not configured, deterministic evaluation")
	}
	fmt.Fprintln(os.Stderr)

	return srv.Start(ctx)
}
