package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
)

var (
	employeesTier   int
	employeesSearch string
)

func init() {
	rootCmd.AddCommand(employeesCmd)
	employeesCmd.Flags().IntVar(&employeesTier, "tier", 0, "Filter by restriction tier (1-4)")
	employeesCmd.Flags().StringVar(&employeesSearch, "search", "", "Search by name or ID fragment")

	rootCmd.AddCommand(employeeCmd)
}

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List employees in the roster",
	RunE:  runEmployees,
}

func runEmployees(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, dir, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	var recs []*model.EmployeeRecord
	switch {
	case employeesSearch != "":
		recs = dir.Search(employeesSearch)
	case employeesTier > 0:
		recs = dir.ListByTier(employeesTier)
	default:
		recs = dir.All()
	}

	if len(recs) == 0 {
		fmt.Println("No employees found.")
		return nil
	}

	fmt.Printf("%-8s %-22s %-28s %-6s %s\n", "ID", "NAME", "TITLE", "TIER", "DEPARTMENT")
	for _, e := range recs {
		fmt.Printf("%-8s %-22s %-28s %-6d %s\n",
			e.EmployeeID, e.Name, e.Title, e.Tier, e.Department)
	}
	return nil
}

var employeeCmd = &cobra.Command{
	Use:   "employee <id>",
	Short: "Show one employee's profile and restrictions",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployee,
}

func runEmployee(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, dir, _, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	e := dir.Get(args[0])
	if e == nil {
		return fmt.Errorf("employee %s not found", args[0])
	}

	fmt.Printf("%s  %s\n", e.EmployeeID, e.Name)
	fmt.Printf("  Title:      %s\n", e.Title)
	fmt.Printf("  Department: %s\n", e.Department)
	fmt.Printf("  Tier:       %d (%s)\n", e.Tier, policy.TierLabel(e.Tier))
	fmt.Printf("  Years:      %d\n", e.YearsAtFirm)
	if len(e.RestrictedSecurities) > 0 {
		fmt.Printf("  Restricted: %s\n", strings.Join(e.RestrictedSecurities, ", "))
	}
	for _, d := range e.ActiveDeals {
		fmt.Printf("  Deal:       %s (%s)\n", d.Ticker, d.DealName)
	}
	if len(e.CoverageList) > 0 {
		tickers := make([]string, len(e.CoverageList))
		for i, c := range e.CoverageList {
			tickers[i] = c.Ticker
		}
		fmt.Printf("  Coverage:   %s\n", strings.Join(tickers, ", "))
	}
	if e.Notes != "" {
		fmt.Printf("  Notes:      %s\n", e.Notes)
	}
	return nil
}
