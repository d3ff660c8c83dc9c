package scenario

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/engine"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/rules"
)

// Run evaluates all cases in a scenario against the deterministic
// evaluator. Cases are independent; expected decisions are compared
// case-insensitively.
func Run(s *Scenario, dir *directory.Directory, store *rules.Store) *RunResult {
	firm := s.Firm
	if firm == "" {
		firm = rules.DefaultFirm
	}
	eng := engine.New(dir, store, advisor.NewHeuristic(), firm)

	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		action := model.Buy
		if c.Trade.Action != "" {
			if a, err := model.ParseTradeAction(c.Trade.Action); err == nil {
				action = a
			}
		}

		decision, _ := eng.Decide(context.Background(), model.TradeRequest{
			EmployeeID: c.Trade.EmployeeID,
			Ticker:     c.Trade.Ticker,
			Action:     action,
			TradeDate:  time.Now(),
			Quantity:   c.Trade.Quantity,
		})

		actual := string(decision.Decision)
		expected := strings.ToUpper(strings.TrimSpace(c.Expect))

		cr := CaseResult{
			Index:      i + 1,
			EmployeeID: c.Trade.EmployeeID,
			Ticker:     c.Trade.Ticker,
			Expected:   expected,
			Actual:     actual,
			Reason:     decision.Reason,
		}

		if actual == expected {
			cr.Passed = true
			result.Passed++
		} else {
			result.Failed++
		}

		result.Cases = append(result.Cases, cr)
	}

	return result
}

// LoadAndRun loads a scenario YAML file, loads the roster and rules,
// and runs.
func LoadAndRun(path, rosterPath, rulesDir string) (*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	dir, err := directory.Load(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("load employee roster: %w", err)
	}

	store, err := rules.Load(rulesDir)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	result := Run(&s, dir, store)
	result.File = path

	return result, nil
}
