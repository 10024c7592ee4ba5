package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/tui"
)

func main() {
	var rules string

	cmd := &cobra.Command{
		Use:   "finplan-tui [plan-file]",
		Short: "Interactive SIP, goal, loan and tax calculator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath := ""
			if len(args) == 1 {
				planPath = args[0]
				if _, err := os.Stat(planPath); os.IsNotExist(err) {
					return fmt.Errorf("plan file not found: %s", planPath)
				}
			}

			table, err := config.NewRuleLoader().Resolve(rules)
			if err != nil {
				return fmt.Errorf("failed to load tax rules: %w", err)
			}
			engine, err := calculation.NewCalculationEngine(table)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				tui.NewModel(engine, planPath),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rules, "rules", "", "Built-in rule table version or path to a YAML/HCL rule table (default "+config.DefaultRulesVersion+")")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
