package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/output"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "run [plan-file]",
		Short: "Evaluate every calculation in a plan file",
		Long: `Evaluate every SIP, goal, loan and tax calculation in a YAML or JSON plan
file and render them as one report. The plan's rules entry selects the tax rule
table unless --rules or --rules-version is given.`,
		Example: `  finplan run household.yaml
  finplan run household.yaml --format html --output-dir reports
  finplan run household.yaml --validate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			if validateOnly {
				fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid (%d calculations)\n", args[0], plan.Len())
				return nil
			}

			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			engine, err := opts.engine(logger, plan.Rules)
			if err != nil {
				return err
			}
			logger.Info("running plan", zap.String("plan", plan.Name), zap.Int("calculations", plan.Len()))

			result, err := engine.RunPlan(cmd.Context(), plan)
			if err != nil {
				return err
			}
			report := output.ReportFromPlan(result, engine.RulesVersion())
			opts.addAdvice(cmd.Context(), logger, report, "plan", result)
			return opts.writeReport(cmd, report)
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate", false, "Only check the plan file")
	return cmd
}
