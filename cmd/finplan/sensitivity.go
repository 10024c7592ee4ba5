package main

import (
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
)

func newSensitivityCmd(opts *globalOptions) *cobra.Command {
	var (
		req    domain.SensitivityRequest
		target string
	)

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep the annual rate of a SIP, goal or loan calculation",
		Long: `Repeat one calculation across a range of annual rates and report how the
result moves: the SIP final value, the goal's required monthly contribution or
the loan EMI. Rates are evaluated concurrently and reported in ascending order.`,
		Example: `  finplan sensitivity --target sip --amount 10000 --years 10 --rate 12 --min 8 --max 16 --step 1
  finplan sensitivity --target loan --amount 500000 --years 5 --rate 10 --min 8 --max 12 --step 0.5 -f csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseSensitivityTarget(target)
			if err != nil {
				return err
			}
			req.Target = t
			if !cmd.Flags().Changed("rate") {
				req.BaseRatePercent = req.Sweep.MinPercent
			}
			if err := config.ValidateSensitivityRequest(&req); err != nil {
				return err
			}

			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			analysis, err := calculation.NewSensitivityAnalyzer(engine).Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			report := output.NewReport("Rate Sensitivity")
			report.Sensitivity = analysis
			opts.addAdvice(cmd.Context(), logger, report, "sensitivity", analysis)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&target, "target", "sip", "Calculation to sweep (sip, goal, loan)")
	f.Var(newDecimalValue(&req.Amount, "0"), "amount", "Contribution, goal target or loan principal")
	f.IntVar(&req.Years, "years", 0, "Horizon or tenure in years")
	f.Var(newDecimalValue(&req.BaseRatePercent, "0"), "rate", "Base annual rate in percent (default the sweep minimum)")
	f.Var(newDecimalValue(&req.Sweep.MinPercent, "0"), "min", "Lowest annual rate in percent")
	f.Var(newDecimalValue(&req.Sweep.MaxPercent, "0"), "max", "Highest annual rate in percent")
	f.Var(newDecimalValue(&req.Sweep.StepPercent, "1"), "step", "Rate increment in percent")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("years")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")
	return cmd
}
