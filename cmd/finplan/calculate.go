package main

import (
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
)

func newSIPCmd(opts *globalOptions) *cobra.Command {
	var req domain.SIPRequest

	cmd := &cobra.Command{
		Use:   "sip",
		Short: "Project the value of a monthly investment plan",
		Example: `  finplan sip --contribution 10000 --years 10 --rate 12
  finplan sip --contribution 5000 --years 20 --rate 11 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateSIPRequest(&req); err != nil {
				return err
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			resp, err := engine.SIP(req)
			if err != nil {
				return err
			}
			report := output.NewReport("SIP Projection")
			report.SIPs = append(report.SIPs, *resp)
			opts.addAdvice(cmd.Context(), logger, report, "sip", resp)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Label for the plan")
	f.Var(newDecimalValue(&req.Contribution, "0"), "contribution", "Amount invested at the start of each period")
	f.IntVar(&req.Years, "years", 0, "Investment horizon in years")
	f.Var(newDecimalValue(&req.AnnualRatePercent, "0"), "rate", "Expected annual return in percent")
	f.IntVar(&req.PeriodsPerYear, "periods-per-year", 0, "Contributions per year (default 12)")
	_ = cmd.MarkFlagRequired("contribution")
	_ = cmd.MarkFlagRequired("years")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newGoalCmd(opts *globalOptions) *cobra.Command {
	var req domain.GoalRequest

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Solve for the monthly contribution a savings goal needs",
		Example: `  finplan goal --target 2500000 --years 10 --rate 12
  finplan goal --target 2500000 --years 8 --rate 10 --income 90000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateGoalRequest(&req); err != nil {
				return err
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			resp, err := engine.Goal(req)
			if err != nil {
				return err
			}
			report := output.NewReport("Goal Plan")
			report.Goals = append(report.Goals, *resp)
			opts.addAdvice(cmd.Context(), logger, report, "goal", resp)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Label for the goal")
	f.Var(newDecimalValue(&req.TargetAmount, "0"), "target", "Amount needed at the end of the horizon")
	f.IntVar(&req.Years, "years", 0, "Years until the goal")
	f.Var(newDecimalValue(&req.AnnualRatePercent, "0"), "rate", "Expected annual return in percent")
	f.Var(newDecimalValue(&req.MonthlyIncome, "0"), "income", "Monthly income for the affordability check (optional)")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("years")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newLoanCmd(opts *globalOptions) *cobra.Command {
	var req domain.LoanRequest

	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Compute the EMI and amortization schedule of a loan",
		Example: `  finplan loan --principal 500000 --years 5 --rate 10
  finplan loan --principal 5000000 --years 20 --rate 8.5 --every 12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateLoanRequest(&req); err != nil {
				return err
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			resp, err := engine.Loan(req)
			if err != nil {
				return err
			}
			report := output.NewReport("Loan Amortization")
			report.Loans = append(report.Loans, *resp)
			opts.addAdvice(cmd.Context(), logger, report, "loan", resp)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Label for the loan")
	f.Var(newDecimalValue(&req.Principal, "0"), "principal", "Amount borrowed")
	f.IntVar(&req.Years, "years", 0, "Tenure in years")
	f.Var(newDecimalValue(&req.AnnualRatePercent, "0"), "rate", "Annual interest rate in percent")
	f.IntVar(&req.Every, "every", 0, "Show every Nth schedule entry (first and last are always shown)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("years")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func newTaxCmd(opts *globalOptions) *cobra.Command {
	var req domain.TaxRequest

	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compare the old and new income-tax regimes",
		Example: `  finplan tax --gross-income 800000 --section-80c 100000 --rent-paid 180000 \
    --hra-received 120000 --basic-salary 400000
  finplan tax --gross-income 1500000 --rules-version fy2023-24-full
  finplan tax --gross-income 1200000 --section-80c 150000 --current-regime old`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateTaxRequest(&req); err != nil {
				return err
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			resp, err := engine.Tax(req)
			if err != nil {
				return err
			}
			report := output.NewReport("Tax Regime Comparison")
			report.RulesVersion = resp.RulesVersion
			report.Taxes = append(report.Taxes, *resp)
			opts.addAdvice(cmd.Context(), logger, report, "tax", resp)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Label for the scenario")
	f.Var(newDecimalValue(&req.GrossIncome, "0"), "gross-income", "Annual gross income")
	f.Var(newDecimalValue(&req.BasicSalary, "0"), "basic-salary", "Annual basic salary")
	f.Var(newDecimalValue(&req.HRAReceived, "0"), "hra-received", "Annual house rent allowance received")
	f.Var(newDecimalValue(&req.RentPaid, "0"), "rent-paid", "Annual rent paid")
	f.Var(newDecimalValue(&req.Section80C, "0"), "section-80c", "Section 80C investments")
	f.Var(newDecimalValue(&req.Section80D, "0"), "section-80d", "Section 80D health insurance premiums")
	f.Var(&regimeValue{r: &req.CurrentRegime}, "current-regime", "Regime you file under today (old, new); reports the saving from switching")
	_ = cmd.MarkFlagRequired("gross-income")
	return cmd
}

func newBudgetCmd(opts *globalOptions) *cobra.Command {
	var req domain.BudgetRequest

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Review a month of income against expenses",
		Example: `  finplan budget --income 100000 --rent 30000 --food 15000 --transport 5000 \
    --entertainment 5000 --other 10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateBudgetRequest(&req); err != nil {
				return err
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			resp, err := engine.Budget(req)
			if err != nil {
				return err
			}
			report := output.NewReport("Monthly Budget")
			report.Budgets = append(report.Budgets, *resp)
			opts.addAdvice(cmd.Context(), logger, report, "budget", resp)
			return opts.writeReport(cmd, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Label for the budget")
	f.Var(newDecimalValue(&req.MonthlyIncome, "0"), "income", "Monthly take-home income")
	f.Var(newDecimalValue(&req.Rent, "0"), "rent", "Monthly rent")
	f.Var(newDecimalValue(&req.Food, "0"), "food", "Monthly food spend")
	f.Var(newDecimalValue(&req.Transport, "0"), "transport", "Monthly transport spend")
	f.Var(newDecimalValue(&req.Entertainment, "0"), "entertainment", "Monthly entertainment spend")
	f.Var(newDecimalValue(&req.Other, "0"), "other", "Other monthly expenses")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}
