package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/compare"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/output"
	"github.com/rgehrsitz/finplan/internal/transform"
)

func newCompareLoansCmd(opts *globalOptions) *cobra.Command {
	var (
		base          domain.LoanRequest
		offers        []string
		templates     string
		listTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "compare-loans",
		Short: "Compare a loan offer against alternatives and what-if templates",
		Long: `Compare a base loan offer against explicit alternative offers and named
what-if templates applied to the base. Alternatives are given as
name:principal:years:rate.

Formats: table (default), csv and json print the comparison alone; any report
format (console, yaml, html, ...) renders it as a report section.`,
		Example: `  finplan compare-loans --principal 500000 --years 5 --rate 10 --with tenure_minus_2y,rate_minus_100bp
  finplan compare-loans --principal 500000 --years 5 --rate 10 --offer "Bank B:500000:5:9.25" -f csv
  finplan compare-loans --list-templates`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTemplates {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}

			req := domain.LoanComparisonRequest{Base: base, Templates: transform.ParseTemplateList(templates)}
			for _, o := range offers {
				alt, err := parseOffer(o)
				if err != nil {
					return err
				}
				req.Alternatives = append(req.Alternatives, alt)
			}
			if err := config.ValidateComparisonRequest(&req); err != nil {
				return err
			}

			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			set, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeComparison(cmd, opts, set)
		},
	}

	f := cmd.Flags()
	f.StringVar(&base.Name, "name", "", "Label for the base offer")
	f.Var(newDecimalValue(&base.Principal, "0"), "principal", "Amount borrowed in the base offer")
	f.IntVar(&base.Years, "years", 0, "Tenure of the base offer in years")
	f.Var(newDecimalValue(&base.AnnualRatePercent, "0"), "rate", "Annual interest rate of the base offer in percent")
	f.StringArrayVar(&offers, "offer", nil, "Alternative offer as name:principal:years:rate (repeatable)")
	f.StringVar(&templates, "with", "", "Comma-separated what-if templates to apply to the base offer")
	f.BoolVar(&listTemplates, "list-templates", false, "List the available what-if templates")

	// table is the natural default for a comparison
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("format") {
			opts.format = "table"
		}
	}
	return cmd
}

func writeComparison(cmd *cobra.Command, opts *globalOptions, set *compare.ComparisonSet) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(opts.format) {
	case "table":
		_, err := fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
		return err
	case "compact":
		_, err := fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(set))
		return err
	case "csv":
		s, err := (&compare.CSVFormatter{}).Format(set)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, s)
		return err
	case "json":
		s, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, s)
		return err
	default:
		report := output.NewReport("Loan Offer Comparison")
		report.Comparison = set
		return opts.writeReport(cmd, report)
	}
}

// parseOffer reads name:principal:years:rate
func parseOffer(s string) (domain.LoanRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return domain.LoanRequest{}, fmt.Errorf("invalid offer %q (expected name:principal:years:rate)", s)
	}
	principal, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.LoanRequest{}, fmt.Errorf("invalid principal in offer %q: %w", s, err)
	}
	years, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return domain.LoanRequest{}, fmt.Errorf("invalid years in offer %q: %w", s, err)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
	if err != nil {
		return domain.LoanRequest{}, fmt.Errorf("invalid rate in offer %q: %w", s, err)
	}
	return domain.LoanRequest{
		Name:              strings.TrimSpace(parts[0]),
		Principal:         principal,
		Years:             years,
		AnnualRatePercent: rate,
	}, nil
}
