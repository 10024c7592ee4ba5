package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/domain"
	"github.com/rgehrsitz/finplan/internal/logging"
	"github.com/rgehrsitz/finplan/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalOptions holds the persistent flags shared by every subcommand
type globalOptions struct {
	rules        string
	rulesVersion string
	format       string
	outputDir    string
	debug        bool
	logLevel     string
	logFormat    string
	advice       bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "finplan",
		Short: "SIP, goal, loan and tax planning calculator",
		Long: `finplan projects systematic investment plans, solves for the monthly
contribution a savings goal needs, amortizes loans and compares the old and
new Indian income-tax regimes.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.rules, "rules", "", "Path to a YAML or HCL tax rule table")
	pf.StringVar(&opts.rulesVersion, "rules-version", "", "Built-in tax rule table version (default "+config.DefaultRulesVersion+")")
	pf.StringVarP(&opts.format, "format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	pf.StringVar(&opts.outputDir, "output-dir", "", "Write the report to a timestamped file in this directory instead of stdout")
	pf.BoolVar(&opts.debug, "debug", false, "Log intermediate calculation figures")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "console", "Log format (console, json)")
	pf.BoolVar(&opts.advice, "advice", false, "Append commentary from the advice service ("+advice.EnvAdviceURL+") or the built-in advisor")

	root.AddCommand(
		newSIPCmd(opts),
		newGoalCmd(opts),
		newLoanCmd(opts),
		newTaxCmd(opts),
		newBudgetCmd(opts),
		newCompareLoansCmd(opts),
		newSensitivityCmd(opts),
		newRunCmd(opts),
		newRulesCmd(opts),
		newServeCmd(opts),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

// logger builds the process logger; --debug lowers the level to debug
func (o *globalOptions) logger() (*zap.Logger, error) {
	cfg := logging.DefaultConfig()
	cfg.Level = o.logLevel
	cfg.Format = o.logFormat
	if o.debug {
		cfg.Level = "debug"
	}
	return logging.New(cfg)
}

// ruleRef picks the rule table named by the flags, falling back to fallback
func (o *globalOptions) ruleRef(fallback string) (string, error) {
	switch {
	case o.rules != "" && o.rulesVersion != "":
		return "", fmt.Errorf("--rules and --rules-version are mutually exclusive")
	case o.rules != "":
		return o.rules, nil
	case o.rulesVersion != "":
		return o.rulesVersion, nil
	default:
		return fallback, nil
	}
}

// engine resolves the rule table and builds a calculation engine logging through logger
func (o *globalOptions) engine(logger *zap.Logger, fallbackRules string) (*calculation.CalculationEngine, error) {
	ref, err := o.ruleRef(fallbackRules)
	if err != nil {
		return nil, err
	}
	rules, err := config.NewRuleLoader().Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax rules: %w", err)
	}
	engine, err := calculation.NewCalculationEngine(rules)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(logging.NewCalculationLogger(logger))
	engine.Debug = o.debug
	return engine, nil
}

// setup builds the logger and engine every calculation command needs
func (o *globalOptions) setup() (*zap.Logger, *calculation.CalculationEngine, error) {
	logger, err := o.logger()
	if err != nil {
		return nil, nil, err
	}
	engine, err := o.engine(logger, "")
	if err != nil {
		return nil, nil, err
	}
	return logger, engine, nil
}

// addAdvice attaches commentary for figures when --advice is set. Advice failures
// are logged and never fail the command.
func (o *globalOptions) addAdvice(ctx context.Context, logger *zap.Logger, report *output.Report, tool string, figures any) {
	if !o.advice {
		return
	}
	advisor := advice.NewAdvisorFromEnv(logger)
	summary, err := advisor.Advise(ctx, advice.Request{RequestID: uuid.NewString(), Tool: tool, Figures: figures})
	if err != nil {
		logger.Warn("advice unavailable", zap.String("tool", tool), zap.Error(err))
		return
	}
	env := advice.ToEnvelope(summary)
	report.Advice = &env
}

// writeReport renders report in the selected format to stdout or --output-dir
func (o *globalOptions) writeReport(cmd *cobra.Command, report *output.Report) error {
	f := output.GetFormatterByName(o.format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", o.format,
			strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
	}

	if o.outputDir != "" {
		path, err := output.WriteFormatted(f, report, o.outputDir, extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}

	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func extension(format string) string {
	if strings.HasPrefix(format, "console") {
		return "txt"
	}
	return format
}

// decimalValue adapts a decimal.Decimal to a command-line flag
type decimalValue struct {
	d *decimal.Decimal
}

func newDecimalValue(d *decimal.Decimal, def string) *decimalValue {
	if def != "" {
		*d = decimal.RequireFromString(def)
	}
	return &decimalValue{d: d}
}

func (v *decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*v.d = d
	return nil
}

func (v *decimalValue) Type() string { return "decimal" }

// regimeValue adapts a domain.Regime to a command-line flag
type regimeValue struct {
	r *domain.Regime
}

func (v *regimeValue) String() string { return string(*v.r) }

func (v *regimeValue) Set(s string) error { return v.r.UnmarshalText([]byte(s)) }

func (v *regimeValue) Type() string { return "regime" }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
