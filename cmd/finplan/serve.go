package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/api"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		addr      string
		rateLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators over HTTP",
		Long: `Serve the calculators as a JSON API:

  POST /api/sip, /api/goal, /api/loan, /api/tax, /api/loan/compare, /api/sensitivity
  GET  /health, /version, /rules, /rules/{version}

Add ?advice=true to a calculation to attach commentary from the advice
service (` + advice.EnvAdviceURL + `) or the built-in advisor.`,
		Example: `  finplan serve --addr :8080
  finplan serve --rules-version fy2023-24-full --rate-limit 120 --log-format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("log-level") && !opts.debug {
				opts.logLevel = "info"
			}
			logger, engine, err := opts.setup()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			serverOpts := []api.Option{
				api.WithVersion(version),
				api.WithLogger(logger),
				api.WithAdvisor(advice.NewAdvisorFromEnv(logger)),
			}
			if rateLimit > 0 {
				serverOpts = append(serverOpts, api.WithRateLimiter(api.NewRateLimiter(rateLimit, time.Minute)))
			}
			return api.NewServer(engine, serverOpts...).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "Requests per minute per client (0 disables)")
	return cmd
}
