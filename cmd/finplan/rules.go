package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/config"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate tax rule tables",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the built-in rule table versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, v := range config.BuiltinVersions() {
				marker := " "
				if v == config.DefaultRulesVersion {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, v)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [version-or-file]",
		Short: "Print a rule table's source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := config.DefaultRulesVersion
			if len(args) == 1 {
				ref = args[0]
			}
			data, err := config.BuiltinSource(ref)
			if err != nil {
				var readErr error
				if data, readErr = os.ReadFile(ref); readErr != nil {
					return fmt.Errorf("%q is neither a built-in version nor a readable file: %w", ref, readErr)
				}
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a YAML or HCL rule table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := config.NewRuleLoader().Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule table %s is valid (version %s, financial year %s)\n",
				args[0], rules.Metadata.Version, rules.Metadata.FinancialYear)
			return nil
		},
	})

	return cmd
}
