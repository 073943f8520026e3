package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Report malformed annotations",
	Long: `Compiles every annotated declaration of the given packages and prints
one line per rejected declaration. Exits non-zero when any is rejected.

Example:
  derivative check ./...
  derivative check --catalog derivative.db ./internal/...`,
	RunE: runCheck,
}

func init() {
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	report, err := checkPackages(cmd.Context(), logger, args)
	if err != nil {
		return err
	}

	diags := report.Diagnostics()
	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	if len(diags) > 0 {
		return fmt.Errorf("%d declarations rejected", len(diags))
	}
	return nil
}
