package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var format string

var dumpCmd = &cobra.Command{
	Use:   "dump [packages]",
	Short: "Print the compiled capabilities of every type",
	Long: `Compiles the given packages and prints what every type derives,
including per-field settings and rejected declarations.

Example:
  derivative dump ./...
  derivative dump --format text ./shapes`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or text")

	RootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	if format != "yaml" && format != "text" {
		return fmt.Errorf("unknown format %q (want yaml or text)", format)
	}

	logger := newLogger(cmd.ErrOrStderr())
	report, err := checkPackages(cmd.Context(), logger, args)
	if err != nil {
		return err
	}

	if format == "text" {
		return report.WriteText(cmd.OutOrStdout())
	}
	return report.WriteYAML(cmd.OutOrStdout())
}
