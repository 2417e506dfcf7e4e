// Package cli implements the callstats command tree.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the callstats command writing reports to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "callstats",
		Short: "callstats: offline call-center metrics reports",
		Long: `callstats computes the dashboard metrics from an exported JSON file of call
records, without any of the backing services.

Quick start:
  callstats report --input calls.json --period all
  callstats report --input calls.json --period week --region Sudeste --format json`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newReportCommand())
	return root
}
