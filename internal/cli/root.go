// Package cli implements the arbeitszeit command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "arbeitszeit",
		Short: "Working time, vacation and overtime tracking on a spreadsheet",
		Long: `arbeitszeit records one entry per user and day in a spreadsheet and
keeps the running vacation, overtime and compensatory-leave balances.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml (default $ARBEITSZEIT_CONFIG or configs/config.yaml)")

	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newSummaryCommand(opts))
	root.AddCommand(newExportCommand(opts))
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
