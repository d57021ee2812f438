package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/knitgraph/compiler/internal/xlog"
)

var verbose bool

// rootCmd is knitc's base command: a PersistentPreRunE wires the verbose
// flag into the shared structured logger before any subcommand runs.
var rootCmd = &cobra.Command{
	Use:   "knitc",
	Short: "Compile a knitting skeleton into a time-needle bed",
	Long: `knitc drives the knitting-skeleton compiler end to end: it reads a
JSON description of shape groups, builds their layout trees, optimizes
offsets and flips, packs the result into a time-needle bed, and optionally
simulates and compacts it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			xlog.SetLevel(zerolog.DebugLevel)
		}

		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command, exiting the process with status 1 on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")

	rootCmd.Example = `  # Compile a flat sheet into a time-needle bed
  knitc compile testdata/flat_sheet.json

  # Compile, then run the backward-flow simulator
  knitc simulate testdata/flat_sheet.json --verbose

  # Compile, simulate, and compact, reporting the bed count before/after
  knitc compact testdata/flat_sheet.json --transfer-flow`
}
