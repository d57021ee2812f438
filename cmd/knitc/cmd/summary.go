package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knitgraph/compiler/bed/timeneedlebed"
	"github.com/knitgraph/compiler/diag"
)

// printSummary prints the bed-count/width/diagnostic summary every knitc
// subcommand ends with, one labeled line per metric, to stdout (knitc has
// no UI to hand results to).
func printSummary(cmd *cobra.Command, bed *timeneedlebed.Bed, reg *diag.Registry) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "beds:     %d\n", bed.Length())
	fmt.Fprintf(out, "width:    %d\n", bed.Width)

	var errs, warns, notices int
	for _, e := range reg.ListAll() {
		switch e.Severity {
		case diag.SeverityError:
			errs++
		case diag.SeverityWarning:
			warns++
		case diag.SeverityNotice:
			notices++
		}
	}
	fmt.Fprintf(out, "errors:   %d\n", errs)
	fmt.Fprintf(out, "warnings: %d\n", warns)
	fmt.Fprintf(out, "notices:  %d\n", notices)
}
