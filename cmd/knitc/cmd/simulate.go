package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
	"github.com/knitgraph/compiler/pipeline"
)

var simulateLog = xlog.For("cmd.simulate")

var simulateCmd = &cobra.Command{
	Use:   "simulate <shapes.json>",
	Short: "Compile and run the backward-flow simulator, reporting yarn-physics warnings",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	groups, err := loadGroups(args[0])
	if err != nil {
		return err
	}

	reg := diag.NewRoot("knitc")
	bed, err := pipeline.CompileGroups(context.Background(), groups, reg, pipeline.Options{
		Simulate: true,
	})
	if err != nil {
		return err
	}

	simulateLog.Info().Msg("simulation complete")
	printSummary(cmd, bed, reg)

	out := cmd.OutOrStdout()
	for _, e := range reg.Sub("simulate").List() {
		fmt.Fprintf(out, "  [%s] t=%d idx=%d side=%s: %s\n", e.Severity, e.Time, e.Index, e.Side, e.Message)
	}

	return nil
}
