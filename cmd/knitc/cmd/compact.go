package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
	"github.com/knitgraph/compiler/pipeline"
)

var compactLog = xlog.For("cmd.compact")

var compactTransferFlow bool

var compactCmd = &cobra.Command{
	Use:   "compact <shapes.json>",
	Short: "Compile, simulate, and compact, reporting the bed count before and after",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompact,
}

func init() {
	rootCmd.AddCommand(compactCmd)
	compactCmd.Flags().BoolVar(&compactTransferFlow, "transfer-flow", false,
		"remap simulator backward-flow state into the compacted bed too")
}

func runCompact(cmd *cobra.Command, args []string) error {
	groups, err := loadGroups(args[0])
	if err != nil {
		return err
	}

	reg := diag.NewRoot("knitc")
	before, err := pipeline.CompileGroups(context.Background(), groups, reg, pipeline.Options{
		Simulate: true,
	})
	if err != nil {
		return err
	}
	beforeLen := before.Length()

	reg2 := diag.NewRoot("knitc")
	after, err := pipeline.CompileGroups(context.Background(), groups, reg2, pipeline.Options{
		Simulate:            true,
		Compact:             true,
		CompactTransferFlow: compactTransferFlow,
	})
	if err != nil {
		return err
	}

	compactLog.Info().Int("before", beforeLen).Int("after", after.Length()).Msg("compacted")
	fmt.Fprintf(cmd.OutOrStdout(), "beds before compaction: %d\n", beforeLen)
	printSummary(cmd, after, reg2)

	return nil
}
