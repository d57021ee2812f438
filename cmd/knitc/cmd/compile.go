package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/knitgraph/compiler/bed/optimizer"
	"github.com/knitgraph/compiler/diag"
	"github.com/knitgraph/compiler/internal/xlog"
	"github.com/knitgraph/compiler/pipeline"
)

var compileLog = xlog.For("cmd.compile")

var (
	maxSweeps  int
	noOptimize bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <shapes.json>",
	Short: "Run the layout builder, optimizer, and packer over a shape description",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().IntVar(&maxSweeps, "max-sweeps", 0,
		"optimizer sweep budget (<=0 selects config.MaxOptimizerSweeps)")
	compileCmd.Flags().BoolVar(&noOptimize, "no-optimize", false,
		"skip the optimizer entirely")
}

func runCompile(cmd *cobra.Command, args []string) error {
	groups, err := loadGroups(args[0])
	if err != nil {
		return err
	}

	sweeps := maxSweeps
	if noOptimize {
		sweeps = optimizer.LevelNone
	}

	reg := diag.NewRoot("knitc")
	bed, err := pipeline.CompileGroups(context.Background(), groups, reg, pipeline.Options{
		MaxSweeps: sweeps,
	})
	if err != nil {
		return err
	}

	compileLog.Info().Int("groups", len(groups)).Msg("compiled shape groups")
	printSummary(cmd, bed, reg)

	return nil
}
