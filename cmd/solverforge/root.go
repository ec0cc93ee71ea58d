package main

import (
	"go.uber.org/zap"

	"github.com/spf13/cobra"
)

func newRootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "solverforge",
		Short: "Metaheuristic constraint solver toolkit",
		Long: "solverforge drives the pkg/solver orchestrator against a " +
			"registered example scenario, reading its phase/termination " +
			"configuration from a TOML or YAML document.",
	}
	root.AddCommand(newSolveCmd(logger))
	root.AddCommand(newBenchCmd(logger))
	root.AddCommand(newScoreCmd())
	return root
}
