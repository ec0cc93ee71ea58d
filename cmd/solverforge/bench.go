package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/solverforge/internal/report"
	"github.com/gitrdm/solverforge/internal/scenario"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/solver"
)

func newBenchCmd(logger *zap.Logger) *cobra.Command {
	var configPath, configFormat string
	var samples int
	var concurrency int
	var seed int64

	cmd := &cobra.Command{
		Use:   "bench <scenario>",
		Short: "Run a scenario under several seeds and summarize the score distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenario.MustGet(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath, configFormat)
			if err != nil {
				return err
			}

			runner := &report.BenchRunner{Concurrency: concurrency}
			sink := runner.Run(context.Background(), samples, func(sampleIndex int) (*solver.Solver, *director.Director) {
				var flag atomic.Bool
				dir, s, buildErr := sc.Build(cfg, seed+int64(sampleIndex), &flag)
				if buildErr != nil {
					logger.Error("bench sample build failed", zap.Int("sample", sampleIndex), zap.Error(buildErr))
				}
				s.Logger = logger
				return s, dir
			})

			fmt.Fprintf(cmd.OutOrStdout(), "submitted=%d completed=%d failed=%d mean_duration=%s\n",
				runner.Stats.Submitted(), runner.Stats.Completed(), runner.Stats.Failed(), runner.Stats.MeanDuration())
			for _, run := range sink.Runs {
				fmt.Fprintf(cmd.OutOrStdout(), "  run=%s score=%s steps=%d wall=%s\n",
					run.RunID, run.FinalScore, run.StepCount, run.WallTime)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML or YAML solver config")
	cmd.Flags().StringVar(&configFormat, "format", "toml", "config format: toml or yaml")
	cmd.Flags().IntVar(&samples, "samples", 10, "number of independent runs")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max concurrent runs (0 = unbounded)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "base seed; sample i uses seed+i")
	return cmd
}
