package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/solverforge/internal/scenario"
	"github.com/gitrdm/solverforge/pkg/config"
	"github.com/gitrdm/solverforge/pkg/solver"
)

func newSolveCmd(logger *zap.Logger) *cobra.Command {
	var configPath string
	var configFormat string
	var seed int64
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "solve <scenario>",
		Short: "Run one scenario to completion and print its best score",
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

			// externalFlag is the cooperative-cancellation handle
			// spec.md §5 describes: this process is the "external
			// controller" running the solver on its own goroutine
			// alongside a watchdog goroutine that never touches the
			// Director directly, only flips the flag the solver's own
			// termination composition polls at step boundaries.
			var externalFlag atomic.Bool
			dir, s, err := sc.Build(cfg, seed, &externalFlag)
			if err != nil {
				return fmt.Errorf("build scenario %q: %w", sc.Name(), err)
			}
			s.Logger = logger

			group, _ := errgroup.WithContext(cmd.Context())
			resultCh := make(chan solver.Result, 1)

			group.Go(func() error {
				resultCh <- s.Solve(dir)
				return nil
			})
			group.Go(func() error {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, os.Interrupt)
				defer signal.Stop(sigCh)

				var timeoutCh <-chan time.Time
				if timeout > 0 {
					timer := time.NewTimer(timeout)
					defer timer.Stop()
					timeoutCh = timer.C
				}
				select {
				case <-sigCh:
					externalFlag.Store(true)
				case <-timeoutCh:
					externalFlag.Store(true)
				case result := <-resultCh:
					resultCh <- result
				}
				return nil
			})
			if err := group.Wait(); err != nil {
				return err
			}

			result := <-resultCh
			fmt.Fprintf(cmd.OutOrStdout(), "run_id=%s steps=%d moves=%d score=%s\n",
				result.RunID, result.Stats.StepCount, result.Stats.MoveCount, result.BestScore)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML or YAML solver config")
	cmd.Flags().StringVar(&configFormat, "format", "toml", "config format: toml or yaml")
	cmd.Flags().Int64Var(&seed, "seed", 42, "construction/acceptor PRNG seed")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock watchdog limit (0 disables)")
	return cmd
}

func loadConfig(path, format string) (*config.SolverConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	switch format {
	case "yaml", "yml":
		return config.ParseYAML(data)
	default:
		return config.ParseTOML(data)
	}
}
