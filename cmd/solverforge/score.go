package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitrdm/solverforge/pkg/score"
)

func newScoreCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "score",
		Short: "Parse or format scores in the textual forms spec.md §6 defines",
	}
	root.AddCommand(newScoreParseCmd())
	return root
}

func newScoreParseCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse a textual score and print its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var s score.Score
			var err error
			if kind == "" {
				s, err = score.ParseAuto(args[0])
			} else {
				s, err = score.Parse(score.Kind(kind), args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (feasible=%t)\n", s, s.IsFeasible())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "score kind (Simple, HardSoft, HardMediumSoft, Bendable, HardSoftDecimal); omit to auto-detect")
	return cmd
}
