// Command solverforge is the operator-facing entry point spec.md §6
// implies with its configuration surface: parse a config document,
// pick a registered scenario, run it, and print or persist the
// outcome. Grounded on the teacher's cmd/example/main.go (one binary,
// several demonstration routines), generalized here from hard-coded
// demo functions to a spf13/cobra command tree so scenarios and
// config files are runtime arguments instead of recompiled constants.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	_ "github.com/gitrdm/solverforge/examples/n-queens"
	_ "github.com/gitrdm/solverforge/examples/shift-scheduling"
	_ "github.com/gitrdm/solverforge/examples/tsp"
	_ "github.com/gitrdm/solverforge/examples/vehicle-routing"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
