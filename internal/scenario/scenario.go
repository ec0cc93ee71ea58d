// Package scenario is the registry that lets cmd/solverforge discover
// the example domains (examples/n-queens, examples/tsp,
// examples/shift-scheduling) without importing any one of them
// directly: each example registers itself from an init() function,
// and main blank-imports the set it wants available. Grounded on the
// teacher's cmd/example/main.go, which hard-codes one demo per
// function; generalized here into a name-keyed registry so the CLI
// can grow new scenarios without editing main.go.
package scenario

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/gitrdm/solverforge/pkg/config"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/solver"
)

// Scenario is one runnable example domain: it knows how to build a
// fresh Director and Solver from a parsed SolverConfig and a seed.
// externalFlag, if non-nil, must be OR'd into the built Solver's
// termination (via termination.ExternalFlag) so an external controller
// — spec.md §5's cooperative-cancellation watchdog — can stop the run
// without owning the Director itself.
type Scenario interface {
	Name() string
	Describe() string
	Build(cfg *config.SolverConfig, seed int64, externalFlag *atomic.Bool) (*director.Director, *solver.Solver, error)
}

var registry = map[string]Scenario{}

// Register adds s to the registry, keyed by s.Name(). Intended to be
// called from an example package's init().
func Register(s Scenario) {
	registry[s.Name()] = s
}

// Get looks up a scenario by name.
func Get(name string) (Scenario, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns every registered scenario name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MustGet looks up a scenario by name, returning a descriptive error
// listing what is registered if name is unknown.
func MustGet(name string) (Scenario, error) {
	s, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("scenario: unknown scenario %q (available: %v)", name, Names())
	}
	return s, nil
}
