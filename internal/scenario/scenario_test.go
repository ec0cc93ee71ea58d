package scenario

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gitrdm/solverforge/pkg/config"
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/solver"
)

type fakeScenario struct {
	name string
}

func (f fakeScenario) Name() string    { return f.name }
func (f fakeScenario) Describe() string { return "fake scenario for tests" }
func (f fakeScenario) Build(cfg *config.SolverConfig, seed int64, externalFlag *atomic.Bool) (*director.Director, *solver.Solver, error) {
	return nil, nil, nil
}

func TestRegisterAndGetRoundTrip(t *testing.T) {
	Register(fakeScenario{name: "test-register-roundtrip"})

	got, ok := Get("test-register-roundtrip")
	if !ok {
		t.Fatal("Get() did not find a scenario that was just registered")
	}
	if got.Name() != "test-register-roundtrip" {
		t.Fatalf("Name() = %q, want %q", got.Name(), "test-register-roundtrip")
	}
}

func TestGetUnknownScenarioReportsNotFound(t *testing.T) {
	if _, ok := Get("test-definitely-not-registered"); ok {
		t.Fatal("Get() found a scenario that was never registered")
	}
}

func TestNamesIsSortedAndIncludesRegistered(t *testing.T) {
	Register(fakeScenario{name: "test-names-zzz"})
	Register(fakeScenario{name: "test-names-aaa"})

	names := Names()
	foundAAA, foundZZZ, aaaIdx, zzzIdx := false, false, -1, -1
	for i, n := range names {
		if n == "test-names-aaa" {
			foundAAA, aaaIdx = true, i
		}
		if n == "test-names-zzz" {
			foundZZZ, zzzIdx = true, i
		}
	}
	if !foundAAA || !foundZZZ {
		t.Fatalf("Names() = %v, want it to include both registered test scenarios", names)
	}
	if aaaIdx > zzzIdx {
		t.Fatalf("Names() did not sort test-names-aaa before test-names-zzz: %v", names)
	}
}

func TestMustGetUnknownScenarioListsAvailable(t *testing.T) {
	Register(fakeScenario{name: "test-mustget-available"})

	_, err := MustGet("test-mustget-nonexistent")
	if err == nil {
		t.Fatal("MustGet() did not error for an unregistered scenario")
	}
	if !strings.Contains(err.Error(), "test-mustget-available") {
		t.Fatalf("MustGet() error %q does not list the available scenarios", err.Error())
	}
}

func TestMustGetKnownScenarioSucceeds(t *testing.T) {
	Register(fakeScenario{name: "test-mustget-known"})

	got, err := MustGet("test-mustget-known")
	if err != nil {
		t.Fatalf("MustGet() error = %v", err)
	}
	if got.Name() != "test-mustget-known" {
		t.Fatalf("Name() = %q, want %q", got.Name(), "test-mustget-known")
	}
}

