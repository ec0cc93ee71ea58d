package config

import (
	"strings"
	"testing"
)

func TestDefaultIsAlwaysConcrete(t *testing.T) {
	cfg := Default()
	if cfg.EnvironmentMode != NonReproducible {
		t.Fatalf("Default().EnvironmentMode = %q, want %q", cfg.EnvironmentMode, NonReproducible)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() did not validate: %v", err)
	}
}

func TestParseTOMLPopulatesFields(t *testing.T) {
	data := []byte(`
environment_mode = "reproducible"
random_seed = 42

[termination]
step_count_limit = 1000

[[phases]]
type = "local_search"
[phases.acceptor]
type = "hill_climbing"
`)
	cfg, err := ParseTOML(data)
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	if cfg.EnvironmentMode != Reproducible {
		t.Fatalf("EnvironmentMode = %q, want reproducible", cfg.EnvironmentMode)
	}
	if cfg.RandomSeed == nil || *cfg.RandomSeed != 42 {
		t.Fatalf("RandomSeed = %v, want 42", cfg.RandomSeed)
	}
	if cfg.Termination.StepCountLimit != 1000 {
		t.Fatalf("Termination.StepCountLimit = %d, want 1000", cfg.Termination.StepCountLimit)
	}
	if len(cfg.Phases) != 1 || cfg.Phases[0].Acceptor.Type != "hill_climbing" {
		t.Fatalf("Phases = %+v, want one local_search/hill_climbing phase", cfg.Phases)
	}
}

func TestParseTOMLReportsUnknownTopLevelKeys(t *testing.T) {
	data := []byte(`
environment_mode = "non_reproducible"
totally_unrecognized = "value"
`)
	cfg, err := ParseTOML(data)
	if err != nil {
		t.Fatalf("ParseTOML() error = %v", err)
	}
	found := false
	for _, k := range cfg.UnknownKeys {
		if k == "totally_unrecognized" {
			found = true
		}
	}
	if !found {
		t.Fatalf("UnknownKeys = %v, want it to include totally_unrecognized", cfg.UnknownKeys)
	}
}

func TestParseTOMLRejectsMalformedDocument(t *testing.T) {
	if _, err := ParseTOML([]byte("this is not = = toml")); err == nil {
		t.Fatal("ParseTOML() of malformed input did not error")
	}
}

func TestTOMLYAMLRoundTrip(t *testing.T) {
	seed := int64(7)
	original := &SolverConfig{
		EnvironmentMode: Reproducible,
		RandomSeed:      &seed,
		Termination:     TerminationConfig{StepCountLimit: 500},
		Phases: []PhaseConfig{
			{Type: PhaseConstructionHeuristic, ConstructionHeuristicType: "first_fit"},
		},
	}

	yamlBytes, err := FormatYAML(original)
	if err != nil {
		t.Fatalf("FormatYAML() error = %v", err)
	}
	fromYAML, err := ParseYAML(yamlBytes)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if fromYAML.EnvironmentMode != original.EnvironmentMode ||
		*fromYAML.RandomSeed != *original.RandomSeed ||
		fromYAML.Termination.StepCountLimit != original.Termination.StepCountLimit ||
		len(fromYAML.Phases) != 1 ||
		fromYAML.Phases[0].ConstructionHeuristicType != "first_fit" {
		t.Fatalf("round-tripped config = %+v, want equivalent to %+v", fromYAML, original)
	}

	tomlBytes, err := FormatTOML(fromYAML)
	if err != nil {
		t.Fatalf("FormatTOML() error = %v", err)
	}
	if !strings.Contains(string(tomlBytes), "first_fit") {
		t.Fatalf("FormatTOML() output %q does not carry construction_heuristic_type through", tomlBytes)
	}
}

func TestValidateRejectsUnknownEnvironmentMode(t *testing.T) {
	cfg := &SolverConfig{EnvironmentMode: "sideways"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted an unknown environment_mode")
	}
}

func TestValidateRequiresSeedUnderReproducibleMode(t *testing.T) {
	cfg := &SolverConfig{EnvironmentMode: Reproducible}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted reproducible mode without random_seed")
	}
}

func TestValidateRejectsUnknownPhaseType(t *testing.T) {
	cfg := Default()
	cfg.Phases = []PhaseConfig{{Type: "not_a_real_phase"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted an unknown phase type")
	}
}

func TestValidateRequiresConstructionHeuristicType(t *testing.T) {
	cfg := Default()
	cfg.Phases = []PhaseConfig{{Type: PhaseConstructionHeuristic}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted a construction_heuristic phase with no construction_heuristic_type")
	}
}

func TestValidateRejectsUnknownAcceptorType(t *testing.T) {
	cfg := Default()
	cfg.Phases = []PhaseConfig{{Type: PhaseLocalSearch, Acceptor: AcceptorConfig{Type: "not_a_real_acceptor"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted an unknown acceptor type")
	}
}

func TestValidateRejectsContradictoryAcceptorParams(t *testing.T) {
	cfg := Default()
	cfg.Phases = []PhaseConfig{{Type: PhaseLocalSearch, Acceptor: AcceptorConfig{Type: "late_acceptance", LateAcceptanceSize: 0}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() accepted late_acceptance with a non-positive size")
	}
}

func TestValidateAcceptsWellFormedLocalSearchPhase(t *testing.T) {
	cfg := Default()
	cfg.Phases = []PhaseConfig{{Type: PhaseLocalSearch, Acceptor: AcceptorConfig{Type: "late_acceptance", LateAcceptanceSize: 400}}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() rejected a well-formed local_search phase: %v", err)
	}
}
