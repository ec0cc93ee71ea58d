// Package config implements spec.md §6's configuration surface: a
// hierarchical document, parseable from either TOML or YAML, that a
// Builder compiles into concrete termination and acceptor objects.
// Grounded on the teacher's always-concrete-construction convention
// (DefaultSolverConfig()-style builders that never leave zero-value
// fields for callers to nil-check), generalized here from a
// constraint-solver's fixed-point/domain configuration to the
// phase/acceptor/termination registry spec.md §6 names.
package config

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrConfig is the sentinel for every configuration-taxonomy error
// spec.md §7 names: unknown phase type, out-of-range numeric option,
// contradictory options.
var ErrConfig = errors.New("config: invalid configuration")

// EnvironmentMode fixes the seeding discipline (spec.md §6).
type EnvironmentMode string

const (
	Reproducible    EnvironmentMode = "reproducible"
	NonReproducible EnvironmentMode = "non_reproducible"
)

// TerminationConfig is any subset of spec.md §6's recognized
// termination keys; multiple present keys combine with Or.
type TerminationConfig struct {
	SecondsSpentLimit           float64 `toml:"seconds_spent_limit,omitempty" yaml:"seconds_spent_limit,omitempty"`
	StepCountLimit              int64   `toml:"step_count_limit,omitempty" yaml:"step_count_limit,omitempty"`
	UnimprovedSecondsSpentLimit float64 `toml:"unimproved_seconds_spent_limit,omitempty" yaml:"unimproved_seconds_spent_limit,omitempty"`
	BestScoreLimit              string  `toml:"best_score_limit,omitempty" yaml:"best_score_limit,omitempty"`
	ScoreCalculationCountLimit  int64   `toml:"score_calculation_count_limit,omitempty" yaml:"score_calculation_count_limit,omitempty"`
	MoveCountLimit              int64   `toml:"move_count_limit,omitempty" yaml:"move_count_limit,omitempty"`
}

func (t TerminationConfig) isZero() bool {
	return t == TerminationConfig{}
}

// AcceptorConfig carries every acceptor kind's parameters; only the
// fields relevant to Type are consulted.
type AcceptorConfig struct {
	Type                string  `toml:"type" yaml:"type"`
	LateAcceptanceSize  int     `toml:"late_acceptance_size,omitempty" yaml:"late_acceptance_size,omitempty"`
	StartingTemperature float64 `toml:"starting_temperature,omitempty" yaml:"starting_temperature,omitempty"`
	DecayRate           float64 `toml:"decay_rate,omitempty" yaml:"decay_rate,omitempty"`
	TabuSize            int     `toml:"tabu_size,omitempty" yaml:"tabu_size,omitempty"`
	StepCountingK       int     `toml:"step_counting_k,omitempty" yaml:"step_counting_k,omitempty"`
	RainRate            float64 `toml:"rain_rate,omitempty" yaml:"rain_rate,omitempty"`
	DiversificationPatience int `toml:"diversification_patience,omitempty" yaml:"diversification_patience,omitempty"`
}

// PhaseConfig is one element of the ordered `phases` array.
type PhaseConfig struct {
	Type                      string         `toml:"type" yaml:"type"`
	ConstructionHeuristicType string         `toml:"construction_heuristic_type,omitempty" yaml:"construction_heuristic_type,omitempty"`
	Acceptor                  AcceptorConfig `toml:"acceptor,omitempty" yaml:"acceptor,omitempty"`
}

// Recognized phase and construction-heuristic-type values (spec.md §6).
const (
	PhaseConstructionHeuristic = "construction_heuristic"
	PhaseLocalSearch           = "local_search"
	PhaseVND                   = "vnd"
	PhaseCustom                = "custom"
)

var validPhaseTypes = map[string]bool{
	PhaseConstructionHeuristic: true,
	PhaseLocalSearch:           true,
	PhaseVND:                   true,
	PhaseCustom:                true,
}

var validConstructionHeuristicTypes = map[string]bool{
	"first_fit": true, "first_fit_decreasing": true, "best_fit": true,
	"strongest_fit": true, "weakest_fit": true,
}

var validAcceptorTypes = map[string]bool{
	"hill_climbing": true, "late_acceptance": true, "simulated_annealing": true,
	"tabu_search": true, "great_deluge": true, "step_counting_hill_climbing": true,
	"diversified_late_acceptance": true,
}

// SolverConfig is the parsed hierarchical document spec.md §6
// describes. It round-trips through either serialization:
// ParseYAML(FormatYAML(c)) and ParseTOML(FormatTOML(c)) each
// reconstruct an equivalent tree.
type SolverConfig struct {
	EnvironmentMode EnvironmentMode   `toml:"environment_mode" yaml:"environment_mode"`
	RandomSeed      *int64            `toml:"random_seed,omitempty" yaml:"random_seed,omitempty"`
	Termination     TerminationConfig `toml:"termination,omitempty" yaml:"termination,omitempty"`
	Phases          []PhaseConfig     `toml:"phases,omitempty" yaml:"phases,omitempty"`

	// UnknownKeys collects top-level keys this struct does not
	// recognize; per spec.md §6 these are reported, not fatal.
	UnknownKeys []string `toml:"-" yaml:"-"`
}

// Default returns a SolverConfig with the teacher's always-concrete
// construction discipline: non_reproducible mode, an empty phase list
// and termination set, never a bare zero-value struct a caller must
// special-case.
func Default() *SolverConfig {
	return &SolverConfig{EnvironmentMode: NonReproducible}
}

var recognizedTopLevelKeys = map[string]bool{
	"environment_mode": true, "random_seed": true, "termination": true, "phases": true,
}

// ParseTOML parses data as the TOML serialization of a SolverConfig.
func ParseTOML(data []byte) (*SolverConfig, error) {
	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("%w: toml: %v", ErrConfig, err)
	}
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err == nil {
		cfg.UnknownKeys = unknownKeys(raw)
	}
	return cfg, nil
}

// ParseYAML parses data as the YAML serialization of a SolverConfig.
func ParseYAML(data []byte) (*SolverConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", ErrConfig, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err == nil {
		cfg.UnknownKeys = unknownKeys(raw)
	}
	return cfg, nil
}

func unknownKeys(raw map[string]any) []string {
	var out []string
	for k := range raw {
		if !recognizedTopLevelKeys[k] {
			out = append(out, k)
		}
	}
	return out
}

// FormatTOML renders cfg as TOML.
func FormatTOML(cfg *SolverConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("%w: toml encode: %v", ErrConfig, err)
	}
	return buf.Bytes(), nil
}

// FormatYAML renders cfg as YAML.
func FormatYAML(cfg *SolverConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml encode: %v", ErrConfig, err)
	}
	return out, nil
}

// Validate checks the contradictory-options and unknown-enum cases
// spec.md §7 classifies as configuration errors. Unknown top-level
// keys are not validation failures (spec.md §6 "reported but not
// fatal") — callers inspect cfg.UnknownKeys separately.
func (cfg *SolverConfig) Validate() error {
	if cfg.EnvironmentMode != Reproducible && cfg.EnvironmentMode != NonReproducible {
		return fmt.Errorf("%w: unknown environment_mode %q", ErrConfig, cfg.EnvironmentMode)
	}
	if cfg.EnvironmentMode == Reproducible && cfg.RandomSeed == nil {
		return fmt.Errorf("%w: reproducible mode requires random_seed", ErrConfig)
	}
	for i, p := range cfg.Phases {
		if !validPhaseTypes[p.Type] {
			return fmt.Errorf("%w: phase %d: unknown type %q", ErrConfig, i, p.Type)
		}
		if p.Type == PhaseConstructionHeuristic {
			if p.ConstructionHeuristicType == "" {
				return fmt.Errorf("%w: phase %d: construction_heuristic requires construction_heuristic_type", ErrConfig, i)
			}
			if !validConstructionHeuristicTypes[p.ConstructionHeuristicType] {
				return fmt.Errorf("%w: phase %d: unknown construction_heuristic_type %q", ErrConfig, i, p.ConstructionHeuristicType)
			}
		}
		if p.Type == PhaseLocalSearch {
			if !validAcceptorTypes[p.Acceptor.Type] {
				return fmt.Errorf("%w: phase %d: unknown acceptor type %q", ErrConfig, i, p.Acceptor.Type)
			}
			if err := validateAcceptorParams(i, p.Acceptor); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAcceptorParams(phaseIndex int, ac AcceptorConfig) error {
	switch ac.Type {
	case "late_acceptance", "diversified_late_acceptance":
		if ac.LateAcceptanceSize <= 0 {
			return fmt.Errorf("%w: phase %d: late_acceptance_size must be > 0", ErrConfig, phaseIndex)
		}
	case "tabu_search":
		if ac.TabuSize <= 0 {
			return fmt.Errorf("%w: phase %d: tabu_size must be > 0", ErrConfig, phaseIndex)
		}
	case "simulated_annealing":
		if ac.StartingTemperature <= 0 {
			return fmt.Errorf("%w: phase %d: starting_temperature must be > 0", ErrConfig, phaseIndex)
		}
	}
	return nil
}
