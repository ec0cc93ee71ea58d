package config

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gitrdm/solverforge/pkg/acceptor"
	"github.com/gitrdm/solverforge/pkg/score"
	"github.com/gitrdm/solverforge/pkg/termination"
)

// Builder compiles a parsed SolverConfig into concrete
// termination/acceptor objects, analogous to the teacher's
// ConstraintManager registry that routes a parsed constraint
// definition to its concrete evaluator.
type Builder struct {
	ScoreKind score.Kind
}

// NewRand returns the single seeded PRNG spec.md §5 requires every
// stochastic component to share, seeded deterministically under
// reproducible mode and from the current time otherwise.
func (cfg *SolverConfig) NewRand() *rand.Rand {
	if cfg.EnvironmentMode == Reproducible && cfg.RandomSeed != nil {
		return rand.New(rand.NewSource(*cfg.RandomSeed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// BuildTermination compiles cfg.Termination into an Or of every
// present limit, per spec.md §6 ("Multiple keys combine with Or").
func (b *Builder) BuildTermination(cfg *SolverConfig) (termination.Termination, error) {
	if cfg.Termination.isZero() {
		return termination.Or{}, nil
	}
	var inner []termination.Termination
	t := cfg.Termination
	if t.SecondsSpentLimit > 0 {
		inner = append(inner, termination.TimeLimit{Limit: time.Duration(t.SecondsSpentLimit * float64(time.Second))})
	}
	if t.StepCountLimit > 0 {
		inner = append(inner, termination.StepCount{Limit: t.StepCountLimit})
	}
	if t.UnimprovedSecondsSpentLimit > 0 {
		inner = append(inner, termination.UnimprovedStepOrTime{Duration: time.Duration(t.UnimprovedSecondsSpentLimit * float64(time.Second))})
	}
	if t.BestScoreLimit != "" {
		target, err := score.Parse(b.ScoreKind, t.BestScoreLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: best_score_limit: %v", ErrConfig, err)
		}
		inner = append(inner, termination.BestScoreReached{Target: target})
	}
	if t.ScoreCalculationCountLimit > 0 {
		inner = append(inner, termination.ScoreCalculationCount{Limit: t.ScoreCalculationCountLimit})
	}
	if t.MoveCountLimit > 0 {
		inner = append(inner, termination.MoveCount{Limit: t.MoveCountLimit})
	}
	return termination.Or{Inner: inner}, nil
}

// BuildAcceptor compiles one phase's acceptor configuration into a
// concrete acceptor.Acceptor. EnergyOf is required only for
// simulated_annealing; all three tabu key extractors are
// acceptor.EntityRefKey.
func (b *Builder) BuildAcceptor(ac AcceptorConfig, rng *rand.Rand, energyOf func(moveScore, lastStep score.Score) float64) (acceptor.Acceptor, error) {
	switch ac.Type {
	case "hill_climbing":
		return &acceptor.HillClimbing{}, nil
	case "late_acceptance":
		return &acceptor.LateAcceptance{Size: ac.LateAcceptanceSize}, nil
	case "diversified_late_acceptance":
		patience := ac.DiversificationPatience
		if patience <= 0 {
			patience = ac.LateAcceptanceSize
		}
		return &acceptor.DiversifiedLateAcceptance{
			LateAcceptance: acceptor.LateAcceptance{Size: ac.LateAcceptanceSize},
			Patience:       patience,
		}, nil
	case "simulated_annealing":
		decay := ac.DecayRate
		if decay <= 0 {
			decay = 0.999
		}
		return &acceptor.SimulatedAnnealing{
			StartingTemperature: ac.StartingTemperature,
			DecayRate:           decay,
			EnergyOf:            energyOf,
			Rand:                rng,
		}, nil
	case "tabu_search":
		return &acceptor.TabuSearch{
			Size:      ac.TabuSize,
			Types:     []acceptor.TabuType{acceptor.EntityTabu, acceptor.MoveTabu, acceptor.ValueTabu},
			EntityKey: acceptor.EntityRefKey,
			MoveKey:   acceptor.EntityRefKey,
			ValueKey:  acceptor.EntityRefKey,
		}, nil
	case "great_deluge":
		rain := ac.RainRate
		if rain <= 0 {
			rain = 0.01
		}
		return &acceptor.GreatDeluge{
			InitialWaterLevel: score.Zero(b.ScoreKind),
			RainRate:          rain,
		}, nil
	case "step_counting_hill_climbing":
		k := ac.StepCountingK
		if k <= 0 {
			k = 1
		}
		return &acceptor.StepCountingHillClimbing{K: k}, nil
	default:
		return nil, fmt.Errorf("%w: unknown acceptor type %q", ErrConfig, ac.Type)
	}
}
