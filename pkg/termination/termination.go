// Package termination implements spec.md §4.9's composable stopping
// conditions. Grounded on the teacher's search.go/parallel_search.go
// bounded-search-loop pattern (a loop that polls a pluggable stop
// condition at fixed points), generalized here from one hard-coded
// depth/node-count cutoff to an arbitrary composed predicate.
package termination

import (
	"sync/atomic"
	"time"

	"github.com/gitrdm/solverforge/pkg/score"
)

// Stats is the progress snapshot terminations are polled against,
// updated by the phase loop at every step boundary (spec.md §4.9
// "Terminations are polled at step boundaries").
type Stats struct {
	StartedAt             time.Time
	Now                   time.Time
	StepCount             int64
	MoveCount             int64
	ScoreCalculationCount int64
	BestScore             score.Score
	BestScoreImprovedAt   time.Time
	BestScoreImprovedStep int64

	// ScoreHistory is a trailing window of (step, bestScore) samples
	// DiminishedReturns inspects; the phase loop appends to it on every
	// improvement.
	ScoreHistory []ScoreSample
}

// ScoreSample is one entry of Stats.ScoreHistory.
type ScoreSample struct {
	Step  int64
	Score score.Score
	At    time.Time
}

func (s *Stats) Elapsed() time.Duration { return s.Now.Sub(s.StartedAt) }

// Termination reports whether solving should stop, given the current
// progress snapshot.
type Termination interface {
	IsTerminated(s *Stats) bool
}

// Func adapts a plain function to a Termination.
type Func func(s *Stats) bool

func (f Func) IsTerminated(s *Stats) bool { return f(s) }

// TimeLimit fires once wall-clock elapsed reaches Limit.
type TimeLimit struct{ Limit time.Duration }

func (t TimeLimit) IsTerminated(s *Stats) bool { return s.Elapsed() >= t.Limit }

// StepCount fires once total steps reaches Limit.
type StepCount struct{ Limit int64 }

func (t StepCount) IsTerminated(s *Stats) bool { return s.StepCount >= t.Limit }

// MoveCount fires once moves evaluated reaches Limit.
type MoveCount struct{ Limit int64 }

func (t MoveCount) IsTerminated(s *Stats) bool { return s.MoveCount >= t.Limit }

// ScoreCalculationCount fires once full-score computations reach Limit.
type ScoreCalculationCount struct{ Limit int64 }

func (t ScoreCalculationCount) IsTerminated(s *Stats) bool {
	return s.ScoreCalculationCount >= t.Limit
}

// UnimprovedStepOrTime fires once Steps steps or Duration time has
// passed since the best score last improved, whichever is configured
// (zero means "not checked").
type UnimprovedStepOrTime struct {
	Steps    int64
	Duration time.Duration
}

func (t UnimprovedStepOrTime) IsTerminated(s *Stats) bool {
	if t.Steps > 0 && s.StepCount-s.BestScoreImprovedStep >= t.Steps {
		return true
	}
	if t.Duration > 0 && s.Now.Sub(s.BestScoreImprovedAt) >= t.Duration {
		return true
	}
	return false
}

// BestScoreReached fires once the best score reaches or exceeds
// Target.
type BestScoreReached struct{ Target score.Score }

func (t BestScoreReached) IsTerminated(s *Stats) bool {
	return s.BestScore != nil && s.BestScore.CompareTo(t.Target) >= 0
}

// Feasible fires once the best score is feasible.
type Feasible struct{}

func (Feasible) IsTerminated(s *Stats) bool {
	return s.BestScore != nil && s.BestScore.IsFeasible()
}

// DiminishedReturns fires when the best-score improvement rate over a
// trailing window of WindowSize history samples falls below
// Threshold, implementing spec.md §4.9's "Diminished returns" row.
type DiminishedReturns struct {
	WindowSize int
	Threshold  float64
	Magnitude  func(delta score.Score) float64
}

func (t DiminishedReturns) IsTerminated(s *Stats) bool {
	n := len(s.ScoreHistory)
	if n < t.WindowSize+1 {
		return false
	}
	window := s.ScoreHistory[n-t.WindowSize-1:]
	first, last := window[0], window[len(window)-1]
	delta := last.Score.Add(first.Score.Negate())
	elapsedSteps := float64(last.Step - first.Step)
	if elapsedSteps <= 0 {
		return false
	}
	rate := t.Magnitude(delta) / elapsedSteps
	return rate < t.Threshold
}

// ExternalFlag fires once Flag is set to non-zero by another thread,
// implementing spec.md §4.9's "External flag" row and §5's cooperative
// cancellation protocol.
type ExternalFlag struct {
	Flag *atomic.Bool
}

func (t ExternalFlag) IsTerminated(s *Stats) bool {
	return t.Flag != nil && t.Flag.Load()
}

// And fires only once every inner termination fires.
type And struct{ Inner []Termination }

func (a And) IsTerminated(s *Stats) bool {
	for _, t := range a.Inner {
		if !t.IsTerminated(s) {
			return false
		}
	}
	return len(a.Inner) > 0
}

// Or fires once any inner termination fires — the combination rule
// spec.md §6 specifies for multiple configured termination keys.
type Or struct{ Inner []Termination }

func (o Or) IsTerminated(s *Stats) bool {
	for _, t := range o.Inner {
		if t.IsTerminated(s) {
			return true
		}
	}
	return false
}
