package termination

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/gitrdm/solverforge/pkg/score"
)

func TestTimeLimitFiresAtElapsed(t *testing.T) {
	start := time.Now()
	s := &Stats{StartedAt: start, Now: start.Add(5 * time.Second)}
	if (TimeLimit{Limit: 10 * time.Second}).IsTerminated(s) {
		t.Fatal("fired before the limit elapsed")
	}
	s.Now = start.Add(10 * time.Second)
	if !(TimeLimit{Limit: 10 * time.Second}).IsTerminated(s) {
		t.Fatal("did not fire once the limit elapsed")
	}
}

func TestStepCountFiresAtLimit(t *testing.T) {
	s := &Stats{StepCount: 5}
	if (StepCount{Limit: 10}).IsTerminated(s) {
		t.Fatal("fired before the step limit")
	}
	s.StepCount = 10
	if !(StepCount{Limit: 10}).IsTerminated(s) {
		t.Fatal("did not fire at the step limit")
	}
}

func TestUnimprovedStepOrTimeStepsVariant(t *testing.T) {
	s := &Stats{StepCount: 100, BestScoreImprovedStep: 95}
	term := UnimprovedStepOrTime{Steps: 10}
	if term.IsTerminated(s) {
		t.Fatal("fired before Steps unimproved steps elapsed")
	}
	s.StepCount = 105
	if !term.IsTerminated(s) {
		t.Fatal("did not fire once Steps unimproved steps elapsed")
	}
}

func TestUnimprovedStepOrTimeDurationVariant(t *testing.T) {
	now := time.Now()
	s := &Stats{Now: now, BestScoreImprovedAt: now.Add(-5 * time.Second)}
	term := UnimprovedStepOrTime{Duration: 10 * time.Second}
	if term.IsTerminated(s) {
		t.Fatal("fired before Duration elapsed since the last improvement")
	}
	s.Now = now.Add(11 * time.Second)
	if !term.IsTerminated(s) {
		t.Fatal("did not fire once Duration elapsed since the last improvement")
	}
}

func TestBestScoreReachedComparesAgainstTarget(t *testing.T) {
	term := BestScoreReached{Target: score.Simple(10)}
	s := &Stats{BestScore: score.Simple(5)}
	if term.IsTerminated(s) {
		t.Fatal("fired before the target score was reached")
	}
	s.BestScore = score.Simple(10)
	if !term.IsTerminated(s) {
		t.Fatal("did not fire once the target score was reached")
	}
}

func TestBestScoreReachedNilBestScore(t *testing.T) {
	term := BestScoreReached{Target: score.Simple(0)}
	if term.IsTerminated(&Stats{}) {
		t.Fatal("fired with a nil BestScore")
	}
}

func TestFeasibleFiresOnFeasibleHardSoft(t *testing.T) {
	s := &Stats{BestScore: score.HardSoft(-1, 0)}
	if (Feasible{}).IsTerminated(s) {
		t.Fatal("fired on an infeasible score")
	}
	s.BestScore = score.HardSoft(0, -5)
	if !(Feasible{}).IsTerminated(s) {
		t.Fatal("did not fire on a feasible score")
	}
}

func TestDiminishedReturnsBelowThreshold(t *testing.T) {
	term := DiminishedReturns{
		WindowSize: 2,
		Threshold:  1,
		Magnitude:  func(delta score.Score) float64 { return float64(delta.(score.SimpleScore).Soft) },
	}
	s := &Stats{ScoreHistory: []ScoreSample{
		{Step: 0, Score: score.Simple(0)},
		{Step: 10, Score: score.Simple(1)},
		{Step: 20, Score: score.Simple(1)},
	}}
	if !term.IsTerminated(s) {
		t.Fatal("did not fire when the improvement rate over the window fell below threshold")
	}
}

func TestDiminishedReturnsAboveThresholdDoesNotFire(t *testing.T) {
	term := DiminishedReturns{
		WindowSize: 2,
		Threshold:  0.1,
		Magnitude:  func(delta score.Score) float64 { return float64(delta.(score.SimpleScore).Soft) },
	}
	s := &Stats{ScoreHistory: []ScoreSample{
		{Step: 0, Score: score.Simple(0)},
		{Step: 10, Score: score.Simple(10)},
		{Step: 20, Score: score.Simple(20)},
	}}
	if term.IsTerminated(s) {
		t.Fatal("fired though the improvement rate stayed well above threshold")
	}
}

func TestDiminishedReturnsInsufficientHistory(t *testing.T) {
	term := DiminishedReturns{WindowSize: 5, Threshold: 1, Magnitude: func(score.Score) float64 { return 0 }}
	s := &Stats{ScoreHistory: []ScoreSample{{Step: 0, Score: score.Simple(0)}}}
	if term.IsTerminated(s) {
		t.Fatal("fired with fewer history samples than WindowSize+1")
	}
}

func TestExternalFlagFiresWhenSet(t *testing.T) {
	var flag atomic.Bool
	term := ExternalFlag{Flag: &flag}
	if term.IsTerminated(&Stats{}) {
		t.Fatal("fired before the flag was set")
	}
	flag.Store(true)
	if !term.IsTerminated(&Stats{}) {
		t.Fatal("did not fire once the flag was set")
	}
}

func TestAndRequiresEveryInnerToFire(t *testing.T) {
	a := And{Inner: []Termination{StepCount{Limit: 5}, StepCount{Limit: 10}}}
	if a.IsTerminated(&Stats{StepCount: 7}) {
		t.Fatal("fired though only one inner termination had triggered")
	}
	if !a.IsTerminated(&Stats{StepCount: 10}) {
		t.Fatal("did not fire once every inner termination triggered")
	}
}

func TestAndWithNoInnerNeverFires(t *testing.T) {
	if (And{}).IsTerminated(&Stats{}) {
		t.Fatal("an empty And fired")
	}
}

func TestOrFiresOnAnyInner(t *testing.T) {
	o := Or{Inner: []Termination{StepCount{Limit: 100}, StepCount{Limit: 5}}}
	if !o.IsTerminated(&Stats{StepCount: 5}) {
		t.Fatal("did not fire though one inner termination triggered")
	}
}
