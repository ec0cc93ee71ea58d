// Package acceptor implements spec.md §4.8's local-search acceptance
// strategies. Grounded on the teacher's fd_monitor.go (stateful
// search-progress tracking with configurable policies) for the shape
// of a lifecycle-event-driven stateful strategy object.
package acceptor

import (
	"math"
	"math/rand"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Acceptor decides whether a candidate move's resulting score should
// be committed. All acceptors receive the phase_started / phase_ended
// / step_started / step_ended lifecycle events spec.md §4.8 specifies.
type Acceptor interface {
	PhaseStarted(d *director.Director, initialScore score.Score)
	PhaseEnded(d *director.Director)
	StepStarted(d *director.Director)
	StepEnded(d *director.Director, stepScore score.Score)

	// Accept reports whether moveScore should be committed, given the
	// best score observed so far (for aspiration-style overrides).
	Accept(m move.Move, moveScore score.Score, bestScore score.Score) bool
}

// HillClimbing accepts only strict improvements over the last step's
// score, implementing spec.md §4.8's "Hill climbing" row.
type HillClimbing struct {
	lastStep score.Score
}

func (h *HillClimbing) PhaseStarted(d *director.Director, initialScore score.Score) { h.lastStep = initialScore }
func (h *HillClimbing) PhaseEnded(d *director.Director)                             {}
func (h *HillClimbing) StepStarted(d *director.Director)                           {}
func (h *HillClimbing) StepEnded(d *director.Director, stepScore score.Score)       { h.lastStep = stepScore }

func (h *HillClimbing) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	return moveScore.CompareTo(h.lastStep) > 0
}

// SimulatedAnnealing always accepts improvements and accepts
// worsenings with probability dependent on a geometrically decaying
// temperature, implementing spec.md §4.8's "Simulated annealing" row.
// EnergyOf converts a score delta to a scalar "energy" difference
// (typically the soft-level delta, or a weighted combination for
// multi-level scores); Rand must be the phase's single seeded PRNG.
type SimulatedAnnealing struct {
	StartingTemperature float64
	DecayRate           float64
	EnergyOf            func(moveScore, lastStep score.Score) float64
	Rand                *rand.Rand

	temperature float64
	lastStep    score.Score
}

func (s *SimulatedAnnealing) PhaseStarted(d *director.Director, initialScore score.Score) {
	s.temperature = s.StartingTemperature
	s.lastStep = initialScore
}
func (s *SimulatedAnnealing) PhaseEnded(d *director.Director) {}
func (s *SimulatedAnnealing) StepStarted(d *director.Director) {}
func (s *SimulatedAnnealing) StepEnded(d *director.Director, stepScore score.Score) {
	s.lastStep = stepScore
	s.temperature *= s.DecayRate
}

func (s *SimulatedAnnealing) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	if moveScore.CompareTo(s.lastStep) > 0 {
		return true
	}
	energy := s.EnergyOf(moveScore, s.lastStep)
	if s.temperature <= 0 {
		return false
	}
	probability := math.Exp(energy / s.temperature)
	return s.Rand.Float64() < probability
}

// LateAcceptance accepts iff the candidate is at least as good as the
// score N steps ago, implementing spec.md §4.8's "Late acceptance"
// row.
type LateAcceptance struct {
	Size int

	ring []score.Score
	step int
}

func (l *LateAcceptance) PhaseStarted(d *director.Director, initialScore score.Score) {
	l.ring = make([]score.Score, l.Size)
	for i := range l.ring {
		l.ring[i] = initialScore
	}
	l.step = 0
}
func (l *LateAcceptance) PhaseEnded(d *director.Director)   {}
func (l *LateAcceptance) StepStarted(d *director.Director) {}
func (l *LateAcceptance) StepEnded(d *director.Director, stepScore score.Score) {
	l.ring[l.step%l.Size] = stepScore
	l.step++
}

func (l *LateAcceptance) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	return moveScore.CompareTo(l.ring[l.step%l.Size]) >= 0
}

// DiversifiedLateAcceptance is LateAcceptance plus a "diversify"
// fallback — once Patience consecutive candidates are rejected, the acceptor
// relaxes to accepting any move at least as good as the single worst
// entry in the buffer, implementing spec.md §4.8's "Diversified late
// acceptance" row.
type DiversifiedLateAcceptance struct {
	LateAcceptance
	Patience int

	rejectStreak int
}

func (d *DiversifiedLateAcceptance) PhaseStarted(dir *director.Director, initialScore score.Score) {
	d.LateAcceptance.PhaseStarted(dir, initialScore)
	d.rejectStreak = 0
}

func (d *DiversifiedLateAcceptance) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	if d.LateAcceptance.Accept(m, moveScore, bestScore) {
		d.rejectStreak = 0
		return true
	}
	d.rejectStreak++
	if d.rejectStreak < d.Patience {
		return false
	}
	worst := d.ring[0]
	for _, s := range d.ring[1:] {
		if s.CompareTo(worst) < 0 {
			worst = s
		}
	}
	return moveScore.CompareTo(worst) >= 0
}

// StepCountingHillClimbing compares each candidate against a reference
// score that is refreshed every K steps, implementing spec.md §4.8's
// "Step-counting hill climbing" row.
type StepCountingHillClimbing struct {
	K int

	reference score.Score
	counter   int
}

func (s *StepCountingHillClimbing) PhaseStarted(d *director.Director, initialScore score.Score) {
	s.reference = initialScore
	s.counter = 0
}
func (s *StepCountingHillClimbing) PhaseEnded(d *director.Director)   {}
func (s *StepCountingHillClimbing) StepStarted(d *director.Director) {}
func (s *StepCountingHillClimbing) StepEnded(d *director.Director, stepScore score.Score) {
	s.counter++
	if s.counter >= s.K {
		s.reference = stepScore
		s.counter = 0
	}
}

func (s *StepCountingHillClimbing) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	return moveScore.CompareTo(s.reference) >= 0
}

// GreatDeluge accepts iff the candidate clears a rising water level,
// implementing spec.md §4.8's "Great deluge" row. RainRate scales the
// gap between the current water level and the observed best score,
// raising the level toward it each step.
type GreatDeluge struct {
	InitialWaterLevel score.Score
	RainRate          float64

	waterLevel score.Score
	best       score.Score
}

func (g *GreatDeluge) PhaseStarted(d *director.Director, initialScore score.Score) {
	g.waterLevel = g.InitialWaterLevel
	g.best = initialScore
}
func (g *GreatDeluge) PhaseEnded(d *director.Director)   {}
func (g *GreatDeluge) StepStarted(d *director.Director) {}
func (g *GreatDeluge) StepEnded(d *director.Director, stepScore score.Score) {
	if g.best == nil || stepScore.CompareTo(g.best) > 0 {
		g.best = stepScore
	}
	if g.best.CompareTo(g.waterLevel) > 0 {
		gap := g.best.Add(g.waterLevel.Negate())
		g.waterLevel = g.waterLevel.Add(gap.MultiplyBy(g.RainRate))
	}
}

func (g *GreatDeluge) Accept(m move.Move, moveScore, bestScore score.Score) bool {
	return moveScore.CompareTo(g.waterLevel) >= 0
}
