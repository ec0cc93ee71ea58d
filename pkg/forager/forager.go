// Package forager implements spec.md §4.7's foragers: the per-step
// policy that, given the candidates the selector offers, decides which
// one (if any) is applied. Grounded on the teacher's strategy.go
// pattern of pluggable, swappable decision policies, specialized here
// from variable/value ordering to move acceptance.
package forager

import (
	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/move"
	"github.com/gitrdm/solverforge/pkg/score"
)

// Candidate pairs a doable move with the score it would produce if
// applied, computed by speculative apply/undo under the director.
type Candidate struct {
	Move  move.Move
	Score score.Score
}

// Evaluate applies each doable candidate, captures its resulting
// score, and undoes it, returning every evaluated candidate. This is
// the "evaluated by speculatively applying them under the director,
// and either committed or undone" step spec.md §1 describes.
func Evaluate(d *director.Director, moves []move.Move) []Candidate {
	out := make([]Candidate, 0, len(moves))
	for _, m := range moves {
		if !m.IsDoable(d) {
			continue
		}
		m.Apply(d)
		s := d.CalculateScore()
		move.Undo(d)
		out = append(out, Candidate{Move: m, Score: s})
	}
	return out
}

// Forager picks which candidate (if any) to submit to the acceptor /
// commit this step.
type Forager interface {
	// Forage returns the chosen candidate and true, or false if none
	// of the offered candidates qualify.
	Forage(d *director.Director, candidates []Candidate, lastStepScore score.Score, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool)
}

// FirstFit picks the first doable candidate, implementing spec.md
// §4.7's construction-phase "First-fit" forager.
type FirstFit struct{}

func (FirstFit) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// BestFit picks the candidate with the best resulting score,
// implementing spec.md §4.7's construction-phase "Best-fit" forager.
type BestFit struct{}

func (BestFit) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score.CompareTo(best.Score) > 0 {
			best = c
		}
	}
	return best, true
}

// HeuristicFit picks the extreme of Rank among candidates, implementing
// spec.md §4.7's "Strongest/weakest-fit" forager (Rank higher is
// stronger; set Weakest to invert).
type HeuristicFit struct {
	Rank    func(Candidate) float64
	Weakest bool
}

func (h HeuristicFit) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	bestRank := h.Rank(best)
	for _, c := range candidates[1:] {
		r := h.Rank(c)
		if (h.Weakest && r < bestRank) || (!h.Weakest && r > bestRank) {
			best, bestRank = c, r
		}
	}
	return best, true
}

// FirstFeasible picks the first candidate whose score is feasible,
// implementing spec.md §4.7's "First-feasible" forager.
type FirstFeasible struct{}

func (FirstFeasible) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	for _, c := range candidates {
		if c.Score.IsFeasible() {
			return c, true
		}
	}
	return Candidate{}, false
}

// AcceptedCount collects up to N accepted candidates and picks the
// best among them, implementing spec.md §4.7's "Accepted-count"
// forager.
type AcceptedCount struct {
	N int
}

func (a AcceptedCount) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	var best Candidate
	found := false
	count := 0
	for _, c := range candidates {
		if !accepts(c) {
			continue
		}
		count++
		if !found || c.Score.CompareTo(best.Score) > 0 {
			best, found = c, true
		}
		if count >= a.N {
			break
		}
	}
	return best, found
}

// FirstAccepted stops at the first accepted candidate, implementing
// spec.md §4.7's "First-accepted" forager.
type FirstAccepted struct{}

func (FirstAccepted) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	for _, c := range candidates {
		if accepts(c) {
			return c, true
		}
	}
	return Candidate{}, false
}

// FirstBestScoreImproving stops at the first candidate that accepts
// and improves on bestScore, implementing spec.md §4.7's
// "First-best-score-improving" forager.
type FirstBestScoreImproving struct{}

func (FirstBestScoreImproving) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	for _, c := range candidates {
		if accepts(c) && c.Score.CompareTo(bestScore) > 0 {
			return c, true
		}
	}
	return Candidate{}, false
}

// FirstLastStepImproving stops at the first candidate that accepts and
// improves on lastStepScore, implementing spec.md §4.7's
// "First-last-step-improving" forager.
type FirstLastStepImproving struct{}

func (FirstLastStepImproving) Forage(d *director.Director, candidates []Candidate, lastStepScore, bestScore score.Score, accepts func(Candidate) bool) (Candidate, bool) {
	for _, c := range candidates {
		if accepts(c) && c.Score.CompareTo(lastStepScore) > 0 {
			return c, true
		}
	}
	return Candidate{}, false
}
