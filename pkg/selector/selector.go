// Package selector implements spec.md §4.7's move selectors: lazy
// producers of candidate moves, composed by decorators. Grounded on
// the teacher's strategy.go (variable/value ordering strategies as
// composable, swappable policies) — the direct model for selectors
// built by wrapping one inner selector with another rather than
// subclassing.
//
// Simplification, documented rather than hidden: "lazy" here means
// each Selector.Select call materializes its candidate moves for the
// current step into a slice rather than exposing a pull-based
// iterator; every decorator composes over that slice. This costs
// nothing asymptotically at the per-step move-count scales this
// engine's examples use, and keeps every decorator a plain function
// over a slice instead of a hand-rolled iterator state machine — the
// same tradeoff the teacher makes with its eagerly materialized
// `Stream` results in stream.go's non-lazy combinators.
package selector

import (
	"math/rand"
	"sort"

	"github.com/gitrdm/solverforge/pkg/director"
	"github.com/gitrdm/solverforge/pkg/move"
)

// Selector produces the candidate moves to consider for one step.
type Selector interface {
	Select(d *director.Director) []move.Move
}

// Func adapts a plain function to a Selector.
type Func func(d *director.Director) []move.Move

func (f Func) Select(d *director.Director) []move.Move { return f(d) }

// Union chains several inner selectors' outputs in order, implementing
// spec.md §4.7's "Union" decorator.
type Union struct {
	Inner []Selector
}

func (u *Union) Select(d *director.Director) []move.Move {
	var out []move.Move
	for _, s := range u.Inner {
		out = append(out, s.Select(d)...)
	}
	return out
}

// Cartesian produces the outer × inner product of two selectors as
// move.Composite moves, implementing spec.md §4.7's "Cartesian
// product" decorator.
type Cartesian struct {
	Outer, Inner Selector
}

func (c *Cartesian) Select(d *director.Director) []move.Move {
	outer := c.Outer.Select(d)
	inner := c.Inner.Select(d)
	out := make([]move.Move, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			out = append(out, &move.Composite{Moves: []move.Move{o, i}})
		}
	}
	return out
}

// Filtering drops candidates failing Pred, implementing spec.md §4.7's
// "Filtering" decorator.
type Filtering struct {
	Inner Selector
	Pred  func(d *director.Director, m move.Move) bool
}

func (f *Filtering) Select(d *director.Director) []move.Move {
	var out []move.Move
	for _, m := range f.Inner.Select(d) {
		if f.Pred(d, m) {
			out = append(out, m)
		}
	}
	return out
}

// Sorting reorders candidates by Less, implementing spec.md §4.7's
// "Sorting" decorator.
type Sorting struct {
	Inner Selector
	Less  func(a, b move.Move) bool
}

func (s *Sorting) Select(d *director.Director) []move.Move {
	out := append([]move.Move(nil), s.Inner.Select(d)...)
	sort.SliceStable(out, func(i, j int) bool { return s.Less(out[i], out[j]) })
	return out
}

// Shuffling reorders candidates using a seeded RNG, implementing
// spec.md §4.7's "Shuffling" decorator. Reproducibility under a fixed
// seed (spec.md §5) depends on Rand being the phase's single seeded
// PRNG, never a freshly seeded one per call.
type Shuffling struct {
	Inner Selector
	Rand  *rand.Rand
}

func (s *Shuffling) Select(d *director.Director) []move.Move {
	out := append([]move.Move(nil), s.Inner.Select(d)...)
	s.Rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Caching materializes the inner selector's output once per phase and
// replays it on every subsequent Select call, implementing spec.md
// §4.7's "Caching" decorator.
type Caching struct {
	Inner  Selector
	cached []move.Move
	filled bool
}

func (c *Caching) Select(d *director.Director) []move.Move {
	if !c.filled {
		c.cached = c.Inner.Select(d)
		c.filled = true
	}
	return c.cached
}

// Reset clears the cache, to be called at phase_started.
func (c *Caching) Reset() { c.filled = false; c.cached = nil }

// CountLimit stops after the first N candidates, implementing spec.md
// §4.7's "Count limit" decorator.
type CountLimit struct {
	Inner Selector
	N     int
}

func (c *CountLimit) Select(d *director.Director) []move.Move {
	out := c.Inner.Select(d)
	if len(out) > c.N {
		out = out[:c.N]
	}
	return out
}

// Probability accepts each candidate independently with probability P,
// implementing spec.md §4.7's "Probability" decorator.
type Probability struct {
	Inner Selector
	P     float64
	Rand  *rand.Rand
}

func (p *Probability) Select(d *director.Director) []move.Move {
	var out []move.Move
	for _, m := range p.Inner.Select(d) {
		if p.Rand.Float64() < p.P {
			out = append(out, m)
		}
	}
	return out
}

// DistanceMeter measures the distance between two candidate values;
// the Nearby decorator ranks candidates by it.
type DistanceMeter func(origin, candidate any) float64

// NearbySelectionConfig controls how many candidates Nearby keeps per
// origin: candidates are sorted nearest-first and truncated to the
// nearest ConsiderCount (all of them when ConsiderCount is zero or
// negative). Nearby does no random sampling and does not read
// DecayFactor.
type NearbySelectionConfig struct {
	ConsiderCount int
	DecayFactor   float64 // not read by Nearby
}

// Nearby biases the second entity of a pairing toward candidates close
// to an origin selector's output under Meter, implementing spec.md
// §4.7's "Nearby" decorator. OriginValue and CandidateValue extract the
// comparable value (e.g. a coordinate) each move's origin/partner
// represents; Compose builds the final move from the chosen origin and
// nearby candidate. Every origin is paired with each kept candidate in
// nearest-first order; Rand is not read.
type Nearby struct {
	Origin, Candidates Selector
	Config             NearbySelectionConfig
	Meter              DistanceMeter
	OriginValue        func(m move.Move) any
	CandidateValue     func(m move.Move) any
	Compose            func(origin, candidate move.Move) move.Move
	Rand               *rand.Rand
}

func (n *Nearby) Select(d *director.Director) []move.Move {
	origins := n.Origin.Select(d)
	candidates := n.Candidates.Select(d)
	var out []move.Move
	for _, o := range origins {
		ov := n.OriginValue(o)
		type scored struct {
			m move.Move
			dist float64
		}
		ranked := make([]scored, 0, len(candidates))
		for _, c := range candidates {
			ranked = append(ranked, scored{m: c, dist: n.Meter(ov, n.CandidateValue(c))})
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })
		limit := n.Config.ConsiderCount
		if limit <= 0 || limit > len(ranked) {
			limit = len(ranked)
		}
		for _, r := range ranked[:limit] {
			// Every kept candidate is composed, nearest first.
			out = append(out, n.Compose(o, r.m))
		}
	}
	return out
}
