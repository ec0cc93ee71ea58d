package score

import "fmt"

// BendableScore is parameterized by an arbitrary number of hard
// levels followed by an arbitrary number of soft levels, for problems
// whose constraint hierarchy isn't fixed at two or three tiers.
// Two BendableScores are only comparable/combinable when they carry
// the same (len(Hard), len(Soft)) shape.
type BendableScore struct {
	Hard []int64
	Soft []int64
}

// Bendable constructs a BendableScore. The slices are copied so the
// returned score is independent of the caller's backing arrays,
// preserving score immutability.
func Bendable(hard, soft []int64) BendableScore {
	h := append([]int64(nil), hard...)
	s := append([]int64(nil), soft...)
	return BendableScore{Hard: h, Soft: s}
}

func (s BendableScore) Kind() string { return "Bendable" }

func (s BendableScore) String() string {
	return fmt.Sprintf("%shard/%ssoft", formatBracketList(s.Hard), formatBracketList(s.Soft))
}

func (s BendableScore) IsFeasible() bool {
	for _, h := range s.Hard {
		if h < 0 {
			return false
		}
	}
	return true
}

func (s BendableScore) sameShape(o BendableScore) bool {
	return len(s.Hard) == len(o.Hard) && len(s.Soft) == len(o.Soft)
}

func (s BendableScore) Add(other Score) Score {
	o := mustBendable(other)
	s.requireSameShape(o)
	hard := make([]int64, len(s.Hard))
	for i := range hard {
		hard[i] = s.Hard[i] + o.Hard[i]
	}
	soft := make([]int64, len(s.Soft))
	for i := range soft {
		soft[i] = s.Soft[i] + o.Soft[i]
	}
	return BendableScore{Hard: hard, Soft: soft}
}

func (s BendableScore) Negate() Score {
	hard := make([]int64, len(s.Hard))
	for i, h := range s.Hard {
		hard[i] = -h
	}
	soft := make([]int64, len(s.Soft))
	for i, v := range s.Soft {
		soft[i] = -v
	}
	return BendableScore{Hard: hard, Soft: soft}
}

func (s BendableScore) MultiplyBy(factor float64) Score {
	hard := make([]int64, len(s.Hard))
	for i, h := range s.Hard {
		hard[i] = truncateToward0(float64(h) * factor)
	}
	soft := make([]int64, len(s.Soft))
	for i, v := range s.Soft {
		soft[i] = truncateToward0(float64(v) * factor)
	}
	return BendableScore{Hard: hard, Soft: soft}
}

func (s BendableScore) CompareTo(other Score) int {
	o := mustBendable(other)
	s.requireSameShape(o)
	for i := range s.Hard {
		if c := compareInt64(s.Hard[i], o.Hard[i]); c != 0 {
			return c
		}
	}
	for i := range s.Soft {
		if c := compareInt64(s.Soft[i], o.Soft[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (s BendableScore) requireSameShape(o BendableScore) {
	if !s.sameShape(o) {
		panic(fmt.Sprintf("score: bendable shape mismatch: (%d,%d) vs (%d,%d)",
			len(s.Hard), len(s.Soft), len(o.Hard), len(o.Soft)))
	}
}

func mustBendable(s Score) BendableScore {
	v, ok := s.(BendableScore)
	if !ok {
		panic(fmt.Sprintf("score: expected BendableScore, got %s", s.Kind()))
	}
	return v
}

// ParseBendable parses the canonical
// "[h0,h1,...]hard/[s0,s1,...]soft" form.
func ParseBendable(text string) (BendableScore, error) {
	parts := splitLevels(text)
	if len(parts) != 2 {
		return BendableScore{}, parseErrorf(text, "expected exactly 2 bracketed groups (hard/soft), got %d", len(parts))
	}
	hard, rest, err := parseBracketList(parts[0], "hard")
	if err != nil {
		return BendableScore{}, err
	}
	if rest != "" {
		return BendableScore{}, parseErrorf(text, "unexpected trailing text %q after hard levels", rest)
	}
	soft, rest, err := parseBracketList(parts[1], "soft")
	if err != nil {
		return BendableScore{}, err
	}
	if rest != "" {
		return BendableScore{}, parseErrorf(text, "unexpected trailing text %q after soft levels", rest)
	}
	return BendableScore{Hard: hard, Soft: soft}, nil
}
