package score

import "fmt"

// HardSoftScore is a score with one hard level and one soft level,
// the most common shape for constraint-satisfaction-with-optimization
// problems: hard constraints gate feasibility, soft constraints rank
// feasible solutions.
type HardSoftScore struct {
	Hard int64
	Soft int64
}

// HardSoft constructs a HardSoftScore.
func HardSoft(hard, soft int64) HardSoftScore {
	return HardSoftScore{Hard: hard, Soft: soft}
}

func (s HardSoftScore) Kind() string { return "HardSoft" }

func (s HardSoftScore) String() string {
	return fmt.Sprintf("%dhard/%dsoft", s.Hard, s.Soft)
}

func (s HardSoftScore) IsFeasible() bool { return s.Hard >= 0 }

func (s HardSoftScore) Add(other Score) Score {
	o := mustHardSoft(other)
	return HardSoftScore{Hard: s.Hard + o.Hard, Soft: s.Soft + o.Soft}
}

func (s HardSoftScore) Negate() Score {
	return HardSoftScore{Hard: -s.Hard, Soft: -s.Soft}
}

func (s HardSoftScore) MultiplyBy(factor float64) Score {
	return HardSoftScore{
		Hard: truncateToward0(float64(s.Hard) * factor),
		Soft: truncateToward0(float64(s.Soft) * factor),
	}
}

func (s HardSoftScore) CompareTo(other Score) int {
	o := mustHardSoft(other)
	if c := compareInt64(s.Hard, o.Hard); c != 0 {
		return c
	}
	return compareInt64(s.Soft, o.Soft)
}

func mustHardSoft(s Score) HardSoftScore {
	v, ok := s.(HardSoftScore)
	if !ok {
		panic(fmt.Sprintf("score: expected HardSoftScore, got %s", s.Kind()))
	}
	return v
}

// ParseHardSoft parses the canonical "Nhard/Msoft" form.
func ParseHardSoft(text string) (HardSoftScore, error) {
	parts := splitLevels(text)
	if len(parts) != 2 {
		return HardSoftScore{}, parseErrorf(text, "expected exactly 2 levels (hard/soft), got %d", len(parts))
	}
	hard, rest, err := parseSignedLevel(parts[0], "hard")
	if err != nil {
		return HardSoftScore{}, err
	}
	if rest != "" {
		return HardSoftScore{}, parseErrorf(text, "unexpected trailing text %q after hard level", rest)
	}
	soft, rest, err := parseSignedLevel(parts[1], "soft")
	if err != nil {
		return HardSoftScore{}, err
	}
	if rest != "" {
		return HardSoftScore{}, parseErrorf(text, "unexpected trailing text %q after soft level", rest)
	}
	return HardSoftScore{Hard: hard, Soft: soft}, nil
}
