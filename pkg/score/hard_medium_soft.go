package score

import "fmt"

// HardMediumSoftScore adds a medium priority level between hard and
// soft, used when a problem has an intermediate priority tier (e.g.
// "strongly preferred" constraints that outrank optimization but
// don't gate feasibility).
type HardMediumSoftScore struct {
	Hard   int64
	Medium int64
	Soft   int64
}

// HardMediumSoft constructs a HardMediumSoftScore.
func HardMediumSoft(hard, medium, soft int64) HardMediumSoftScore {
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}
}

func (s HardMediumSoftScore) Kind() string { return "HardMediumSoft" }

func (s HardMediumSoftScore) String() string {
	return fmt.Sprintf("%dhard/%dmedium/%dsoft", s.Hard, s.Medium, s.Soft)
}

func (s HardMediumSoftScore) IsFeasible() bool { return s.Hard >= 0 }

func (s HardMediumSoftScore) Add(other Score) Score {
	o := mustHardMediumSoft(other)
	return HardMediumSoftScore{Hard: s.Hard + o.Hard, Medium: s.Medium + o.Medium, Soft: s.Soft + o.Soft}
}

func (s HardMediumSoftScore) Negate() Score {
	return HardMediumSoftScore{Hard: -s.Hard, Medium: -s.Medium, Soft: -s.Soft}
}

func (s HardMediumSoftScore) MultiplyBy(factor float64) Score {
	return HardMediumSoftScore{
		Hard:   truncateToward0(float64(s.Hard) * factor),
		Medium: truncateToward0(float64(s.Medium) * factor),
		Soft:   truncateToward0(float64(s.Soft) * factor),
	}
}

func (s HardMediumSoftScore) CompareTo(other Score) int {
	o := mustHardMediumSoft(other)
	if c := compareInt64(s.Hard, o.Hard); c != 0 {
		return c
	}
	if c := compareInt64(s.Medium, o.Medium); c != 0 {
		return c
	}
	return compareInt64(s.Soft, o.Soft)
}

func mustHardMediumSoft(s Score) HardMediumSoftScore {
	v, ok := s.(HardMediumSoftScore)
	if !ok {
		panic(fmt.Sprintf("score: expected HardMediumSoftScore, got %s", s.Kind()))
	}
	return v
}

// ParseHardMediumSoft parses the canonical "Nhard/Mmedium/Ksoft" form.
func ParseHardMediumSoft(text string) (HardMediumSoftScore, error) {
	parts := splitLevels(text)
	if len(parts) != 3 {
		return HardMediumSoftScore{}, parseErrorf(text, "expected exactly 3 levels (hard/medium/soft), got %d", len(parts))
	}
	hard, rest, err := parseSignedLevel(parts[0], "hard")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	if rest != "" {
		return HardMediumSoftScore{}, parseErrorf(text, "unexpected trailing text %q after hard level", rest)
	}
	medium, rest, err := parseSignedLevel(parts[1], "medium")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	if rest != "" {
		return HardMediumSoftScore{}, parseErrorf(text, "unexpected trailing text %q after medium level", rest)
	}
	soft, rest, err := parseSignedLevel(parts[2], "soft")
	if err != nil {
		return HardMediumSoftScore{}, err
	}
	if rest != "" {
		return HardMediumSoftScore{}, parseErrorf(text, "unexpected trailing text %q after soft level", rest)
	}
	return HardMediumSoftScore{Hard: hard, Medium: medium, Soft: soft}, nil
}
